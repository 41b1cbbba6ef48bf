package player

import "time"

// Player is one football player. Name is the only required attribute;
// a record created purely to satisfy a foreign key carries a generated
// display name and Placeholder=true until a real observation arrives.
type Player struct {
	ID          int64
	Source      string
	SourceID    int64
	Name        string
	Nationality string
	HeightCM    int
	DateOfBirth *time.Time
	Placeholder bool
}

func (p Player) Merge(in Player) Player {
	if p.SourceID == 0 {
		p.SourceID = in.SourceID
	}
	if p.Source == "" {
		p.Source = in.Source
	}
	if p.Name == "" || (p.Placeholder && !in.Placeholder && in.Name != "") {
		p.Name = in.Name
	}
	if p.Nationality == "" {
		p.Nationality = in.Nationality
	}
	if p.HeightCM == 0 {
		p.HeightCM = in.HeightCM
	}
	if p.DateOfBirth == nil {
		p.DateOfBirth = in.DateOfBirth
	}
	p.Placeholder = p.Placeholder && in.Placeholder
	return p
}

func (p Player) MissingDetail() bool {
	return p.Nationality == "" || p.DateOfBirth == nil
}
