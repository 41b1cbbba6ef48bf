package manager

import "time"

// Manager is a head coach.
type Manager struct {
	ID           int64
	Source       string
	SourceID     int64
	Name         string
	Nationality  string
	DateOfBirth  *time.Time
	TeamSourceID int64
	TeamID       int64
	Placeholder  bool
}

func (m Manager) Merge(in Manager) Manager {
	if m.SourceID == 0 {
		m.SourceID = in.SourceID
	}
	if m.Source == "" {
		m.Source = in.Source
	}
	if m.Name == "" || (m.Placeholder && !in.Placeholder && in.Name != "") {
		m.Name = in.Name
	}
	if m.Nationality == "" {
		m.Nationality = in.Nationality
	}
	if m.DateOfBirth == nil {
		m.DateOfBirth = in.DateOfBirth
	}
	if m.TeamSourceID == 0 {
		m.TeamSourceID = in.TeamSourceID
	}
	m.Placeholder = m.Placeholder && in.Placeholder
	return m
}

func (m Manager) MissingDetail() bool {
	return m.Nationality == "" || m.DateOfBirth == nil
}

const (
	SideHome = "home"
	SideAway = "away"
)

// MatchAssignment links a manager to one side of one match.
type MatchAssignment struct {
	MatchSourceID   int64
	ManagerSourceID int64
	TeamSourceID    int64
	MatchID         int64
	ManagerID       int64
	TeamID          int64
	Side            string
}
