package team

// Team is one club or national side.
type Team struct {
	ID             int64
	Source         string
	SourceID       int64
	Name           string
	ShortName      string
	PrimaryColor   string
	SecondaryColor string
	Venue          string
	Founded        int
	Placeholder    bool
}

func (t Team) Merge(in Team) Team {
	if t.SourceID == 0 {
		t.SourceID = in.SourceID
	}
	if t.Source == "" {
		t.Source = in.Source
	}
	if t.Name == "" {
		t.Name = in.Name
	}
	if t.ShortName == "" {
		t.ShortName = in.ShortName
	}
	if t.PrimaryColor == "" {
		t.PrimaryColor = in.PrimaryColor
	}
	if t.SecondaryColor == "" {
		t.SecondaryColor = in.SecondaryColor
	}
	if t.Venue == "" {
		t.Venue = in.Venue
	}
	if t.Founded == 0 {
		t.Founded = in.Founded
	}
	// A real observation always clears the placeholder flag.
	t.Placeholder = t.Placeholder && in.Placeholder
	return t
}

// MissingDetail reports whether a secondary profile fetch could still
// add anything useful to this record.
func (t Team) MissingDetail() bool {
	return t.Venue == "" || t.Founded == 0
}
