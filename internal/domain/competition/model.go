package competition

// Competition is one tournament or league tracked by the ingestor.
type Competition struct {
	ID       int64
	Source   string
	SourceID int64
	Name     string
	Country  string
	Priority int
	LogoURL  string
}

// Merge folds a later observation of the same competition into c.
// Non-empty fields win; the first observed value is kept on conflict.
func (c Competition) Merge(in Competition) Competition {
	if c.SourceID == 0 {
		c.SourceID = in.SourceID
	}
	if c.Source == "" {
		c.Source = in.Source
	}
	if c.Name == "" {
		c.Name = in.Name
	}
	if c.Country == "" {
		c.Country = in.Country
	}
	if c.Priority == 0 {
		c.Priority = in.Priority
	}
	if c.LogoURL == "" {
		c.LogoURL = in.LogoURL
	}
	return c
}
