package postgres

type teamInsertModel struct {
	Source         string `db:"source"`
	SourceID       int64  `db:"source_id"`
	Name           string `db:"name"`
	ShortName      string `db:"short_name"`
	PrimaryColor   string `db:"primary_color"`
	SecondaryColor string `db:"secondary_color"`
	Venue          string `db:"venue"`
	Founded        int    `db:"founded"`
	Placeholder    bool   `db:"placeholder"`
}
