package postgres

type competitionInsertModel struct {
	Source   string `db:"source"`
	SourceID int64  `db:"source_id"`
	Name     string `db:"name"`
	Country  string `db:"country"`
	Priority int    `db:"priority"`
	LogoURL  string `db:"logo_url"`
}
