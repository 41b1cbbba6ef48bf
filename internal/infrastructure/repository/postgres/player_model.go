package postgres

import "time"

type playerInsertModel struct {
	Source      string     `db:"source"`
	SourceID    int64      `db:"source_id"`
	Name        string     `db:"name"`
	Nationality string     `db:"nationality"`
	HeightCM    int        `db:"height_cm"`
	DateOfBirth *time.Time `db:"date_of_birth"`
	Placeholder bool       `db:"placeholder"`
}
