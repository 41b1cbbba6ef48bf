package postgres

type lineupEntryInsertModel struct {
	MatchID      int64  `db:"match_id"`
	TeamID       int64  `db:"team_id"`
	PlayerID     int64  `db:"player_id"`
	Position     string `db:"position"`
	JerseyNumber int    `db:"jersey_number"`
	Starter      bool   `db:"starter"`
	Captain      bool   `db:"captain"`
}

type formationInsertModel struct {
	MatchID   int64  `db:"match_id"`
	TeamID    int64  `db:"team_id"`
	Formation string `db:"formation"`
}
