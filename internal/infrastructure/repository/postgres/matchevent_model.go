package postgres

type matchEventInsertModel struct {
	MatchID        int64  `db:"match_id"`
	Minute         int    `db:"minute"`
	EventType      string `db:"event_type"`
	TeamID         *int64 `db:"team_id"`
	PlayerID       int64  `db:"player_id"`
	AssistPlayerID *int64 `db:"assist_player_id"`
	PlayerInID     int64  `db:"player_in_id"`
	PlayerOutID    int64  `db:"player_out_id"`
	HomeScore      *int   `db:"home_score"`
	AwayScore      *int   `db:"away_score"`
}
