package postgres

type shotInsertModel struct {
	MatchID        int64   `db:"match_id"`
	PlayerID       int64   `db:"player_id"`
	SourceItemID   int64   `db:"source_item_id"`
	TeamID         *int64  `db:"team_id"`
	Minute         int     `db:"minute"`
	X              float64 `db:"x"`
	Y              float64 `db:"y"`
	Outcome        string  `db:"outcome"`
	AssistPlayerID *int64  `db:"assist_player_id"`
	IsPenalty      bool    `db:"is_penalty"`
	IsOwnGoal      bool    `db:"is_own_goal"`
}

type averagePositionInsertModel struct {
	MatchID  int64   `db:"match_id"`
	PlayerID int64   `db:"player_id"`
	TeamID   *int64  `db:"team_id"`
	AvgX     float64 `db:"avg_x"`
	AvgY     float64 `db:"avg_y"`
}
