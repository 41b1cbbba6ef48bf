package postgres

type teamStatInsertModel struct {
	MatchID        int64   `db:"match_id"`
	TeamID         int64   `db:"team_id"`
	PossessionPct  float64 `db:"possession_pct"`
	Shots          int     `db:"shots"`
	ShotsOnTarget  int     `db:"shots_on_target"`
	Corners        int     `db:"corners"`
	Fouls          int     `db:"fouls"`
	Offsides       int     `db:"offsides"`
	YellowCards    int     `db:"yellow_cards"`
	RedCards       int     `db:"red_cards"`
	Passes         int     `db:"passes"`
	PassesAccurate int     `db:"passes_accurate"`
}

type playerStatInsertModel struct {
	MatchID       int64   `db:"match_id"`
	PlayerID      int64   `db:"player_id"`
	TeamID        *int64  `db:"team_id"`
	Goals         int     `db:"goals"`
	Assists       int     `db:"assists"`
	MinutesPlayed int     `db:"minutes_played"`
	Rating        float64 `db:"rating"`
	WasSubbedIn   bool    `db:"was_subbed_in"`
	WasSubbedOut  bool    `db:"was_subbed_out"`
	SubMinute     int     `db:"sub_minute"`
}
