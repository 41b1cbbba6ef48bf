package postgres

import "time"

type matchInsertModel struct {
	Source        string    `db:"source"`
	SourceEventID int64     `db:"source_event_id"`
	CompetitionID int64     `db:"competition_id"`
	Season        string    `db:"season"`
	HomeTeamID    int64     `db:"home_team_id"`
	AwayTeamID    int64     `db:"away_team_id"`
	KickoffAt     time.Time `db:"kickoff_at"`
	Status        string    `db:"status"`
	Minute        int       `db:"minute"`
	HomeScore     *int      `db:"home_score"`
	AwayScore     *int      `db:"away_score"`
	Venue         string    `db:"venue"`
	Round         string    `db:"round"`
}

type snapshotInsertModel struct {
	MatchID   int64     `db:"match_id"`
	Status    string    `db:"status"`
	Minute    int       `db:"minute"`
	HomeScore *int      `db:"home_score"`
	AwayScore *int      `db:"away_score"`
	AsOf      time.Time `db:"as_of"`
}
