package postgres

import "time"

type managerInsertModel struct {
	Source      string     `db:"source"`
	SourceID    int64      `db:"source_id"`
	Name        string     `db:"name"`
	Nationality string     `db:"nationality"`
	DateOfBirth *time.Time `db:"date_of_birth"`
	TeamID      *int64     `db:"team_id"`
	Placeholder bool       `db:"placeholder"`
}

type managerAssignmentInsertModel struct {
	MatchID   int64  `db:"match_id"`
	ManagerID int64  `db:"manager_id"`
	TeamID    int64  `db:"team_id"`
	Side      string `db:"side"`
}
