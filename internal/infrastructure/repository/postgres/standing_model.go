package postgres

type standingInsertModel struct {
	CompetitionID int64  `db:"competition_id"`
	Season        string `db:"season"`
	TeamID        int64  `db:"team_id"`
	Position      int    `db:"position"`
	Played        int    `db:"played"`
	Won           int    `db:"won"`
	Draw          int    `db:"draw"`
	Lost          int    `db:"lost"`
	GoalsFor      int    `db:"goals_for"`
	GoalsAgainst  int    `db:"goals_against"`
	Points        int    `db:"points"`
	Form          string `db:"form"`
}
