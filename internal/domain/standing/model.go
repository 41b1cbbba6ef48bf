package standing

// Standing is one team's row in a competition/season table.
type Standing struct {
	CompetitionSourceID int64
	Season              string
	TeamSourceID        int64
	CompetitionID       int64
	TeamID              int64
	Position            int
	Played              int
	Won                 int
	Draw                int
	Lost                int
	GoalsFor            int
	GoalsAgainst        int
	Points              int
	Form                string
}
