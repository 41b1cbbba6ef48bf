package lineup

// Entry is one player's slot in a match lineup.
type Entry struct {
	MatchSourceID  int64
	TeamSourceID   int64
	PlayerSourceID int64
	MatchID        int64
	TeamID         int64
	PlayerID       int64
	Position       string
	JerseyNumber   int
	Starter        bool
	Captain        bool
}

// Formation is the formation string for one team in one match, e.g. "4-3-3".
type Formation struct {
	MatchSourceID int64
	TeamSourceID  int64
	MatchID       int64
	TeamID        int64
	Formation     string
}
