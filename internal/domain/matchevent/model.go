package matchevent

// Incident types produced by the extractor. Provider subtype strings are
// folded into these during extraction.
const (
	TypeGoal         = "goal"
	TypeOwnGoal      = "own_goal"
	TypePenaltyGoal  = "penalty_goal"
	TypeMissedPen    = "penalty_missed"
	TypeYellowCard   = "yellow_card"
	TypeYellowRed    = "yellow_red_card"
	TypeRedCard      = "red_card"
	TypeSubstitution = "substitution"
	TypeVAR          = "var"
	TypeInjuryTime   = "injury_time"
	TypePeriod       = "period"
	TypeUnknown      = "unknown"
)

// MinuteUnknown is the sentinel recorded when the provider omitted the
// incident minute. Rows missing identity are dropped instead.
const MinuteUnknown = -1

// Event is one parsed match incident.
type Event struct {
	MatchSourceID        int64
	MatchID              int64
	Minute               int
	Type                 string
	TeamSourceID         int64
	TeamID               int64
	PlayerSourceID       int64
	PlayerID             int64
	AssistPlayerSourceID int64
	AssistPlayerID       int64
	PlayerInSourceID     int64
	PlayerInID           int64
	PlayerOutSourceID    int64
	PlayerOutID          int64
	HomeScore            *int
	AwayScore            *int
}

// IsGoal reports whether the incident puts the ball in the net.
func (e Event) IsGoal() bool {
	switch e.Type {
	case TypeGoal, TypeOwnGoal, TypePenaltyGoal:
		return true
	default:
		return false
	}
}
