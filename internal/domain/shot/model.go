package shot

// Canonical shot outcomes. NormalizeOutcome in the pipeline folds
// provider free text into this set and is idempotent over it.
const (
	OutcomeGoal           = "goal"
	OutcomeOwnGoal        = "own_goal"
	OutcomeOnTarget       = "on_target"
	OutcomeOffTarget      = "off_target"
	OutcomeBlocked        = "blocked"
	OutcomeSaved          = "saved"
	OutcomeWoodwork       = "woodwork"
	OutcomeSavedOffTarget = "saved_off_target"
	OutcomeUnknown        = "unknown"
)

// IsCanonicalOutcome reports whether s already belongs to the canonical set.
func IsCanonicalOutcome(s string) bool {
	switch s {
	case OutcomeGoal, OutcomeOwnGoal, OutcomeOnTarget, OutcomeOffTarget,
		OutcomeBlocked, OutcomeSaved, OutcomeWoodwork, OutcomeSavedOffTarget, OutcomeUnknown:
		return true
	default:
		return false
	}
}

// MinuteUnknown is the sentinel for a shot whose minute the provider
// omitted. Shots missing player identity or coordinates are dropped.
const MinuteUnknown = -1

// Shot is one attempt from the provider shot map.
type Shot struct {
	MatchSourceID        int64
	PlayerSourceID       int64
	SourceItemID         int64
	MatchID              int64
	PlayerID             int64
	TeamSourceID         int64
	TeamID               int64
	Minute               int
	X                    float64
	Y                    float64
	Outcome              string
	AssistPlayerSourceID int64
	AssistPlayerID       int64
	IsPenalty            bool
	IsOwnGoal            bool
}

// AveragePosition is one player's mean pitch position in one match.
type AveragePosition struct {
	MatchSourceID  int64
	PlayerSourceID int64
	MatchID        int64
	PlayerID       int64
	TeamSourceID   int64
	TeamID         int64
	AvgX           float64
	AvgY           float64
}
