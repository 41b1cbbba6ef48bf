package stats

// TeamMatchStat aggregates one team's numbers for one match.
type TeamMatchStat struct {
	MatchSourceID   int64
	TeamSourceID    int64
	MatchID         int64
	TeamID          int64
	PossessionPct   float64
	Shots           int
	ShotsOnTarget   int
	Corners         int
	Fouls           int
	Offsides        int
	YellowCards     int
	RedCards        int
	Passes          int
	PassesAccurate  int
}

// PlayerMatchStat aggregates one player's numbers for one match.
// SubMinute carries the substitution minute when one of the flags is
// set, matchevent.MinuteUnknown otherwise.
type PlayerMatchStat struct {
	MatchSourceID  int64
	PlayerSourceID int64
	TeamSourceID   int64
	MatchID        int64
	PlayerID       int64
	TeamID         int64
	Goals          int
	Assists        int
	MinutesPlayed  int
	Rating         float64
	WasSubbedIn    bool
	WasSubbedOut   bool
	SubMinute      int
}
