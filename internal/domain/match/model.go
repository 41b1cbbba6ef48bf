package match

import "time"

// Canonical match statuses. Provider vocabularies are folded into this
// set by the pipeline canonicalizer; nothing downstream sees raw status
// strings.
const (
	StatusUpcoming  = "upcoming"
	StatusLive      = "live"
	StatusHalfTime  = "ht"
	StatusFinished  = "finished"
	StatusCancelled = "cancelled"
	StatusPostponed = "postponed"
	StatusDelayed   = "delayed"
	StatusAbandoned = "abandoned"
	StatusSuspended = "suspended"
)

// IsCanonicalStatus reports whether s already belongs to the canonical set.
func IsCanonicalStatus(s string) bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusHalfTime, StatusFinished,
		StatusCancelled, StatusPostponed, StatusDelayed, StatusAbandoned, StatusSuspended:
		return true
	default:
		return false
	}
}

// IsInPlay reports whether s describes a match currently on the pitch.
func IsInPlay(s string) bool {
	return s == StatusLive || s == StatusHalfTime
}

// MinuteUnknown marks a live match whose minute could not be derived.
const MinuteUnknown = -1

// Match is one scheduled or played fixture.
type Match struct {
	ID                  int64
	Source              string
	SourceEventID       int64
	CompetitionSourceID int64
	CompetitionID       int64
	Season              string
	HomeTeamSourceID    int64
	AwayTeamSourceID    int64
	HomeTeamID          int64
	AwayTeamID          int64
	KickoffAt           time.Time
	Status              string
	Minute              int
	HomeScore           *int
	AwayScore           *int
	Venue               string
	Round               string
}

func (m Match) Merge(in Match) Match {
	if m.SourceEventID == 0 {
		m.SourceEventID = in.SourceEventID
	}
	if m.Source == "" {
		m.Source = in.Source
	}
	if m.CompetitionSourceID == 0 {
		m.CompetitionSourceID = in.CompetitionSourceID
	}
	if m.Season == "" {
		m.Season = in.Season
	}
	if m.HomeTeamSourceID == 0 {
		m.HomeTeamSourceID = in.HomeTeamSourceID
	}
	if m.AwayTeamSourceID == 0 {
		m.AwayTeamSourceID = in.AwayTeamSourceID
	}
	if m.KickoffAt.IsZero() {
		m.KickoffAt = in.KickoffAt
	}
	if m.Status == "" {
		m.Status = in.Status
	}
	if m.Minute == 0 {
		m.Minute = in.Minute
	}
	if m.HomeScore == nil {
		m.HomeScore = in.HomeScore
	}
	if m.AwayScore == nil {
		m.AwayScore = in.AwayScore
	}
	if m.Venue == "" {
		m.Venue = in.Venue
	}
	if m.Round == "" {
		m.Round = in.Round
	}
	return m
}

// StateSnapshot is one append-only observation of a match state at a
// point in time. The canonical Match score is reconciled against the
// most recent snapshot, never the other way round.
type StateSnapshot struct {
	ID        int64
	MatchID   int64
	Status    string
	Minute    int
	HomeScore *int
	AwayScore *int
	AsOf      time.Time
}
