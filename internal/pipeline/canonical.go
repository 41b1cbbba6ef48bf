package pipeline

import (
	"strings"
	"time"

	"github.com/matchpulse/matchpulse/internal/domain/match"
	"github.com/matchpulse/matchpulse/internal/domain/shot"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

var statusByProviderValue = map[string]string{
	"inprogress":  match.StatusLive,
	"live":        match.StatusLive,
	"1st half":    match.StatusLive,
	"2nd half":    match.StatusLive,
	"halftime":    match.StatusHalfTime,
	"ht":          match.StatusHalfTime,
	"finished":    match.StatusFinished,
	"ended":       match.StatusFinished,
	"ft":          match.StatusFinished,
	"fulltime":    match.StatusFinished,
	"afterextra":  match.StatusFinished,
	"penalties":   match.StatusFinished,
	"notstarted":  match.StatusUpcoming,
	"scheduled":   match.StatusUpcoming,
	"upcoming":    match.StatusUpcoming,
	"cancelled":   match.StatusCancelled,
	"canceled":    match.StatusCancelled,
	"postponed":   match.StatusPostponed,
	"delayed":     match.StatusDelayed,
	"abandoned":   match.StatusAbandoned,
	"interrupted": match.StatusSuspended,
	"suspended":   match.StatusSuspended,
}

// MapStatus translates a provider status string into the canonical set.
// Unmapped input defaults to upcoming.
func MapStatus(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := statusByProviderValue[value]; ok {
		return mapped
	}
	if match.IsCanonicalStatus(value) {
		return value
	}
	return match.StatusUpcoming
}

type Canonicalizer struct {
	zombieAfter     time.Duration
	futureTolerance time.Duration
	logger          *logging.Logger
	now             func() time.Time
}

func NewCanonicalizer(zombieAfter, futureTolerance time.Duration, logger *logging.Logger) *Canonicalizer {
	if zombieAfter <= 0 {
		zombieAfter = 3 * time.Hour
	}
	if futureTolerance <= 0 {
		futureTolerance = 15 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Canonicalizer{
		zombieAfter:     zombieAfter,
		futureTolerance: futureTolerance,
		logger:          logger,
		now:             time.Now,
	}
}

// CanonicalStatus maps the raw status and applies the zombie overrides. A
// match still reported live long after kickoff is forced to finished; one
// reported live well before kickoff is forced back to upcoming.
func (c *Canonicalizer) CanonicalStatus(raw string, kickoffAt time.Time) string {
	status := MapStatus(raw)
	if !match.IsInPlay(status) || kickoffAt.IsZero() {
		return status
	}

	now := c.now()
	if now.Sub(kickoffAt) > c.zombieAfter {
		c.logger.Warn("zombie match forced to finished",
			"raw_status", raw,
			"kickoff_at", kickoffAt,
		)
		return match.StatusFinished
	}
	if kickoffAt.Sub(now) > c.futureTolerance {
		return match.StatusUpcoming
	}
	return status
}

// EstimateMinute derives the current match minute from elapsed wall time.
// First-half stoppage runs to 50, the half-time break pins at 45, the
// second half maps elapsed-60 back onto 46-90, and extra time caps at 120.
func (c *Canonicalizer) EstimateMinute(status string, kickoffAt time.Time) int {
	switch status {
	case match.StatusHalfTime:
		return 45
	case match.StatusLive:
	default:
		return 0
	}
	if kickoffAt.IsZero() {
		return match.MinuteUnknown
	}

	elapsed := int(c.now().Sub(kickoffAt).Minutes())
	switch {
	case elapsed < 1:
		return 1
	case elapsed <= 45:
		return elapsed
	case elapsed <= 50:
		return elapsed
	case elapsed <= 60:
		return 45
	case elapsed <= 105:
		return elapsed - 15
	case elapsed <= 135:
		minute := elapsed - 15
		if minute > 120 {
			minute = 120
		}
		return minute
	default:
		c.logger.Warn("suspicious elapsed minutes capped",
			"elapsed_minutes", elapsed,
			"kickoff_at", kickoffAt,
		)
		return 120
	}
}

var shotOutcomeSynonyms = map[string]string{
	"goal":                 shot.OutcomeGoal,
	"scored":               shot.OutcomeGoal,
	"penalty scored":       shot.OutcomeGoal,
	"own goal":             shot.OutcomeOwnGoal,
	"owngoal":              shot.OutcomeOwnGoal,
	"own-goal":             shot.OutcomeOwnGoal,
	"attempt saved":        shot.OutcomeSaved,
	"save":                 shot.OutcomeSaved,
	"saved":                shot.OutcomeSaved,
	"keeper save":          shot.OutcomeSaved,
	"on target":            shot.OutcomeOnTarget,
	"ontarget":             shot.OutcomeOnTarget,
	"shot on target":       shot.OutcomeOnTarget,
	"off target":           shot.OutcomeOffTarget,
	"offtarget":            shot.OutcomeOffTarget,
	"miss":                 shot.OutcomeOffTarget,
	"missed":               shot.OutcomeOffTarget,
	"wide":                 shot.OutcomeOffTarget,
	"blocked":              shot.OutcomeBlocked,
	"block":                shot.OutcomeBlocked,
	"woodwork":             shot.OutcomeWoodwork,
	"post":                 shot.OutcomeWoodwork,
	"crossbar":             shot.OutcomeWoodwork,
	"bar":                  shot.OutcomeWoodwork,
	"saved off target":     shot.OutcomeSavedOffTarget,
	"saved-off-target":     shot.OutcomeSavedOffTarget,
	"keeper saved to post": shot.OutcomeSavedOffTarget,
}

// NormalizeShotOutcome maps a free-text outcome string into the canonical
// outcome set. Canonical input passes through unchanged, so the function is
// idempotent.
func NormalizeShotOutcome(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return shot.OutcomeUnknown
	}
	if shot.IsCanonicalOutcome(value) {
		return value
	}
	if mapped, ok := shotOutcomeSynonyms[value]; ok {
		return mapped
	}

	switch {
	case strings.Contains(value, "own"):
		return shot.OutcomeOwnGoal
	case strings.Contains(value, "goal"):
		return shot.OutcomeGoal
	case strings.Contains(value, "save"):
		return shot.OutcomeSaved
	case strings.Contains(value, "block"):
		return shot.OutcomeBlocked
	case strings.Contains(value, "post"), strings.Contains(value, "bar"), strings.Contains(value, "wood"):
		return shot.OutcomeWoodwork
	case strings.Contains(value, "miss"), strings.Contains(value, "wide"), strings.Contains(value, "off"):
		return shot.OutcomeOffTarget
	case strings.Contains(value, "target"):
		return shot.OutcomeOnTarget
	}
	return shot.OutcomeUnknown
}
