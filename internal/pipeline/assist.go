package pipeline

import (
	"github.com/matchpulse/matchpulse/internal/domain/matchevent"
	"github.com/matchpulse/matchpulse/internal/domain/shot"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

// AssistReconciler recovers missing assist links on goal shots by
// cross-referencing the independently parsed incident stream. Shot maps
// and incident feeds come from different provider endpoints and disagree
// often enough that neither alone is authoritative.
type AssistReconciler struct {
	logger *logging.Logger
}

func NewAssistReconciler(logger *logging.Logger) *AssistReconciler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AssistReconciler{logger: logger}
}

type assistCandidate struct {
	minute         int
	assistSourceID int64
	order          int
}

type matchScorerKey struct {
	matchSourceID  int64
	scorerSourceID int64
}

// Reconcile fills AssistPlayerSourceID on goal shots that lack one,
// returning how many were recovered. Resolution tries, in order: a goal
// incident for the same scorer at the same minute, then within a drift
// of one minute, then two or three; failing that, the scorer's sole
// assist partner anywhere in the batch; failing that, the nearest
// candidate by minute distance. Ties go to the first-encountered
// incident. A shot that stays unresolved simply keeps no assist.
func (r *AssistReconciler) Reconcile(b *Bundle) int {
	byScorer := make(map[matchScorerKey][]assistCandidate)
	partners := make(map[int64]map[int64]struct{})
	for i, e := range b.Events {
		if !e.IsGoal() || e.PlayerSourceID <= 0 || e.AssistPlayerSourceID <= 0 {
			continue
		}
		key := matchScorerKey{e.MatchSourceID, e.PlayerSourceID}
		byScorer[key] = append(byScorer[key], assistCandidate{
			minute:         e.Minute,
			assistSourceID: e.AssistPlayerSourceID,
			order:          i,
		})
		set, ok := partners[e.PlayerSourceID]
		if !ok {
			set = make(map[int64]struct{})
			partners[e.PlayerSourceID] = set
		}
		set[e.AssistPlayerSourceID] = struct{}{}
	}

	resolved := 0
	for i := range b.Shots {
		s := &b.Shots[i]
		if s.Outcome != shot.OutcomeGoal || s.IsOwnGoal || s.AssistPlayerSourceID > 0 {
			continue
		}
		candidates := byScorer[matchScorerKey{s.MatchSourceID, s.PlayerSourceID}]

		if id := pickByMinuteDrift(s.Minute, candidates); id > 0 {
			s.AssistPlayerSourceID = id
			resolved++
			continue
		}
		if set := partners[s.PlayerSourceID]; len(set) == 1 {
			for id := range set {
				s.AssistPlayerSourceID = id
			}
			resolved++
			continue
		}
		if id := pickNearest(s.Minute, candidates); id > 0 {
			s.AssistPlayerSourceID = id
			resolved++
		}
	}
	if resolved > 0 {
		r.logger.Debug("assists recovered from incident stream", "count", resolved)
	}
	return resolved
}

// pickByMinuteDrift widens the allowed minute distance tier by tier so an
// exact match always beats a drifted one.
func pickByMinuteDrift(shotMinute int, candidates []assistCandidate) int64 {
	if shotMinute == shot.MinuteUnknown || len(candidates) == 0 {
		return 0
	}
	for _, allowed := range [][]int{{0}, {1}, {2, 3}} {
		for _, c := range candidates {
			if c.minute == matchevent.MinuteUnknown {
				continue
			}
			d := absInt(c.minute - shotMinute)
			for _, want := range allowed {
				if d == want {
					return c.assistSourceID
				}
			}
		}
	}
	return 0
}

func pickNearest(shotMinute int, candidates []assistCandidate) int64 {
	if shotMinute == shot.MinuteUnknown {
		return 0
	}
	best := int64(0)
	bestDistance := 0
	for _, c := range candidates {
		if c.minute == matchevent.MinuteUnknown {
			continue
		}
		d := absInt(c.minute - shotMinute)
		if best == 0 || d < bestDistance {
			best = c.assistSourceID
			bestDistance = d
		}
	}
	return best
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
