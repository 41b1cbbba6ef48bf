package pipeline

import (
	"testing"

	"github.com/matchpulse/matchpulse/internal/domain/matchevent"
	"github.com/matchpulse/matchpulse/internal/domain/shot"
)

func goalIncident(matchID, scorer, assist int64, minute int) matchevent.Event {
	return matchevent.Event{
		MatchSourceID:        matchID,
		Type:                 matchevent.TypeGoal,
		PlayerSourceID:       scorer,
		AssistPlayerSourceID: assist,
		Minute:               minute,
	}
}

func goalShot(matchID, scorer int64, minute int) shot.Shot {
	return shot.Shot{
		MatchSourceID:  matchID,
		PlayerSourceID: scorer,
		Outcome:        shot.OutcomeGoal,
		Minute:         minute,
	}
}

func TestAssistReconciler_ExactMinuteBeatsDrift(t *testing.T) {
	t.Parallel()

	b := NewBundle("sofascore")
	b.Events = []matchevent.Event{
		goalIncident(9001, 1001, 2001, 33),
		goalIncident(9001, 1001, 2002, 34),
	}
	b.Shots = []shot.Shot{goalShot(9001, 1001, 34)}

	NewAssistReconciler(nil).Reconcile(b)

	if got := b.Shots[0].AssistPlayerSourceID; got != 2002 {
		t.Fatalf("expected exact-minute assist 2002, got %d", got)
	}
}

func TestAssistReconciler_DriftWindowWidens(t *testing.T) {
	t.Parallel()

	b := NewBundle("sofascore")
	b.Events = []matchevent.Event{goalIncident(9001, 1001, 2001, 70)}
	b.Shots = []shot.Shot{goalShot(9001, 1001, 73)}

	n := NewAssistReconciler(nil).Reconcile(b)

	if n != 1 || b.Shots[0].AssistPlayerSourceID != 2001 {
		t.Fatalf("expected drifted assist 2001 (resolved=%d), got %d", n, b.Shots[0].AssistPlayerSourceID)
	}
}

func TestAssistReconciler_SolePartnerFallback(t *testing.T) {
	t.Parallel()

	// The only recorded assist for this scorer is in a different minute
	// far outside the drift window, and the shot minute is unknown.
	b := NewBundle("sofascore")
	b.Events = []matchevent.Event{goalIncident(9001, 1001, 2005, 12)}
	b.Shots = []shot.Shot{goalShot(9001, 1001, shot.MinuteUnknown)}

	NewAssistReconciler(nil).Reconcile(b)

	if got := b.Shots[0].AssistPlayerSourceID; got != 2005 {
		t.Fatalf("expected sole-partner assist 2005, got %d", got)
	}
}

func TestAssistReconciler_NearestCandidateTieFirstEncountered(t *testing.T) {
	t.Parallel()

	b := NewBundle("sofascore")
	b.Events = []matchevent.Event{
		goalIncident(9001, 1001, 2001, 10),
		goalIncident(9001, 1001, 2002, 30),
	}
	b.Shots = []shot.Shot{goalShot(9001, 1001, 20)}

	NewAssistReconciler(nil).Reconcile(b)

	if got := b.Shots[0].AssistPlayerSourceID; got != 2001 {
		t.Fatalf("expected first-encountered candidate 2001 on tie, got %d", got)
	}
}

func TestAssistReconciler_LeavesResolvedAndNonGoalsAlone(t *testing.T) {
	t.Parallel()

	b := NewBundle("sofascore")
	b.Events = []matchevent.Event{goalIncident(9001, 1001, 2001, 40)}
	already := goalShot(9001, 1001, 40)
	already.AssistPlayerSourceID = 2099
	saved := shot.Shot{MatchSourceID: 9001, PlayerSourceID: 1001, Outcome: shot.OutcomeSaved, Minute: 40}
	ownGoal := goalShot(9001, 1001, 40)
	ownGoal.Outcome = shot.OutcomeOwnGoal
	ownGoal.IsOwnGoal = true
	b.Shots = []shot.Shot{already, saved, ownGoal}

	n := NewAssistReconciler(nil).Reconcile(b)

	if n != 0 {
		t.Fatalf("expected no reconciliations, got %d", n)
	}
	if b.Shots[0].AssistPlayerSourceID != 2099 {
		t.Errorf("explicit assist overwritten: %d", b.Shots[0].AssistPlayerSourceID)
	}
	if b.Shots[1].AssistPlayerSourceID != 0 || b.Shots[2].AssistPlayerSourceID != 0 {
		t.Errorf("non-goal rows gained assists: %d, %d",
			b.Shots[1].AssistPlayerSourceID, b.Shots[2].AssistPlayerSourceID)
	}
}

func TestAssistReconciler_UnresolvedIsNotAnError(t *testing.T) {
	t.Parallel()

	b := NewBundle("sofascore")
	b.Events = []matchevent.Event{
		goalIncident(9001, 1001, 2001, 10),
		goalIncident(9001, 1001, 2002, 80),
	}
	// Unknown shot minute with two distinct partners: nothing applies.
	b.Shots = []shot.Shot{goalShot(9001, 1001, shot.MinuteUnknown)}

	n := NewAssistReconciler(nil).Reconcile(b)

	if n != 0 || b.Shots[0].AssistPlayerSourceID != 0 {
		t.Fatalf("expected shot to stay unresolved, got n=%d assist=%d", n, b.Shots[0].AssistPlayerSourceID)
	}
}
