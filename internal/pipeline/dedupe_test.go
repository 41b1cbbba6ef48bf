package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/matchpulse/matchpulse/internal/domain/matchevent"
	"github.com/matchpulse/matchpulse/internal/domain/player"
	"github.com/matchpulse/matchpulse/internal/domain/shot"
	"github.com/matchpulse/matchpulse/internal/domain/stats"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

type fakeDetailFetcher struct {
	playerCalls  map[int64]int
	managerCalls map[int64]int
	teamCalls    map[int64]int
	statCalls    map[string]int
	players      map[int64]map[string]any
	teams        map[int64]map[string]any
	playerStats  map[int64]map[string]any
}

func newFakeDetailFetcher() *fakeDetailFetcher {
	return &fakeDetailFetcher{
		playerCalls:  make(map[int64]int),
		managerCalls: make(map[int64]int),
		teamCalls:    make(map[int64]int),
		statCalls:    make(map[string]int),
		players:      make(map[int64]map[string]any),
		teams:        make(map[int64]map[string]any),
		playerStats:  make(map[int64]map[string]any),
	}
}

func (f *fakeDetailFetcher) PlayerProfile(_ context.Context, id int64) (map[string]any, error) {
	f.playerCalls[id]++
	if profile, ok := f.players[id]; ok {
		return profile, nil
	}
	return nil, context.Canceled
}

func (f *fakeDetailFetcher) ManagerProfile(_ context.Context, id int64) (map[string]any, error) {
	f.managerCalls[id]++
	return nil, context.Canceled
}

func (f *fakeDetailFetcher) TeamProfile(_ context.Context, id int64) (map[string]any, error) {
	f.teamCalls[id]++
	if profile, ok := f.teams[id]; ok {
		return profile, nil
	}
	return nil, context.Canceled
}

func (f *fakeDetailFetcher) PlayerEventStatistics(_ context.Context, eventID, playerID int64) (map[string]any, error) {
	f.statCalls[fmt.Sprintf("%d|%d", eventID, playerID)]++
	if detail, ok := f.playerStats[playerID]; ok {
		return detail, nil
	}
	return nil, context.Canceled
}

func TestDeduplicator_MergesPlayerStats(t *testing.T) {
	t.Parallel()

	b := NewBundle("sofa")
	b.PlayerStats = []stats.PlayerMatchStat{
		{MatchSourceID: 9001, PlayerSourceID: 1001, TeamSourceID: 42, Goals: 1, MinutesPlayed: 70, SubMinute: matchevent.MinuteUnknown},
		{MatchSourceID: 9001, PlayerSourceID: 1001, WasSubbedOut: true, SubMinute: 70},
		{MatchSourceID: 9001, PlayerSourceID: 1002, WasSubbedIn: true, SubMinute: 70},
	}

	d := NewDeduplicator(nil, logging.NewNop())
	d.Run(context.Background(), b)

	if len(b.PlayerStats) != 2 {
		t.Fatalf("expected 2 merged player stats, got %d", len(b.PlayerStats))
	}

	merged := b.PlayerStats[0]
	if merged.PlayerSourceID != 1001 {
		t.Fatalf("first-encounter order not preserved: %+v", merged)
	}
	if merged.Goals != 1 || merged.MinutesPlayed != 70 {
		t.Fatalf("lineup-derived values lost: %+v", merged)
	}
	if !merged.WasSubbedOut || merged.SubMinute != 70 {
		t.Fatalf("substitution fragment not folded in: %+v", merged)
	}
}

func TestDeduplicator_MaterializesPlaceholders(t *testing.T) {
	t.Parallel()

	b := NewBundle("sofa")
	// A shot whose scorer never appeared in lineups.
	b.Shots = []shot.Shot{{
		MatchSourceID:  9001,
		PlayerSourceID: 7777,
		TeamSourceID:   4242,
		SourceItemID:   1,
		X:              50,
		Y:              50,
		Outcome:        shot.OutcomeGoal,
		Minute:         12,
	}}

	d := NewDeduplicator(nil, logging.NewNop())
	d.Run(context.Background(), b)

	p, ok := b.Players[7777]
	if !ok {
		t.Fatalf("placeholder player not materialized")
	}
	if !p.Placeholder || p.Name == "" {
		t.Fatalf("placeholder must carry a generated display name: %+v", p)
	}

	tm, ok := b.Teams[4242]
	if !ok || !tm.Placeholder {
		t.Fatalf("placeholder team not materialized: %+v", tm)
	}
}

func TestDeduplicator_PlaceholderNotReEnriched(t *testing.T) {
	t.Parallel()

	b := NewBundle("sofa")
	b.Shots = []shot.Shot{{
		MatchSourceID:  9001,
		PlayerSourceID: 7777,
		SourceItemID:   1,
		X:              50,
		Y:              50,
		Outcome:        shot.OutcomeGoal,
	}}

	fetcher := newFakeDetailFetcher()
	d := NewDeduplicator(fetcher, logging.NewNop())
	d.Run(context.Background(), b)

	if fetcher.playerCalls[7777] != 0 {
		t.Fatalf("placeholder players must not trigger profile lookups")
	}
}

func TestDeduplicator_EnrichesMissingDetailOnce(t *testing.T) {
	t.Parallel()

	dob := time.Date(2001, 9, 5, 0, 0, 0, 0, time.UTC)
	b := NewBundle("sofa")
	b.AddPlayer(player.Player{SourceID: 1001, Name: "Bukayo Saka"})
	b.AddPlayer(player.Player{SourceID: 1002, Name: "Declan Rice", Nationality: "England", DateOfBirth: &dob})

	fetcher := newFakeDetailFetcher()
	fetcher.players[1001] = map[string]any{
		"name":                 "Bukayo Saka",
		"country":              map[string]any{"name": "England"},
		"height":               float64(178),
		"dateOfBirthTimestamp": float64(time.Date(2001, 9, 5, 0, 0, 0, 0, time.UTC).Unix()),
	}

	d := NewDeduplicator(fetcher, logging.NewNop())
	d.Run(context.Background(), b)

	if fetcher.playerCalls[1001] != 1 {
		t.Fatalf("expected exactly one profile lookup for 1001, got %d", fetcher.playerCalls[1001])
	}
	if fetcher.playerCalls[1002] != 0 {
		t.Fatalf("complete records must not be re-fetched")
	}
	enriched := b.Players[1001]
	if enriched.Nationality != "England" || enriched.HeightCM != 178 || enriched.DateOfBirth == nil {
		t.Fatalf("profile fields not merged: %+v", enriched)
	}
}

func TestDeduplicator_BackfillsSparsePlayerStats(t *testing.T) {
	t.Parallel()

	b := NewBundle("sofa")
	b.PlayerStats = []stats.PlayerMatchStat{
		{MatchSourceID: 9001, PlayerSourceID: 1001, SubMinute: matchevent.MinuteUnknown},
		{MatchSourceID: 9001, PlayerSourceID: 1002, Rating: 7.1, MinutesPlayed: 90, SubMinute: matchevent.MinuteUnknown},
	}

	fetcher := newFakeDetailFetcher()
	fetcher.playerStats[1001] = map[string]any{
		"statistics": map[string]any{
			"rating":        float64(6.8),
			"minutesPlayed": float64(63),
			"goals":         float64(1),
		},
	}

	d := NewDeduplicator(fetcher, logging.NewNop())
	d.Run(context.Background(), b)

	if got := fetcher.statCalls["9001|1001"]; got != 1 {
		t.Fatalf("expected one statistics lookup for 1001, got %d", got)
	}
	if got := fetcher.statCalls["9001|1002"]; got != 0 {
		t.Fatalf("populated stat rows must not be re-fetched, got %d lookups", got)
	}

	filled := b.PlayerStats[0]
	if filled.Rating != 6.8 || filled.MinutesPlayed != 63 || filled.Goals != 1 {
		t.Fatalf("statistics not backfilled: %+v", filled)
	}
	if b.PlayerStats[1].Rating != 7.1 {
		t.Fatalf("populated row must keep its values: %+v", b.PlayerStats[1])
	}
}

func TestMergeKeyed_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	in := []shot.Shot{
		{MatchSourceID: 1, PlayerSourceID: 10, SourceItemID: 100, Minute: shot.MinuteUnknown},
		{MatchSourceID: 1, PlayerSourceID: 20, SourceItemID: 200, Minute: 5},
		{MatchSourceID: 1, PlayerSourceID: 10, SourceItemID: 100, Minute: 9, AssistPlayerSourceID: 30},
	}

	out := mergeKeyed(in,
		func(s shot.Shot) string { return string(rune(s.PlayerSourceID)) },
		mergeShot,
	)
	if len(out) != 2 {
		t.Fatalf("expected 2 shots, got %d", len(out))
	}
	if out[0].PlayerSourceID != 10 || out[1].PlayerSourceID != 20 {
		t.Fatalf("order not preserved: %+v", out)
	}
	if out[0].Minute != 9 || out[0].AssistPlayerSourceID != 30 {
		t.Fatalf("merge did not fill sentinel minute and assist: %+v", out[0])
	}
}
