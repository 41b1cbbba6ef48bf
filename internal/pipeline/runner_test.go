package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matchpulse/matchpulse/internal/domain/match"
	"github.com/matchpulse/matchpulse/internal/infrastructure/repository/memory"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

type scenarioBackends struct {
	competitions *memory.CompetitionRepository
	teams        *memory.TeamRepository
	players      *memory.PlayerRepository
	managers     *memory.ManagerRepository
	matches      *memory.MatchRepository
	lineups      *memory.LineupRepository
	events       *memory.MatchEventRepository
	shots        *memory.ShotRepository
	stats        *memory.StatsRepository
	standings    *memory.StandingRepository
}

func newScenarioBackends() scenarioBackends {
	seq := memory.NewSequence()
	return scenarioBackends{
		competitions: memory.NewCompetitionRepository(seq),
		teams:        memory.NewTeamRepository(seq),
		players:      memory.NewPlayerRepository(seq),
		managers:     memory.NewManagerRepository(seq),
		matches:      memory.NewMatchRepository(seq),
		lineups:      memory.NewLineupRepository(),
		events:       memory.NewMatchEventRepository(),
		shots:        memory.NewShotRepository(),
		stats:        memory.NewStatsRepository(),
		standings:    memory.NewStandingRepository(),
	}
}

func (s scenarioBackends) repositories() Repositories {
	return Repositories{
		Competitions: s.competitions,
		Teams:        s.teams,
		Players:      s.players,
		Managers:     s.managers,
		Matches:      s.matches,
		Lineups:      s.lineups,
		Events:       s.events,
		Shots:        s.shots,
		Stats:        s.stats,
		Standings:    s.standings,
	}
}

func newScenarioPipeline(src *fakeEventSource, standingsSrc *fakeStandingsSource, backends scenarioBackends, now time.Time) *Pipeline {
	logger := logging.NewNop()
	canon := newTestCanonicalizer(now)
	runCtx := NewRunContext(6)
	return NewPipeline(PipelineConfig{
		Fetcher:   NewFetcher(src, 2, logger),
		Extractor: NewExtractor(canon, logger),
		Deduper:   NewDeduplicator(nil, logger),
		Assists:   NewAssistReconciler(logger),
		Standings: NewStandingsDiscovery(standingsSrc, runCtx.Standings, logger),
		Persister: NewPersister(backends.repositories(), NewResolver(runCtx.Keys, logger), logger),
		Logger:    logger,
	})
}

// The whole pipeline against one finished match: lineups, a goal with an
// assist, a substitution, a shot map missing its assist link, and a
// league table for the competition.
func TestPipeline_RunDay_FinishedMatchEndToEnd(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)
	kickoff := now.Add(-3 * time.Hour)
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	src := newFakeEventSource()
	event := finishedEventFixture(kickoff)
	src.schedule = []map[string]any{{"id": float64(9001)}}
	src.detail[9001] = event
	src.lineups[9001] = map[string]any{
		"home": map[string]any{
			"team":      map[string]any{"id": float64(42)},
			"formation": "4-3-3",
			"players": []any{
				map[string]any{
					"player":       map[string]any{"id": float64(1001), "name": "Bukayo Saka"},
					"position":     "F",
					"jerseyNumber": float64(7),
					"substitute":   false,
					"statistics": map[string]any{
						"rating":        float64(7.8),
						"minutesPlayed": float64(70),
						"goals":         float64(1),
					},
				},
				map[string]any{
					"player":     map[string]any{"id": float64(1002), "name": "Gabriel Martinelli"},
					"substitute": true,
				},
			},
		},
	}
	src.incidents[9001] = []map[string]any{
		{
			"incidentType": "goal",
			"time":         float64(23),
			"isHome":       true,
			"player":       map[string]any{"id": float64(1001), "name": "Bukayo Saka"},
			"assist1":      map[string]any{"id": float64(1003), "name": "Martin Odegaard"},
			"homeScore":    float64(1),
			"awayScore":    float64(0),
		},
		{
			"incidentType": "substitution",
			"time":         float64(70),
			"isHome":       true,
			"playerIn":     map[string]any{"id": float64(1002), "name": "Gabriel Martinelli"},
			"playerOut":    map[string]any{"id": float64(1001), "name": "Bukayo Saka"},
		},
	}
	src.shotMaps[9001] = []map[string]any{
		{
			// One minute off the incident stream and no assist recorded;
			// reconciliation should recover Odegaard from the goal incident.
			"id":       float64(501),
			"player":   map[string]any{"id": float64(1001), "name": "Bukayo Saka"},
			"isHome":   true,
			"shotType": "goal",
			"time":     float64(24),
			"x":        float64(88.5),
			"y":        float64(43.1),
		},
		{
			// Scorer never appears in any lineup: placeholder territory.
			"id":       float64(502),
			"player":   map[string]any{"id": float64(2002), "name": ""},
			"isHome":   false,
			"shotType": "save",
			"time":     float64(55),
			"x":        float64(70.0),
			"y":        float64(50.0),
		},
	}

	standingsSrc := &fakeStandingsSource{payloads: map[string]map[string]any{
		"/unique-tournament/17/standings/total": tablePayload(),
	}}

	backends := newScenarioBackends()
	p := newScenarioPipeline(src, standingsSrc, backends, now)

	report, err := p.RunDay(context.Background(), day)
	require.NoError(t, err)
	require.Equal(t, 1, report.FetchedEvents)
	require.Equal(t, 1, report.AssistsRecovered)
	require.Zero(t, report.Persist.Drops.Total())

	// Match committed with canonical status and scores, snapshot recorded,
	// and the canonical row reconciled against it.
	m, ok := backends.matches.Get(SourceName, 9001)
	require.True(t, ok, "match not persisted")
	require.Equal(t, match.StatusFinished, m.Status)
	require.NotNil(t, m.HomeScore)
	require.Equal(t, 2, *m.HomeScore)
	require.Positive(t, m.CompetitionID)
	require.Positive(t, m.HomeTeamID)
	snaps := backends.matches.Snapshots(m.ID)
	require.Len(t, snaps, 1)
	require.Equal(t, match.StatusFinished, snaps[0].Status)

	// The assist player never appeared in lineups yet must exist as a
	// named record, and the shot must reference a valid surrogate key.
	odegaard, ok := backends.players.Get(SourceName, 1003)
	require.True(t, ok, "assist player not persisted")
	require.Equal(t, "Martin Odegaard", odegaard.Name)

	unknownScorer, ok := backends.players.Get(SourceName, 2002)
	require.True(t, ok, "shot-only scorer not persisted")
	require.True(t, unknownScorer.Placeholder)
	require.Equal(t, "Player #2002", unknownScorer.Name)

	var sakaGoalAssist, placeholderShot bool
	for _, s := range backends.shots.Shots() {
		require.Positive(t, s.MatchID)
		require.Positive(t, s.PlayerID)
		if s.SourceItemID == 501 {
			sakaGoalAssist = s.AssistPlayerID == odegaard.ID
		}
		if s.SourceItemID == 502 {
			placeholderShot = s.PlayerID == unknownScorer.ID
		}
	}
	require.True(t, sakaGoalAssist, "recovered assist did not resolve to a surrogate key")
	require.True(t, placeholderShot, "placeholder scorer shot missing or misresolved")

	// Substitution flags folded into the lineup-derived stat row.
	var sakaStat bool
	for _, ps := range backends.stats.PlayerStats() {
		if ps.Goals == 1 && ps.MinutesPlayed == 70 && ps.WasSubbedOut && ps.SubMinute == 70 {
			sakaStat = true
		}
	}
	require.True(t, sakaStat, "merged player stat row missing substitution flags")

	// Standings discovered through the season-agnostic variant and
	// resolved against the persisted competition.
	rows := backends.standings.Standings()
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Positive(t, row.CompetitionID)
		require.Positive(t, row.TeamID)
	}
}

func TestPipeline_RunLive_FiltersToInPlayEvents(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 20, 30, 0, 0, time.UTC)
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	liveEvent := finishedEventFixture(now.Add(-30 * time.Minute))
	liveEvent["status"] = map[string]any{"type": "inprogress"}

	upcoming := finishedEventFixture(now.Add(2 * time.Hour))
	upcoming["id"] = float64(9002)
	upcoming["status"] = map[string]any{"type": "notstarted"}

	src := newFakeEventSource()
	src.schedule = []map[string]any{liveEvent, upcoming}
	src.detail[9001] = liveEvent

	standingsSrc := &fakeStandingsSource{payloads: map[string]map[string]any{}}
	backends := newScenarioBackends()
	p := newScenarioPipeline(src, standingsSrc, backends, now)

	report, err := p.RunLive(context.Background(), day)
	require.NoError(t, err)
	require.Equal(t, 1, report.FetchedEvents, "only the in-play event should be enriched")

	m, ok := backends.matches.Get(SourceName, 9001)
	require.True(t, ok)
	require.Equal(t, match.StatusLive, m.Status)
	require.Equal(t, 30, m.Minute)

	_, ok = backends.matches.Get(SourceName, 9002)
	require.False(t, ok, "upcoming event must not be ingested by the live cycle")
}
