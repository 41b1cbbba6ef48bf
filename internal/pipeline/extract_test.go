package pipeline

import (
	"testing"
	"time"

	"github.com/matchpulse/matchpulse/internal/domain/match"
	"github.com/matchpulse/matchpulse/internal/domain/matchevent"
	"github.com/matchpulse/matchpulse/internal/domain/shot"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

func newTestExtractor(now time.Time) *Extractor {
	return NewExtractor(newTestCanonicalizer(now), logging.NewNop())
}

func finishedEventFixture(kickoff time.Time) map[string]any {
	return map[string]any{
		"id": float64(9001),
		"tournament": map[string]any{
			"id":   float64(17),
			"name": "Premier League",
			"category": map[string]any{
				"name": "England",
			},
			"uniqueTournament": map[string]any{
				"id":   float64(17),
				"name": "Premier League",
			},
		},
		"season": map[string]any{
			"year": "2025/2026",
		},
		"homeTeam": map[string]any{
			"id":        float64(42),
			"name":      "Arsenal",
			"shortName": "ARS",
			"teamColors": map[string]any{
				"primary":   "#EF0107",
				"secondary": "#FFFFFF",
			},
		},
		"awayTeam": map[string]any{
			"id":   float64(33),
			"name": "Chelsea",
		},
		"status": map[string]any{
			"type": "finished",
		},
		"startTimestamp": float64(kickoff.Unix()),
		"homeScore": map[string]any{
			"current": float64(2),
		},
		"awayScore": map[string]any{
			"current": float64(1),
		},
		"venue": map[string]any{
			"stadium": map[string]any{
				"name": "Emirates Stadium",
			},
		},
		"roundInfo": map[string]any{
			"round": float64(28),
		},
	}
}

func TestExtractEvent_MatchAndEntities(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	kickoff := now.Add(-3 * time.Hour)
	e := newTestExtractor(now)
	b := NewBundle("sofa")

	e.ExtractEvent(b, EnrichedEvent{Event: finishedEventFixture(kickoff)})

	m, ok := b.Matches[9001]
	if !ok {
		t.Fatalf("match 9001 not extracted")
	}
	if m.Status != match.StatusFinished {
		t.Fatalf("unexpected status: %s", m.Status)
	}
	if m.CompetitionSourceID != 17 || m.HomeTeamSourceID != 42 || m.AwayTeamSourceID != 33 {
		t.Fatalf("unexpected natural keys: %+v", m)
	}
	if m.Season != "2025/2026" || m.Round != "28" || m.Venue != "Emirates Stadium" {
		t.Fatalf("unexpected descriptive fields: %+v", m)
	}
	if m.HomeScore == nil || *m.HomeScore != 2 || m.AwayScore == nil || *m.AwayScore != 1 {
		t.Fatalf("unexpected scores: %+v", m)
	}

	if b.Competitions[17].Country != "England" {
		t.Fatalf("competition country not extracted: %+v", b.Competitions[17])
	}
	if b.Teams[42].PrimaryColor != "#EF0107" {
		t.Fatalf("team colors not extracted: %+v", b.Teams[42])
	}
	if b.Teams[33].Name != "Chelsea" {
		t.Fatalf("away team not extracted")
	}
}

func TestExtractEvent_LineupsAndPlayerStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	e := newTestExtractor(now)
	b := NewBundle("sofa")

	lineups := map[string]any{
		"home": map[string]any{
			"team":      map[string]any{"id": float64(42)},
			"formation": "4-3-3",
			"players": []any{
				map[string]any{
					"player": map[string]any{
						"id":     float64(1001),
						"name":   "Bukayo Saka",
						"height": float64(178),
						"country": map[string]any{
							"name": "England",
						},
					},
					"position":     "F",
					"jerseyNumber": float64(7),
					"substitute":   false,
					"captain":      false,
					"statistics": map[string]any{
						"rating":        float64(7.8),
						"minutesPlayed": float64(90),
						"goals":         float64(1),
					},
				},
				map[string]any{
					"player": map[string]any{
						"id":   float64(1002),
						"name": "Gabriel Martinelli",
					},
					"substitute": true,
				},
			},
		},
	}

	e.ExtractEvent(b, EnrichedEvent{
		Event:   finishedEventFixture(now.Add(-3 * time.Hour)),
		Lineups: lineups,
	})

	if len(b.Formations) != 1 || b.Formations[0].Formation != "4-3-3" {
		t.Fatalf("formation not extracted: %+v", b.Formations)
	}
	if len(b.LineupEntries) != 2 {
		t.Fatalf("expected 2 lineup entries, got %d", len(b.LineupEntries))
	}
	if !b.LineupEntries[0].Starter || b.LineupEntries[1].Starter {
		t.Fatalf("starter flags wrong: %+v", b.LineupEntries)
	}
	if b.Players[1001].Nationality != "England" || b.Players[1001].HeightCM != 178 {
		t.Fatalf("player detail not extracted: %+v", b.Players[1001])
	}

	var sakaStat bool
	for _, ps := range b.PlayerStats {
		if ps.PlayerSourceID == 1001 && ps.Goals == 1 && ps.MinutesPlayed == 90 {
			sakaStat = true
		}
	}
	if !sakaStat {
		t.Fatalf("player stat not extracted: %+v", b.PlayerStats)
	}
}

func TestExtractEvent_IncidentsAndSubstitution(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	e := newTestExtractor(now)
	b := NewBundle("sofa")

	incidents := []map[string]any{
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
			"incidentType":  "card",
			"incidentClass": "yellow",
			"time":          float64(55),
			"isHome":        false,
			"player":        map[string]any{"id": float64(2001), "name": "Moises Caicedo"},
		},
		{
			"incidentType": "substitution",
			"time":         float64(70),
			"isHome":       true,
			"playerIn":     map[string]any{"id": float64(1002), "name": "Gabriel Martinelli"},
			"playerOut":    map[string]any{"id": float64(1001), "name": "Bukayo Saka"},
		},
		{
			"incidentType": "period",
			"text":         "HT",
		},
		{
			"incidentType": "goal",
			"time":         float64(80),
			"player":       map[string]any{},
		},
	}

	e.ExtractEvent(b, EnrichedEvent{
		Event:     finishedEventFixture(now.Add(-3 * time.Hour)),
		Incidents: incidents,
	})

	if len(b.Events) != 3 {
		t.Fatalf("expected 3 incidents (period and identity-less goal dropped), got %d", len(b.Events))
	}

	goal := b.Events[0]
	if goal.Type != matchevent.TypeGoal || goal.Minute != 23 {
		t.Fatalf("unexpected goal incident: %+v", goal)
	}
	if goal.PlayerSourceID != 1001 || goal.AssistPlayerSourceID != 1003 {
		t.Fatalf("goal identity wrong: %+v", goal)
	}
	if goal.TeamSourceID != 42 {
		t.Fatalf("isHome not resolved to home team id: %+v", goal)
	}

	sub := b.Events[2]
	if sub.Type != matchevent.TypeSubstitution || sub.PlayerInSourceID != 1002 || sub.PlayerOutSourceID != 1001 {
		t.Fatalf("unexpected substitution: %+v", sub)
	}

	if _, ok := b.Players[1003]; !ok {
		t.Fatalf("assist player must materialize in the player set")
	}

	var inFlag, outFlag bool
	for _, ps := range b.PlayerStats {
		if ps.PlayerSourceID == 1002 && ps.WasSubbedIn && ps.SubMinute == 70 {
			inFlag = true
		}
		if ps.PlayerSourceID == 1001 && ps.WasSubbedOut && ps.SubMinute == 70 {
			outFlag = true
		}
	}
	if !inFlag || !outFlag {
		t.Fatalf("substitution flags not recorded: %+v", b.PlayerStats)
	}
}

func TestExtractEvent_ShotsCoordinateChainAndDrops(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	e := newTestExtractor(now)
	b := NewBundle("sofa")

	shotMap := []map[string]any{
		{
			"id":       float64(501),
			"player":   map[string]any{"id": float64(1001), "name": "Bukayo Saka"},
			"isHome":   true,
			"shotType": "goal",
			"time":     float64(23),
			"x":        float64(88.5),
			"y":        float64(43.1),
		},
		{
			"id":       float64(502),
			"player":   map[string]any{"id": float64(2002), "name": "Cole Palmer"},
			"isHome":   false,
			"shotType": "save",
			"playerCoordinates": map[string]any{
				"x": float64(70.2),
				"y": float64(50.0),
			},
		},
		{
			// no coordinates anywhere: dropped
			"id":       float64(503),
			"player":   map[string]any{"id": float64(2003)},
			"shotType": "miss",
		},
		{
			// no player identity: dropped
			"id":       float64(504),
			"shotType": "goal",
			"x":        float64(10),
			"y":        float64(10),
		},
	}

	e.ExtractEvent(b, EnrichedEvent{
		Event:   finishedEventFixture(now.Add(-3 * time.Hour)),
		ShotMap: shotMap,
	})

	if len(b.Shots) != 2 {
		t.Fatalf("expected 2 shots kept, got %d", len(b.Shots))
	}
	if b.Shots[0].Outcome != shot.OutcomeGoal || b.Shots[0].Minute != 23 {
		t.Fatalf("unexpected first shot: %+v", b.Shots[0])
	}
	if b.Shots[1].Outcome != shot.OutcomeSaved || b.Shots[1].X != 70.2 {
		t.Fatalf("nested coordinates not picked up: %+v", b.Shots[1])
	}
	if b.Shots[1].Minute != shot.MinuteUnknown {
		t.Fatalf("missing shot minute must use the sentinel, got %d", b.Shots[1].Minute)
	}
	if _, ok := b.Players[2002]; !ok {
		t.Fatalf("shot scorer must materialize in the player set")
	}
}

func TestExtractEvent_Managers(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	e := newTestExtractor(now)
	b := NewBundle("sofa")

	managers := map[string]any{
		"homeManager": map[string]any{
			"id":   float64(301),
			"name": "Mikel Arteta",
			"country": map[string]any{
				"name": "Spain",
			},
		},
		"awayManager": map[string]any{
			"id":   float64(302),
			"name": "Enzo Maresca",
		},
	}

	e.ExtractEvent(b, EnrichedEvent{
		Event:    finishedEventFixture(now.Add(-3 * time.Hour)),
		Managers: managers,
	})

	if len(b.Managers) != 2 {
		t.Fatalf("expected 2 managers, got %d", len(b.Managers))
	}
	if b.Managers[301].Nationality != "Spain" || b.Managers[301].TeamSourceID != 42 {
		t.Fatalf("home manager wrong: %+v", b.Managers[301])
	}
	if len(b.ManagerAssignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(b.ManagerAssignments))
	}
	if b.ManagerAssignments[0].Side != "home" || b.ManagerAssignments[1].Side != "away" {
		t.Fatalf("assignment sides wrong: %+v", b.ManagerAssignments)
	}
}
