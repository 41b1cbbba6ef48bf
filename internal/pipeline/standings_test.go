package pipeline

import (
	"context"
	"testing"

	"github.com/matchpulse/matchpulse/external/provider"
)

type fakeStandingsSource struct {
	payloads map[string]map[string]any
	calls    []string
}

func (f *fakeStandingsSource) StandingsVariant(_ context.Context, path string) (map[string]any, error) {
	f.calls = append(f.calls, path)
	if payload, ok := f.payloads[path]; ok {
		return payload, nil
	}
	return nil, provider.ErrNoData
}

func tablePayload() map[string]any {
	return map[string]any{
		"standings": []any{
			map[string]any{
				"rows": []any{
					map[string]any{
						"team":          map[string]any{"id": float64(42), "name": "Arsenal", "shortName": "ARS"},
						"position":      float64(1),
						"matches":       float64(28),
						"wins":          float64(20),
						"draws":         float64(5),
						"losses":        float64(3),
						"scoresFor":     float64(61),
						"scoresAgainst": float64(22),
						"points":        float64(65),
					},
					map[string]any{
						"team":     map[string]any{"id": float64(33), "name": "Chelsea"},
						"position": float64(2),
						"points":   float64(58),
					},
				},
			},
		},
	}
}

func TestStandingsDiscovery_SeasonQualifiedVariantWins(t *testing.T) {
	t.Parallel()

	acceptedPath := "/unique-tournament/17/season/555/standings/total"
	src := &fakeStandingsSource{payloads: map[string]map[string]any{acceptedPath: tablePayload()}}
	cache := NewStandingsCache(6)
	d := NewStandingsDiscovery(src, cache, nil)

	b := NewBundle("sofascore")
	b.AddSeason(17, "2025/2026", 555)
	d.Run(context.Background(), b)

	if len(src.calls) != 1 || src.calls[0] != acceptedPath {
		t.Fatalf("expected single probe of the season-qualified variant, got %v", src.calls)
	}
	if len(b.Standings) != 2 {
		t.Fatalf("expected 2 standing rows, got %d", len(b.Standings))
	}
	row := b.Standings[0]
	if row.TeamSourceID != 42 || row.Position != 1 || row.Points != 65 || row.Played != 28 {
		t.Errorf("unexpected first row: %+v", row)
	}
	if row.Season != "2025/2026" || row.CompetitionSourceID != 17 {
		t.Errorf("pair identity not carried onto row: %+v", row)
	}
	if _, ok := b.Teams[42]; !ok {
		t.Errorf("table team not added to bundle")
	}
	if path, ok := cache.AcceptedPath(17, "2025/2026"); !ok || path != acceptedPath {
		t.Errorf("accepted path not cached: %q %v", path, ok)
	}
}

func TestStandingsDiscovery_MultiTablePayloadYieldsOneRowPerTeam(t *testing.T) {
	t.Parallel()

	// Season-agnostic payloads often carry total/home/away tables listing
	// the same clubs; the batch upsert needs each natural key exactly once.
	payload := map[string]any{
		"standings": []any{
			map[string]any{
				"rows": []any{
					map[string]any{
						"team":     map[string]any{"id": float64(42), "name": "Arsenal"},
						"position": float64(1),
						"points":   float64(65),
					},
					map[string]any{
						"team":     map[string]any{"id": float64(33), "name": "Chelsea"},
						"position": float64(2),
						"points":   float64(58),
					},
				},
			},
			map[string]any{
				"rows": []any{
					map[string]any{
						"team":     map[string]any{"id": float64(42), "name": "Arsenal"},
						"position": float64(3),
						"points":   float64(31),
					},
				},
			},
		},
	}
	acceptedPath := "/unique-tournament/17/season/555/standings/total"
	src := &fakeStandingsSource{payloads: map[string]map[string]any{acceptedPath: payload}}
	d := NewStandingsDiscovery(src, NewStandingsCache(6), nil)

	b := NewBundle("sofascore")
	b.AddSeason(17, "2025/2026", 555)
	d.Run(context.Background(), b)

	if len(b.Standings) != 2 {
		t.Fatalf("expected one row per team, got %d: %+v", len(b.Standings), b.Standings)
	}
	seen := map[int64]int{}
	for _, row := range b.Standings {
		seen[row.TeamSourceID]++
	}
	if seen[42] != 1 || seen[33] != 1 {
		t.Fatalf("duplicate natural keys survived: %v", seen)
	}
	if row := b.Standings[0]; row.TeamSourceID != 42 || row.Position != 1 || row.Points != 65 {
		t.Errorf("first table should win for repeated teams, got %+v", row)
	}
}

func TestStandingsDiscovery_AcceptedPathReusedNextRun(t *testing.T) {
	t.Parallel()

	acceptedPath := "/unique-tournament/17/season/555/standings/total"
	src := &fakeStandingsSource{payloads: map[string]map[string]any{acceptedPath: tablePayload()}}
	cache := NewStandingsCache(6)
	d := NewStandingsDiscovery(src, cache, nil)

	first := NewBundle("sofascore")
	first.AddSeason(17, "2025/2026", 555)
	d.Run(context.Background(), first)

	second := NewBundle("sofascore")
	second.AddSeason(17, "2025/2026", 555)
	d.Run(context.Background(), second)

	if len(src.calls) != 2 {
		t.Fatalf("expected exactly one call per run, got %v", src.calls)
	}
	if src.calls[1] != acceptedPath {
		t.Errorf("second run did not reuse accepted path: %s", src.calls[1])
	}
	if len(second.Standings) != 2 {
		t.Errorf("second run parsed %d rows", len(second.Standings))
	}
}

func TestStandingsDiscovery_NegativesExhaustPair(t *testing.T) {
	t.Parallel()

	src := &fakeStandingsSource{payloads: map[string]map[string]any{}}
	cache := NewStandingsCache(6)
	d := NewStandingsDiscovery(src, cache, nil)

	b := NewBundle("sofascore")
	b.AddSeason(99, "2025", 777)
	d.Run(context.Background(), b)

	if len(src.calls) != 6 {
		t.Fatalf("expected all 6 variants probed once, got %d: %v", len(src.calls), src.calls)
	}
	if !cache.Exhausted(99, "2025") {
		t.Fatalf("pair should be exhausted after 6 negatives")
	}

	src.calls = nil
	again := NewBundle("sofascore")
	again.AddSeason(99, "2025", 777)
	d.Run(context.Background(), again)

	if len(src.calls) != 0 {
		t.Errorf("exhausted pair probed again: %v", src.calls)
	}
}

func TestStandingsDiscovery_WrongShapeIsNegative(t *testing.T) {
	t.Parallel()

	// A syntactically valid payload without any standings-shaped key must
	// not be accepted.
	path := "/unique-tournament/21/standings/total"
	src := &fakeStandingsSource{payloads: map[string]map[string]any{
		path: {"tournament": map[string]any{"id": float64(21)}},
	}}
	cache := NewStandingsCache(6)
	d := NewStandingsDiscovery(src, cache, nil)

	b := NewBundle("sofascore")
	b.AddSeason(21, "2026", 0)
	d.Run(context.Background(), b)

	if len(b.Standings) != 0 {
		t.Errorf("rows parsed from non-standings payload")
	}
	if _, ok := cache.AcceptedPath(21, "2026"); ok {
		t.Errorf("non-standings payload was accepted")
	}
	if !cache.Exhausted(21, "2026") {
		// Without a season id only 3 variants exist, short of the
		// negative limit; the pair stays probeable.
		if cache.ShouldProbe(21, "2026", path) {
			t.Errorf("negative variant still probeable")
		}
	}
}
