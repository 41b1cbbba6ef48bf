package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matchpulse/matchpulse/external/provider"
)

type fakeEventSource struct {
	mu        sync.Mutex
	schedule  []map[string]any
	detail    map[int64]map[string]any
	lineups   map[int64]map[string]any
	incidents map[int64][]map[string]any
	shotMaps  map[int64][]map[string]any
	calls     map[string]int
}

func newFakeEventSource() *fakeEventSource {
	return &fakeEventSource{
		detail:    make(map[int64]map[string]any),
		lineups:   make(map[int64]map[string]any),
		incidents: make(map[int64][]map[string]any),
		shotMaps:  make(map[int64][]map[string]any),
		calls:     make(map[string]int),
	}
}

func (f *fakeEventSource) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeEventSource) DaySchedule(_ context.Context, _ time.Time) ([]map[string]any, error) {
	f.record("schedule")
	return f.schedule, nil
}

func (f *fakeEventSource) EventDetail(_ context.Context, eventID int64) (map[string]any, error) {
	f.record("detail")
	if d, ok := f.detail[eventID]; ok {
		return d, nil
	}
	return nil, provider.ErrNoData
}

func (f *fakeEventSource) EventLineups(_ context.Context, eventID int64) (map[string]any, error) {
	f.record("lineups")
	if l, ok := f.lineups[eventID]; ok {
		return l, nil
	}
	return nil, provider.ErrNoData
}

func (f *fakeEventSource) EventIncidents(_ context.Context, eventID int64) ([]map[string]any, error) {
	f.record("incidents")
	if in, ok := f.incidents[eventID]; ok {
		return in, nil
	}
	return nil, provider.ErrNoData
}

func (f *fakeEventSource) EventStatistics(_ context.Context, _ int64) (map[string]any, error) {
	f.record("statistics")
	return nil, provider.ErrNoData
}

func (f *fakeEventSource) EventShotMap(_ context.Context, eventID int64) ([]map[string]any, error) {
	f.record("shotmap")
	if s, ok := f.shotMaps[eventID]; ok {
		return s, nil
	}
	return nil, provider.ErrNoData
}

func (f *fakeEventSource) EventAveragePositions(_ context.Context, _ int64) (map[string]any, error) {
	f.record("average-positions")
	return nil, provider.ErrNoData
}

func (f *fakeEventSource) EventManagers(_ context.Context, _ int64) (map[string]any, error) {
	f.record("managers")
	return nil, provider.ErrNoData
}

func TestFetcher_FetchDayEnrichesAndSorts(t *testing.T) {
	t.Parallel()

	src := newFakeEventSource()
	src.schedule = []map[string]any{
		{"id": float64(9002)},
		{"id": float64(9001)},
		{"slug": "no-id-entry"},
	}
	src.detail[9001] = map[string]any{"id": float64(9001), "slug": "arsenal-chelsea"}
	src.lineups[9001] = map[string]any{"confirmed": true}
	src.incidents[9001] = []map[string]any{{"incidentType": "goal"}}

	f := NewFetcher(src, 2, nil)
	rows, err := f.FetchDay(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 enriched events, got %d", len(rows))
	}
	if rows[0].SourceEventID != 9001 || rows[1].SourceEventID != 9002 {
		t.Fatalf("events not sorted by id: %d, %d", rows[0].SourceEventID, rows[1].SourceEventID)
	}

	first := rows[0]
	if first.Event["slug"] != "arsenal-chelsea" {
		t.Errorf("expected detail payload to replace schedule entry, got %v", first.Event)
	}
	if first.Lineups == nil || len(first.Incidents) != 1 {
		t.Errorf("expected lineups and incidents present, got %v / %v", first.Lineups, first.Incidents)
	}
	if first.Statistics != nil || first.ShotMap != nil {
		t.Errorf("expected absent sub-resources to stay nil")
	}
}

func TestFetcher_DetailFailureKeepsScheduleEntry(t *testing.T) {
	t.Parallel()

	src := newFakeEventSource()
	src.schedule = []map[string]any{{"id": float64(777), "slug": "from-schedule"}}

	f := NewFetcher(src, 1, nil)
	rows, err := f.FetchEvents(context.Background(), src.schedule)
	if err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Event["slug"] != "from-schedule" {
		t.Errorf("expected schedule entry retained when detail is absent, got %v", rows[0].Event)
	}
}

func TestFetcher_EmptySchedule(t *testing.T) {
	t.Parallel()

	src := newFakeEventSource()
	f := NewFetcher(src, 3, nil)
	rows, err := f.FetchDay(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if rows != nil {
		t.Errorf("expected nil result for empty schedule, got %v", rows)
	}
	if src.calls["detail"] != 0 {
		t.Errorf("no detail calls expected, got %d", src.calls["detail"])
	}
}
