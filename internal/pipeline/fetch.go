package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/matchpulse/matchpulse/external/provider"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

// EventSource is the provider surface the fetcher consumes. Every call
// returns provider.ErrNoData when the upstream has nothing usable; the
// fetcher degrades the corresponding field instead of failing the event.
type EventSource interface {
	DaySchedule(ctx context.Context, day time.Time) ([]map[string]any, error)
	EventDetail(ctx context.Context, eventID int64) (map[string]any, error)
	EventLineups(ctx context.Context, eventID int64) (map[string]any, error)
	EventIncidents(ctx context.Context, eventID int64) ([]map[string]any, error)
	EventStatistics(ctx context.Context, eventID int64) (map[string]any, error)
	EventShotMap(ctx context.Context, eventID int64) ([]map[string]any, error)
	EventAveragePositions(ctx context.Context, eventID int64) (map[string]any, error)
	EventManagers(ctx context.Context, eventID int64) (map[string]any, error)
}

// Fetcher pulls a day's schedule and enriches each event with its
// sub-resources under a bounded worker pool.
type Fetcher struct {
	source      EventSource
	concurrency int
	logger      *logging.Logger
}

func NewFetcher(source EventSource, concurrency int, logger *logging.Logger) *Fetcher {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Fetcher{source: source, concurrency: concurrency, logger: logger}
}

// FetchDay returns one enriched record per schedule entry for the day,
// ordered by source event id. A schedule failure aborts the batch; a
// sub-resource failure only leaves its field absent.
func (f *Fetcher) FetchDay(ctx context.Context, day time.Time) ([]EnrichedEvent, error) {
	events, err := f.source.DaySchedule(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule for %s: %w", day.Format("2006-01-02"), err)
	}
	return f.enrichAll(ctx, events)
}

// FetchEvents enriches an explicit set of schedule entries. Live refresh
// uses this with the in-play subset of the day schedule.
func (f *Fetcher) FetchEvents(ctx context.Context, events []map[string]any) ([]EnrichedEvent, error) {
	return f.enrichAll(ctx, events)
}

func (f *Fetcher) enrichAll(ctx context.Context, events []map[string]any) ([]EnrichedEvent, error) {
	if len(events) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(f.concurrency)
	if err != nil {
		return nil, fmt.Errorf("create fetch worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan EnrichedEvent, len(events))

	var workers sync.WaitGroup
	for _, event := range events {
		eventID := getInt64(event, "id")
		if eventID <= 0 {
			f.logger.Warn("schedule entry without event id skipped")
			continue
		}
		event := event
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results <- f.enrichEvent(ctx, eventID, event)
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit event %d to worker pool: %w", eventID, err)
		}
	}

	workers.Wait()
	close(results)

	enriched := make([]EnrichedEvent, 0, len(events))
	for row := range results {
		enriched = append(enriched, row)
	}
	sort.Slice(enriched, func(i, j int) bool {
		return enriched[i].SourceEventID < enriched[j].SourceEventID
	})
	return enriched, nil
}

// enrichEvent fans the sub-resource calls out concurrently. Each one is
// independently fault tolerant.
func (f *Fetcher) enrichEvent(ctx context.Context, eventID int64, scheduleEntry map[string]any) EnrichedEvent {
	row := EnrichedEvent{SourceEventID: eventID, Event: scheduleEntry}

	var wg conc.WaitGroup
	wg.Go(func() {
		if detail, err := f.source.EventDetail(ctx, eventID); err == nil {
			row.Event = detail
		} else {
			f.noteMissing(ctx, eventID, "detail", err)
		}
	})
	wg.Go(func() {
		var err error
		if row.Lineups, err = f.source.EventLineups(ctx, eventID); err != nil {
			f.noteMissing(ctx, eventID, "lineups", err)
		}
	})
	wg.Go(func() {
		var err error
		if row.Incidents, err = f.source.EventIncidents(ctx, eventID); err != nil {
			f.noteMissing(ctx, eventID, "incidents", err)
		}
	})
	wg.Go(func() {
		var err error
		if row.Statistics, err = f.source.EventStatistics(ctx, eventID); err != nil {
			f.noteMissing(ctx, eventID, "statistics", err)
		}
	})
	wg.Go(func() {
		var err error
		if row.ShotMap, err = f.source.EventShotMap(ctx, eventID); err != nil {
			f.noteMissing(ctx, eventID, "shotmap", err)
		}
	})
	wg.Go(func() {
		var err error
		if row.AveragePositions, err = f.source.EventAveragePositions(ctx, eventID); err != nil {
			f.noteMissing(ctx, eventID, "average-positions", err)
		}
	})
	wg.Go(func() {
		var err error
		if row.Managers, err = f.source.EventManagers(ctx, eventID); err != nil {
			f.noteMissing(ctx, eventID, "managers", err)
		}
	})
	wg.Wait()

	return row
}

func (f *Fetcher) noteMissing(ctx context.Context, eventID int64, resource string, err error) {
	// No-data is routine for upcoming fixtures and lower leagues, keep it
	// at debug; anything else deserves a warning.
	if provider.IsNoData(err) {
		f.logger.DebugContext(ctx, "event sub-resource absent",
			"event_id", eventID,
			"resource", resource,
		)
		return
	}
	f.logger.WarnContext(ctx, "event sub-resource fetch failed",
		"event_id", eventID,
		"resource", resource,
		"error", err.Error(),
	)
}
