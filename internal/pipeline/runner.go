package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/matchpulse/matchpulse/internal/domain/match"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

var tracer = otel.Tracer("matchpulse/pipeline")

// SourceName identifies the provider in every natural key this pipeline
// writes.
const SourceName = "sofascore"

// Report summarizes one pipeline run.
type Report struct {
	Day              string
	FetchedEvents    int
	Matches          int
	Teams            int
	Players          int
	AssistsRecovered int
	StandingsRows    int
	Persist          PersistReport
	Duration         time.Duration
}

// Pipeline runs one batch through fetch, canonicalize/extract, dedupe,
// assist reconciliation, standings discovery, and persistence. Stage
// boundaries are hard barriers: extraction finishes for every event
// before dedupe starts, and so on down to persistence.
type Pipeline struct {
	fetcher   *Fetcher
	extractor *Extractor
	deduper   *Deduplicator
	assists   *AssistReconciler
	standings *StandingsDiscovery
	persister *Persister
	logger    *logging.Logger
	now       func() time.Time
}

type PipelineConfig struct {
	Fetcher   *Fetcher
	Extractor *Extractor
	Deduper   *Deduplicator
	Assists   *AssistReconciler
	Standings *StandingsDiscovery
	Persister *Persister
	Logger    *logging.Logger
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		fetcher:   cfg.Fetcher,
		extractor: cfg.Extractor,
		deduper:   cfg.Deduper,
		assists:   cfg.Assists,
		standings: cfg.Standings,
		persister: cfg.Persister,
		logger:    logger,
		now:       time.Now,
	}
}

// RunDay ingests one calendar day's schedule end to end.
func (p *Pipeline) RunDay(ctx context.Context, day time.Time) (Report, error) {
	enriched, err := p.fetcher.FetchDay(ctx, day)
	if err != nil {
		return Report{Day: day.Format("2006-01-02")}, err
	}
	return p.runBatch(ctx, day, enriched)
}

// RunLive re-ingests only the in-play subset of today's schedule. The
// schedule fetch is cheap; the per-event enrichment is not, so the filter
// happens before fan-out.
func (p *Pipeline) RunLive(ctx context.Context, day time.Time) (Report, error) {
	report := Report{Day: day.Format("2006-01-02")}

	events, err := p.fetcher.source.DaySchedule(ctx, day)
	if err != nil {
		return report, err
	}

	live := make([]map[string]any, 0, len(events))
	for _, event := range events {
		status := getObject(event, "status")
		mapped := MapStatus(firstNonEmpty(
			getString(status, "type"),
			getString(status, "description"),
			getString(event, "status"),
		))
		if match.IsInPlay(mapped) {
			live = append(live, event)
		}
	}
	if len(live) == 0 {
		return report, nil
	}

	enriched, err := p.fetcher.FetchEvents(ctx, live)
	if err != nil {
		return report, err
	}
	return p.runBatch(ctx, day, enriched)
}

func (p *Pipeline) runBatch(ctx context.Context, day time.Time, enriched []EnrichedEvent) (Report, error) {
	started := p.now()
	report := Report{Day: day.Format("2006-01-02"), FetchedEvents: len(enriched)}

	ctx, span := tracer.Start(ctx, "pipeline.runBatch")
	span.SetAttributes(
		attribute.String("pipeline.day", report.Day),
		attribute.Int("pipeline.events", len(enriched)),
	)
	defer span.End()

	b := NewBundle(SourceName)
	for _, ev := range enriched {
		p.extractor.ExtractEvent(b, ev)
	}

	p.deduper.Run(ctx, b)

	report.AssistsRecovered = p.assists.Reconcile(b)

	p.standings.Run(ctx, b)
	report.StandingsRows = len(b.Standings)

	report.Matches = len(b.Matches)
	report.Teams = len(b.Teams)
	report.Players = len(b.Players)

	persisted, err := p.persister.Run(ctx, b)
	report.Persist = persisted
	report.Duration = p.now().Sub(started)
	if err != nil {
		return report, err
	}

	p.logger.InfoContext(ctx, "pipeline run complete",
		"day", report.Day,
		"events", report.FetchedEvents,
		"matches", report.Matches,
		"assists_recovered", report.AssistsRecovered,
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report, nil
}
