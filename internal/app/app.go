package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/matchpulse/matchpulse/external/provider"
	"github.com/matchpulse/matchpulse/internal/config"
	"github.com/matchpulse/matchpulse/internal/infrastructure/repository/postgres"
	"github.com/matchpulse/matchpulse/internal/pipeline"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
	"github.com/matchpulse/matchpulse/internal/platform/resilience"
)

// App owns the long-lived pieces of the ingest service: the database
// handle, the provider client, and the pipeline wired on top of both.
// Pipeline caches (surrogate keys, standings probe results) live for the
// process lifetime, so one App serves every scheduled run.
type App struct {
	Pipeline *pipeline.Pipeline
	DB       *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := sqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	client := provider.NewClient(provider.ClientConfig{
		HTTPClient: &http.Client{Timeout: cfg.ProviderTimeout},
		BaseURL:    cfg.ProviderBaseURL,
		Token:      cfg.ProviderToken,
		Timeout:    cfg.ProviderTimeout,
		MaxRetries: cfg.ProviderMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			FailureThreshold:    cfg.ProviderCircuitFailureCount,
			OpenTimeout:         cfg.ProviderCircuitOpenTimeout,
			HalfOpenMaxRequests: cfg.ProviderCircuitHalfOpenMaxReq,
		},
		ProfileTTL: cfg.DetailCacheTTL,
	})

	repos := pipeline.Repositories{
		Competitions: postgres.NewCompetitionRepository(db),
		Teams:        postgres.NewTeamRepository(db),
		Players:      postgres.NewPlayerRepository(db),
		Managers:     postgres.NewManagerRepository(db),
		Matches:      postgres.NewMatchRepository(db, logger),
		Lineups:      postgres.NewLineupRepository(db),
		Events:       postgres.NewMatchEventRepository(db),
		Shots:        postgres.NewShotRepository(db),
		Stats:        postgres.NewStatsRepository(db),
		Standings:    postgres.NewStandingRepository(db),
	}

	run := pipeline.NewRunContext(cfg.StandingsNegativeLimit)
	canon := pipeline.NewCanonicalizer(cfg.ZombieAfter, cfg.FutureTolerance, logger)

	p := pipeline.NewPipeline(pipeline.PipelineConfig{
		Fetcher:   pipeline.NewFetcher(client, cfg.FetchConcurrency, logger),
		Extractor: pipeline.NewExtractor(canon, logger),
		Deduper:   pipeline.NewDeduplicator(client, logger),
		Assists:   pipeline.NewAssistReconciler(logger),
		Standings: pipeline.NewStandingsDiscovery(client, run.Standings, logger),
		Persister: pipeline.NewPersister(repos, pipeline.NewResolver(run.Keys, logger), logger),
		Logger:    logger,
	})

	return &App{Pipeline: p, DB: db}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
