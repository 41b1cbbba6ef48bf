package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/matchpulse/internal/domain/match"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
	qb "github.com/matchpulse/matchpulse/internal/platform/querybuilder"
)

const matchUpsertSuffix = `ON CONFLICT (source, source_event_id)
DO UPDATE SET
    competition_id = EXCLUDED.competition_id,
    season = COALESCE(NULLIF(EXCLUDED.season, ''), matches.season),
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    kickoff_at = CASE WHEN EXCLUDED.kickoff_at > '0001-01-02' THEN EXCLUDED.kickoff_at ELSE matches.kickoff_at END,
    status = EXCLUDED.status,
    minute = EXCLUDED.minute,
    home_score = COALESCE(EXCLUDED.home_score, matches.home_score),
    away_score = COALESCE(EXCLUDED.away_score, matches.away_score),
    venue = COALESCE(NULLIF(EXCLUDED.venue, ''), matches.venue),
    round = COALESCE(NULLIF(EXCLUDED.round, ''), matches.round),
    updated_at = NOW()`

type MatchRepository struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewMatchRepository(db *sqlx.DB, logger *logging.Logger) *MatchRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchRepository{db: db, logger: logger}
}

// UpsertMany writes the batch in one statement and, when that fails,
// retries per row so a single malformed match cannot sink the day.
func (r *MatchRepository) UpsertMany(ctx context.Context, rows []match.Match) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]matchInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, matchRowToModel(row))
	}

	query, args, err := qb.InsertModels("matches", models, matchUpsertSuffix)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert matches query: %w", err)
	}
	_, batchErr := r.db.ExecContext(ctx, query, args...)
	if batchErr == nil {
		return len(rows), 0, nil
	}
	r.logger.WarnContext(ctx, "match batch upsert failed, degrading to per-row",
		"rows", len(rows),
		"error", batchErr.Error(),
	)

	stored, failed := 0, 0
	for i, model := range models {
		rowQuery, rowArgs, err := qb.InsertModel("matches", model, matchUpsertSuffix)
		if err != nil {
			failed++
			continue
		}
		if _, err := r.db.ExecContext(ctx, rowQuery, rowArgs...); err != nil {
			failed++
			r.logger.WarnContext(ctx, "match row upsert failed",
				"source_event_id", rows[i].SourceEventID,
				"error", err.Error(),
			)
			continue
		}
		stored++
	}
	return stored, failed, nil
}

func matchRowToModel(row match.Match) matchInsertModel {
	return matchInsertModel{
		Source:        row.Source,
		SourceEventID: row.SourceEventID,
		CompetitionID: row.CompetitionID,
		Season:        row.Season,
		HomeTeamID:    row.HomeTeamID,
		AwayTeamID:    row.AwayTeamID,
		KickoffAt:     row.KickoffAt,
		Status:        row.Status,
		Minute:        row.Minute,
		HomeScore:     row.HomeScore,
		AwayScore:     row.AwayScore,
		Venue:         row.Venue,
		Round:         row.Round,
	}
}

func (r *MatchRepository) ResolveIDs(ctx context.Context, source string, sourceEventIDs []int64) (map[int64]int64, error) {
	if len(sourceEventIDs) == 0 {
		return map[int64]int64{}, nil
	}

	query, args, err := qb.Select("id", "source_event_id AS source_id").From("matches").
		Where(
			qb.Eq("source", source),
			qb.In("source_event_id", int64SliceToAny(sourceEventIDs)),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build resolve match ids query: %w", err)
	}

	var rows []keyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("resolve match ids: %w", err)
	}
	return keyRowsToMap(rows), nil
}

// RecordStateSnapshot appends one observation. Snapshots are never
// updated or deleted.
func (r *MatchRepository) RecordStateSnapshot(ctx context.Context, snap match.StateSnapshot) error {
	model := snapshotInsertModel{
		MatchID:   snap.MatchID,
		Status:    snap.Status,
		Minute:    snap.Minute,
		HomeScore: snap.HomeScore,
		AwayScore: snap.AwayScore,
		AsOf:      snap.AsOf,
	}
	query, args, err := qb.InsertModel("match_state_snapshots", model, "")
	if err != nil {
		return fmt.Errorf("build insert match state snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match state snapshot for match %d: %w", snap.MatchID, err)
	}
	return nil
}

// ReconcileScore copies status, minute, and score from the newest
// snapshot onto the canonical row. The snapshot wins on divergence,
// which guards against an upsert racing a fresher observation.
func (r *MatchRepository) ReconcileScore(ctx context.Context, matchID int64) error {
	const query = `
UPDATE matches
SET status = s.status,
    minute = s.minute,
    home_score = COALESCE(s.home_score, matches.home_score),
    away_score = COALESCE(s.away_score, matches.away_score),
    updated_at = NOW()
FROM (
    SELECT status, minute, home_score, away_score
    FROM match_state_snapshots
    WHERE match_id = $1
    ORDER BY as_of DESC, id DESC
    LIMIT 1
) s
WHERE matches.id = $1`
	if _, err := r.db.ExecContext(ctx, query, matchID); err != nil {
		return fmt.Errorf("reconcile score for match %d: %w", matchID, err)
	}
	return nil
}
