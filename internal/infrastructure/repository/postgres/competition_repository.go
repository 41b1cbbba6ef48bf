package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/matchpulse/internal/domain/competition"
	qb "github.com/matchpulse/matchpulse/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) UpsertMany(ctx context.Context, rows []competition.Competition) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]competitionInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, competitionInsertModel{
			Source:   row.Source,
			SourceID: row.SourceID,
			Name:     row.Name,
			Country:  row.Country,
			Priority: row.Priority,
			LogoURL:  row.LogoURL,
		})
	}

	query, args, err := qb.InsertModels("competitions", models, `ON CONFLICT (source, source_id)
DO UPDATE SET
    name = COALESCE(NULLIF(EXCLUDED.name, ''), competitions.name),
    country = COALESCE(NULLIF(EXCLUDED.country, ''), competitions.country),
    priority = GREATEST(EXCLUDED.priority, competitions.priority),
    logo_url = COALESCE(NULLIF(EXCLUDED.logo_url, ''), competitions.logo_url),
    updated_at = NOW()`)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert competitions query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, len(rows), fmt.Errorf("upsert competitions: %w", err)
	}
	return len(rows), 0, nil
}

func (r *CompetitionRepository) ResolveIDs(ctx context.Context, source string, sourceIDs []int64) (map[int64]int64, error) {
	if len(sourceIDs) == 0 {
		return map[int64]int64{}, nil
	}

	query, args, err := qb.Select("id", "source_id").From("competitions").
		Where(
			qb.Eq("source", source),
			qb.In("source_id", int64SliceToAny(sourceIDs)),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build resolve competition ids query: %w", err)
	}

	var rows []keyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("resolve competition ids: %w", err)
	}
	return keyRowsToMap(rows), nil
}
