package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/matchpulse/internal/domain/player"
	qb "github.com/matchpulse/matchpulse/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) UpsertMany(ctx context.Context, rows []player.Player) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]playerInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, playerInsertModel{
			Source:      row.Source,
			SourceID:    row.SourceID,
			Name:        row.Name,
			Nationality: row.Nationality,
			HeightCM:    row.HeightCM,
			DateOfBirth: row.DateOfBirth,
			Placeholder: row.Placeholder,
		})
	}

	query, args, err := qb.InsertModels("players", models, `ON CONFLICT (source, source_id)
DO UPDATE SET
    name = CASE WHEN NOT EXCLUDED.placeholder OR players.placeholder THEN EXCLUDED.name ELSE players.name END,
    nationality = COALESCE(NULLIF(EXCLUDED.nationality, ''), players.nationality),
    height_cm = CASE WHEN EXCLUDED.height_cm > 0 THEN EXCLUDED.height_cm ELSE players.height_cm END,
    date_of_birth = COALESCE(EXCLUDED.date_of_birth, players.date_of_birth),
    placeholder = players.placeholder AND EXCLUDED.placeholder,
    updated_at = NOW()`)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert players query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, len(rows), fmt.Errorf("upsert players: %w", err)
	}
	return len(rows), 0, nil
}

func (r *PlayerRepository) ResolveIDs(ctx context.Context, source string, sourceIDs []int64) (map[int64]int64, error) {
	if len(sourceIDs) == 0 {
		return map[int64]int64{}, nil
	}

	query, args, err := qb.Select("id", "source_id").From("players").
		Where(
			qb.Eq("source", source),
			qb.In("source_id", int64SliceToAny(sourceIDs)),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build resolve player ids query: %w", err)
	}

	var rows []keyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("resolve player ids: %w", err)
	}
	return keyRowsToMap(rows), nil
}
