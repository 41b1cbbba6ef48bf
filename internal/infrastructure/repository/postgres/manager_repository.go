package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/matchpulse/internal/domain/manager"
	qb "github.com/matchpulse/matchpulse/internal/platform/querybuilder"
)

type ManagerRepository struct {
	db *sqlx.DB
}

func NewManagerRepository(db *sqlx.DB) *ManagerRepository {
	return &ManagerRepository{db: db}
}

func (r *ManagerRepository) UpsertMany(ctx context.Context, rows []manager.Manager) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]managerInsertModel, 0, len(rows))
	for _, row := range rows {
		m := managerInsertModel{
			Source:      row.Source,
			SourceID:    row.SourceID,
			Name:        row.Name,
			Nationality: row.Nationality,
			DateOfBirth: row.DateOfBirth,
			Placeholder: row.Placeholder,
		}
		if row.TeamID > 0 {
			teamID := row.TeamID
			m.TeamID = &teamID
		}
		models = append(models, m)
	}

	query, args, err := qb.InsertModels("managers", models, `ON CONFLICT (source, source_id)
DO UPDATE SET
    name = CASE WHEN NOT EXCLUDED.placeholder OR managers.placeholder THEN EXCLUDED.name ELSE managers.name END,
    nationality = COALESCE(NULLIF(EXCLUDED.nationality, ''), managers.nationality),
    date_of_birth = COALESCE(EXCLUDED.date_of_birth, managers.date_of_birth),
    team_id = COALESCE(EXCLUDED.team_id, managers.team_id),
    placeholder = managers.placeholder AND EXCLUDED.placeholder,
    updated_at = NOW()`)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert managers query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, len(rows), fmt.Errorf("upsert managers: %w", err)
	}
	return len(rows), 0, nil
}

func (r *ManagerRepository) ResolveIDs(ctx context.Context, source string, sourceIDs []int64) (map[int64]int64, error) {
	if len(sourceIDs) == 0 {
		return map[int64]int64{}, nil
	}

	query, args, err := qb.Select("id", "source_id").From("managers").
		Where(
			qb.Eq("source", source),
			qb.In("source_id", int64SliceToAny(sourceIDs)),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build resolve manager ids query: %w", err)
	}

	var rows []keyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("resolve manager ids: %w", err)
	}
	return keyRowsToMap(rows), nil
}

func (r *ManagerRepository) UpsertAssignments(ctx context.Context, rows []manager.MatchAssignment) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]managerAssignmentInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, managerAssignmentInsertModel{
			MatchID:   row.MatchID,
			ManagerID: row.ManagerID,
			TeamID:    row.TeamID,
			Side:      row.Side,
		})
	}

	query, args, err := qb.InsertModels("match_managers", models, `ON CONFLICT (match_id, manager_id, team_id, side)
DO NOTHING`)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert match managers query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, len(rows), fmt.Errorf("upsert match managers: %w", err)
	}
	return len(rows), 0, nil
}
