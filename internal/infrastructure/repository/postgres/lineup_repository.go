package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/matchpulse/internal/domain/lineup"
	qb "github.com/matchpulse/matchpulse/internal/platform/querybuilder"
)

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func (r *LineupRepository) UpsertEntries(ctx context.Context, rows []lineup.Entry) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]lineupEntryInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, lineupEntryInsertModel{
			MatchID:      row.MatchID,
			TeamID:       row.TeamID,
			PlayerID:     row.PlayerID,
			Position:     row.Position,
			JerseyNumber: row.JerseyNumber,
			Starter:      row.Starter,
			Captain:      row.Captain,
		})
	}

	query, args, err := qb.InsertModels("lineup_entries", models, `ON CONFLICT (match_id, team_id, player_id)
DO UPDATE SET
    position = COALESCE(NULLIF(EXCLUDED.position, ''), lineup_entries.position),
    jersey_number = CASE WHEN EXCLUDED.jersey_number > 0 THEN EXCLUDED.jersey_number ELSE lineup_entries.jersey_number END,
    starter = EXCLUDED.starter,
    captain = lineup_entries.captain OR EXCLUDED.captain`)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert lineup entries query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, len(rows), fmt.Errorf("upsert lineup entries: %w", err)
	}
	return len(rows), 0, nil
}

func (r *LineupRepository) UpsertFormations(ctx context.Context, rows []lineup.Formation) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]formationInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, formationInsertModel{
			MatchID:   row.MatchID,
			TeamID:    row.TeamID,
			Formation: row.Formation,
		})
	}

	query, args, err := qb.InsertModels("formations", models, `ON CONFLICT (match_id, team_id)
DO UPDATE SET formation = COALESCE(NULLIF(EXCLUDED.formation, ''), formations.formation)`)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert formations query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, len(rows), fmt.Errorf("upsert formations: %w", err)
	}
	return len(rows), 0, nil
}
