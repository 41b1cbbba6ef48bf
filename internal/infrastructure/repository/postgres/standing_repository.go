package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/matchpulse/internal/domain/standing"
	qb "github.com/matchpulse/matchpulse/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) UpsertMany(ctx context.Context, rows []standing.Standing) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]standingInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, standingInsertModel{
			CompetitionID: row.CompetitionID,
			Season:        row.Season,
			TeamID:        row.TeamID,
			Position:      row.Position,
			Played:        row.Played,
			Won:           row.Won,
			Draw:          row.Draw,
			Lost:          row.Lost,
			GoalsFor:      row.GoalsFor,
			GoalsAgainst:  row.GoalsAgainst,
			Points:        row.Points,
			Form:          row.Form,
		})
	}

	query, args, err := qb.InsertModels("standings", models, `ON CONFLICT (competition_id, season, team_id)
DO UPDATE SET
    position = EXCLUDED.position,
    played = EXCLUDED.played,
    won = EXCLUDED.won,
    draw = EXCLUDED.draw,
    lost = EXCLUDED.lost,
    goals_for = EXCLUDED.goals_for,
    goals_against = EXCLUDED.goals_against,
    points = EXCLUDED.points,
    form = COALESCE(NULLIF(EXCLUDED.form, ''), standings.form),
    updated_at = NOW()`)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert standings query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, len(rows), fmt.Errorf("upsert standings: %w", err)
	}
	return len(rows), 0, nil
}
