package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/matchpulse/internal/domain/shot"
	qb "github.com/matchpulse/matchpulse/internal/platform/querybuilder"
)

type ShotRepository struct {
	db *sqlx.DB
}

func NewShotRepository(db *sqlx.DB) *ShotRepository {
	return &ShotRepository{db: db}
}

func (r *ShotRepository) UpsertMany(ctx context.Context, rows []shot.Shot) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]shotInsertModel, 0, len(rows))
	for _, row := range rows {
		m := shotInsertModel{
			MatchID:      row.MatchID,
			PlayerID:     row.PlayerID,
			SourceItemID: row.SourceItemID,
			Minute:       row.Minute,
			X:            row.X,
			Y:            row.Y,
			Outcome:      row.Outcome,
			IsPenalty:    row.IsPenalty,
			IsOwnGoal:    row.IsOwnGoal,
		}
		if row.TeamID > 0 {
			teamID := row.TeamID
			m.TeamID = &teamID
		}
		if row.AssistPlayerID > 0 {
			assistID := row.AssistPlayerID
			m.AssistPlayerID = &assistID
		}
		models = append(models, m)
	}

	query, args, err := qb.InsertModels("shots", models, `ON CONFLICT (match_id, player_id, source_item_id)
DO UPDATE SET
    team_id = COALESCE(EXCLUDED.team_id, shots.team_id),
    minute = CASE WHEN EXCLUDED.minute >= 0 THEN EXCLUDED.minute ELSE shots.minute END,
    x = EXCLUDED.x,
    y = EXCLUDED.y,
    outcome = CASE WHEN EXCLUDED.outcome <> 'unknown' THEN EXCLUDED.outcome ELSE shots.outcome END,
    assist_player_id = COALESCE(EXCLUDED.assist_player_id, shots.assist_player_id),
    is_penalty = shots.is_penalty OR EXCLUDED.is_penalty,
    is_own_goal = shots.is_own_goal OR EXCLUDED.is_own_goal`)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert shots query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, len(rows), fmt.Errorf("upsert shots: %w", err)
	}
	return len(rows), 0, nil
}

func (r *ShotRepository) UpsertAveragePositions(ctx context.Context, rows []shot.AveragePosition) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]averagePositionInsertModel, 0, len(rows))
	for _, row := range rows {
		m := averagePositionInsertModel{
			MatchID:  row.MatchID,
			PlayerID: row.PlayerID,
			AvgX:     row.AvgX,
			AvgY:     row.AvgY,
		}
		if row.TeamID > 0 {
			teamID := row.TeamID
			m.TeamID = &teamID
		}
		models = append(models, m)
	}

	query, args, err := qb.InsertModels("average_positions", models, `ON CONFLICT (match_id, player_id)
DO UPDATE SET
    team_id = COALESCE(EXCLUDED.team_id, average_positions.team_id),
    avg_x = EXCLUDED.avg_x,
    avg_y = EXCLUDED.avg_y`)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert average positions query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, len(rows), fmt.Errorf("upsert average positions: %w", err)
	}
	return len(rows), 0, nil
}
