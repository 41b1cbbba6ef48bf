package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/matchpulse/internal/domain/matchevent"
	qb "github.com/matchpulse/matchpulse/internal/platform/querybuilder"
)

type MatchEventRepository struct {
	db *sqlx.DB
}

func NewMatchEventRepository(db *sqlx.DB) *MatchEventRepository {
	return &MatchEventRepository{db: db}
}

// UpsertMany writes incidents keyed by (match, minute, type, player,
// player_in). Player columns that can participate in the key are stored
// as zero rather than null so the conflict target behaves.
func (r *MatchEventRepository) UpsertMany(ctx context.Context, rows []matchevent.Event) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]matchEventInsertModel, 0, len(rows))
	for _, row := range rows {
		m := matchEventInsertModel{
			MatchID:     row.MatchID,
			Minute:      row.Minute,
			EventType:   row.Type,
			PlayerID:    row.PlayerID,
			PlayerInID:  row.PlayerInID,
			PlayerOutID: row.PlayerOutID,
			HomeScore:   row.HomeScore,
			AwayScore:   row.AwayScore,
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

	query, args, err := qb.InsertModels("match_events", models, `ON CONFLICT (match_id, minute, event_type, player_id, player_in_id)
DO UPDATE SET
    team_id = COALESCE(EXCLUDED.team_id, match_events.team_id),
    assist_player_id = COALESCE(EXCLUDED.assist_player_id, match_events.assist_player_id),
    player_out_id = CASE WHEN EXCLUDED.player_out_id > 0 THEN EXCLUDED.player_out_id ELSE match_events.player_out_id END,
    home_score = COALESCE(EXCLUDED.home_score, match_events.home_score),
    away_score = COALESCE(EXCLUDED.away_score, match_events.away_score)`)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert match events query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, len(rows), fmt.Errorf("upsert match events: %w", err)
	}
	return len(rows), 0, nil
}
