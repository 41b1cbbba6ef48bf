package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/matchpulse/internal/domain/stats"
	qb "github.com/matchpulse/matchpulse/internal/platform/querybuilder"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) UpsertTeamStats(ctx context.Context, rows []stats.TeamMatchStat) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]teamStatInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, teamStatInsertModel{
			MatchID:        row.MatchID,
			TeamID:         row.TeamID,
			PossessionPct:  row.PossessionPct,
			Shots:          row.Shots,
			ShotsOnTarget:  row.ShotsOnTarget,
			Corners:        row.Corners,
			Fouls:          row.Fouls,
			Offsides:       row.Offsides,
			YellowCards:    row.YellowCards,
			RedCards:       row.RedCards,
			Passes:         row.Passes,
			PassesAccurate: row.PassesAccurate,
		})
	}

	query, args, err := qb.InsertModels("team_match_stats", models, `ON CONFLICT (match_id, team_id)
DO UPDATE SET
    possession_pct = EXCLUDED.possession_pct,
    shots = EXCLUDED.shots,
    shots_on_target = EXCLUDED.shots_on_target,
    corners = EXCLUDED.corners,
    fouls = EXCLUDED.fouls,
    offsides = EXCLUDED.offsides,
    yellow_cards = EXCLUDED.yellow_cards,
    red_cards = EXCLUDED.red_cards,
    passes = EXCLUDED.passes,
    passes_accurate = EXCLUDED.passes_accurate`)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert team stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, len(rows), fmt.Errorf("upsert team stats: %w", err)
	}
	return len(rows), 0, nil
}

func (r *StatsRepository) UpsertPlayerStats(ctx context.Context, rows []stats.PlayerMatchStat) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]playerStatInsertModel, 0, len(rows))
	for _, row := range rows {
		m := playerStatInsertModel{
			MatchID:       row.MatchID,
			PlayerID:      row.PlayerID,
			Goals:         row.Goals,
			Assists:       row.Assists,
			MinutesPlayed: row.MinutesPlayed,
			Rating:        row.Rating,
			WasSubbedIn:   row.WasSubbedIn,
			WasSubbedOut:  row.WasSubbedOut,
			SubMinute:     row.SubMinute,
		}
		if row.TeamID > 0 {
			teamID := row.TeamID
			m.TeamID = &teamID
		}
		models = append(models, m)
	}

	query, args, err := qb.InsertModels("player_match_stats", models, `ON CONFLICT (match_id, player_id)
DO UPDATE SET
    team_id = COALESCE(EXCLUDED.team_id, player_match_stats.team_id),
    goals = EXCLUDED.goals,
    assists = EXCLUDED.assists,
    minutes_played = EXCLUDED.minutes_played,
    rating = CASE WHEN EXCLUDED.rating > 0 THEN EXCLUDED.rating ELSE player_match_stats.rating END,
    was_subbed_in = player_match_stats.was_subbed_in OR EXCLUDED.was_subbed_in,
    was_subbed_out = player_match_stats.was_subbed_out OR EXCLUDED.was_subbed_out,
    sub_minute = CASE WHEN EXCLUDED.sub_minute >= 0 THEN EXCLUDED.sub_minute ELSE player_match_stats.sub_minute END`)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert player stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, len(rows), fmt.Errorf("upsert player stats: %w", err)
	}
	return len(rows), 0, nil
}
