package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/matchpulse/internal/domain/team"
	qb "github.com/matchpulse/matchpulse/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// UpsertMany writes teams keyed by (source, source_id). A placeholder
// observation never overwrites a real name, and a real observation clears
// the placeholder flag.
func (r *TeamRepository) UpsertMany(ctx context.Context, rows []team.Team) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	models := make([]teamInsertModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, teamInsertModel{
			Source:         row.Source,
			SourceID:       row.SourceID,
			Name:           row.Name,
			ShortName:      row.ShortName,
			PrimaryColor:   row.PrimaryColor,
			SecondaryColor: row.SecondaryColor,
			Venue:          row.Venue,
			Founded:        row.Founded,
			Placeholder:    row.Placeholder,
		})
	}

	query, args, err := qb.InsertModels("teams", models, `ON CONFLICT (source, source_id)
DO UPDATE SET
    name = CASE WHEN NOT EXCLUDED.placeholder OR teams.placeholder THEN EXCLUDED.name ELSE teams.name END,
    short_name = COALESCE(NULLIF(EXCLUDED.short_name, ''), teams.short_name),
    primary_color = COALESCE(NULLIF(EXCLUDED.primary_color, ''), teams.primary_color),
    secondary_color = COALESCE(NULLIF(EXCLUDED.secondary_color, ''), teams.secondary_color),
    venue = COALESCE(NULLIF(EXCLUDED.venue, ''), teams.venue),
    founded = CASE WHEN EXCLUDED.founded > 0 THEN EXCLUDED.founded ELSE teams.founded END,
    placeholder = teams.placeholder AND EXCLUDED.placeholder,
    updated_at = NOW()`)
	if err != nil {
		return 0, len(rows), fmt.Errorf("build upsert teams query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, len(rows), fmt.Errorf("upsert teams: %w", err)
	}
	return len(rows), 0, nil
}

func (r *TeamRepository) ResolveIDs(ctx context.Context, source string, sourceIDs []int64) (map[int64]int64, error) {
	if len(sourceIDs) == 0 {
		return map[int64]int64{}, nil
	}

	query, args, err := qb.Select("id", "source_id").From("teams").
		Where(
			qb.Eq("source", source),
			qb.In("source_id", int64SliceToAny(sourceIDs)),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build resolve team ids query: %w", err)
	}

	var rows []keyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("resolve team ids: %w", err)
	}
	return keyRowsToMap(rows), nil
}
