package stats

import "context"

type Repository interface {
	UpsertTeamStats(ctx context.Context, rows []TeamMatchStat) (stored, failed int, err error)
	UpsertPlayerStats(ctx context.Context, rows []PlayerMatchStat) (stored, failed int, err error)
}
