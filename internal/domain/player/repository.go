package player

import "context"

type Repository interface {
	UpsertMany(ctx context.Context, rows []Player) (stored, failed int, err error)
	ResolveIDs(ctx context.Context, source string, sourceIDs []int64) (map[int64]int64, error)
}
