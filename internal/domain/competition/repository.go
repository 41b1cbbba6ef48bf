package competition

import "context"

type Repository interface {
	// UpsertMany writes competitions keyed by (source, source_id) and
	// reports how many rows were stored and how many failed.
	UpsertMany(ctx context.Context, rows []Competition) (stored, failed int, err error)
	// ResolveIDs translates natural ids to surrogate keys. Ids without a
	// persisted row are absent from the result map.
	ResolveIDs(ctx context.Context, source string, sourceIDs []int64) (map[int64]int64, error)
}
