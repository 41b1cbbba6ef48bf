package match

import "context"

type Repository interface {
	// UpsertMany writes matches as one batch. Implementations degrade to
	// per-row upserts when the batch fails, so a single bad row cannot
	// sink the whole day.
	UpsertMany(ctx context.Context, rows []Match) (stored, failed int, err error)
	ResolveIDs(ctx context.Context, source string, sourceEventIDs []int64) (map[int64]int64, error)
	// RecordStateSnapshot appends one state observation for a match.
	RecordStateSnapshot(ctx context.Context, snap StateSnapshot) error
	// ReconcileScore copies status/minute/score from the latest snapshot
	// onto the canonical match row. Snapshot wins on divergence.
	ReconcileScore(ctx context.Context, matchID int64) error
}
