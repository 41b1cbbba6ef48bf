package manager

import "context"

type Repository interface {
	UpsertMany(ctx context.Context, rows []Manager) (stored, failed int, err error)
	ResolveIDs(ctx context.Context, source string, sourceIDs []int64) (map[int64]int64, error)
	UpsertAssignments(ctx context.Context, rows []MatchAssignment) (stored, failed int, err error)
}
