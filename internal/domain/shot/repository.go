package shot

import "context"

type Repository interface {
	UpsertMany(ctx context.Context, rows []Shot) (stored, failed int, err error)
	UpsertAveragePositions(ctx context.Context, rows []AveragePosition) (stored, failed int, err error)
}
