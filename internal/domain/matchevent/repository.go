package matchevent

import "context"

type Repository interface {
	UpsertMany(ctx context.Context, rows []Event) (stored, failed int, err error)
}
