package standing

import "context"

type Repository interface {
	UpsertMany(ctx context.Context, rows []Standing) (stored, failed int, err error)
}
