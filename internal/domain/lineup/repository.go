package lineup

import "context"

type Repository interface {
	UpsertEntries(ctx context.Context, rows []Entry) (stored, failed int, err error)
	UpsertFormations(ctx context.Context, rows []Formation) (stored, failed int, err error)
}
