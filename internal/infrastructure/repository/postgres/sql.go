package postgres

func int64SliceToAny(items []int64) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

// keyRow is the shared shape of natural-to-surrogate lookups.
type keyRow struct {
	ID       int64 `db:"id"`
	SourceID int64 `db:"source_id"`
}

func keyRowsToMap(rows []keyRow) map[int64]int64 {
	out := make(map[int64]int64, len(rows))
	for _, row := range rows {
		out[row.SourceID] = row.ID
	}
	return out
}
