package memory

import (
	"context"
	"sync"

	"github.com/matchpulse/matchpulse/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	seq   *Sequence
	items map[string]team.Team
}

func NewTeamRepository(seq *Sequence) *TeamRepository {
	return &TeamRepository{seq: seq, items: make(map[string]team.Team)}
}

func (r *TeamRepository) UpsertMany(_ context.Context, rows []team.Team) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		key := naturalKey(row.Source, row.SourceID)
		if existing, ok := r.items[key]; ok {
			r.items[key] = existing.Merge(row)
			continue
		}
		row.ID = r.seq.Next()
		r.items[key] = row
	}
	return len(rows), 0, nil
}

func (r *TeamRepository) ResolveIDs(_ context.Context, source string, sourceIDs []int64) (map[int64]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]int64, len(sourceIDs))
	for _, sourceID := range sourceIDs {
		if item, ok := r.items[naturalKey(source, sourceID)]; ok {
			out[sourceID] = item.ID
		}
	}
	return out, nil
}

func (r *TeamRepository) Get(source string, sourceID int64) (team.Team, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[naturalKey(source, sourceID)]
	return item, ok
}

func (r *TeamRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
