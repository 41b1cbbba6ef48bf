package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/matchpulse/matchpulse/internal/domain/manager"
)

type ManagerRepository struct {
	mu          sync.RWMutex
	seq         *Sequence
	items       map[string]manager.Manager
	assignments map[string]manager.MatchAssignment
}

func NewManagerRepository(seq *Sequence) *ManagerRepository {
	return &ManagerRepository{
		seq:         seq,
		items:       make(map[string]manager.Manager),
		assignments: make(map[string]manager.MatchAssignment),
	}
}

func (r *ManagerRepository) UpsertMany(_ context.Context, rows []manager.Manager) (int, int, error) {
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

func (r *ManagerRepository) ResolveIDs(_ context.Context, source string, sourceIDs []int64) (map[int64]int64, error) {
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

func (r *ManagerRepository) UpsertAssignments(_ context.Context, rows []manager.MatchAssignment) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		key := fmt.Sprintf("%d|%d|%d|%s", row.MatchID, row.ManagerID, row.TeamID, row.Side)
		r.assignments[key] = row
	}
	return len(rows), 0, nil
}

func (r *ManagerRepository) Get(source string, sourceID int64) (manager.Manager, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[naturalKey(source, sourceID)]
	return item, ok
}

func (r *ManagerRepository) AssignmentCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.assignments)
}
