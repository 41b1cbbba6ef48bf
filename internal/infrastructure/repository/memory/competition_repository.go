package memory

import (
	"context"
	"sync"

	"github.com/matchpulse/matchpulse/internal/domain/competition"
)

type CompetitionRepository struct {
	mu    sync.RWMutex
	seq   *Sequence
	items map[string]competition.Competition
}

func NewCompetitionRepository(seq *Sequence) *CompetitionRepository {
	return &CompetitionRepository{seq: seq, items: make(map[string]competition.Competition)}
}

func (r *CompetitionRepository) UpsertMany(_ context.Context, rows []competition.Competition) (int, int, error) {
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

func (r *CompetitionRepository) ResolveIDs(_ context.Context, source string, sourceIDs []int64) (map[int64]int64, error) {
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

// Get returns the stored record for assertions in tests.
func (r *CompetitionRepository) Get(source string, sourceID int64) (competition.Competition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[naturalKey(source, sourceID)]
	return item, ok
}
