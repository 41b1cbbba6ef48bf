package memory

import (
	"context"
	"sync"

	"github.com/matchpulse/matchpulse/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	seq   *Sequence
	items map[string]player.Player
}

func NewPlayerRepository(seq *Sequence) *PlayerRepository {
	return &PlayerRepository{seq: seq, items: make(map[string]player.Player)}
}

func (r *PlayerRepository) UpsertMany(_ context.Context, rows []player.Player) (int, int, error) {
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

func (r *PlayerRepository) ResolveIDs(_ context.Context, source string, sourceIDs []int64) (map[int64]int64, error) {
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

func (r *PlayerRepository) Get(source string, sourceID int64) (player.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[naturalKey(source, sourceID)]
	return item, ok
}

func (r *PlayerRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
