package memory

import (
	"context"
	"sync"

	"github.com/matchpulse/matchpulse/internal/domain/match"
)

type MatchRepository struct {
	mu        sync.RWMutex
	seq       *Sequence
	items     map[string]match.Match
	byID      map[int64]string
	snapshots []match.StateSnapshot
}

func NewMatchRepository(seq *Sequence) *MatchRepository {
	return &MatchRepository{
		seq:   seq,
		items: make(map[string]match.Match),
		byID:  make(map[int64]string),
	}
}

func (r *MatchRepository) UpsertMany(_ context.Context, rows []match.Match) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		key := naturalKey(row.Source, row.SourceEventID)
		existing, ok := r.items[key]
		if !ok {
			row.ID = r.seq.Next()
			r.items[key] = row
			r.byID[row.ID] = key
			continue
		}
		row.ID = existing.ID
		if row.HomeScore == nil {
			row.HomeScore = existing.HomeScore
		}
		if row.AwayScore == nil {
			row.AwayScore = existing.AwayScore
		}
		if row.Venue == "" {
			row.Venue = existing.Venue
		}
		if row.Round == "" {
			row.Round = existing.Round
		}
		if row.Season == "" {
			row.Season = existing.Season
		}
		if row.KickoffAt.IsZero() {
			row.KickoffAt = existing.KickoffAt
		}
		r.items[key] = row
	}
	return len(rows), 0, nil
}

func (r *MatchRepository) ResolveIDs(_ context.Context, source string, sourceEventIDs []int64) (map[int64]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]int64, len(sourceEventIDs))
	for _, sourceEventID := range sourceEventIDs {
		if item, ok := r.items[naturalKey(source, sourceEventID)]; ok {
			out[sourceEventID] = item.ID
		}
	}
	return out, nil
}

func (r *MatchRepository) RecordStateSnapshot(_ context.Context, snap match.StateSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap.ID = int64(len(r.snapshots) + 1)
	r.snapshots = append(r.snapshots, snap)
	return nil
}

func (r *MatchRepository) ReconcileScore(_ context.Context, matchID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *match.StateSnapshot
	for i := range r.snapshots {
		snap := &r.snapshots[i]
		if snap.MatchID != matchID {
			continue
		}
		if latest == nil || snap.AsOf.After(latest.AsOf) || (snap.AsOf.Equal(latest.AsOf) && snap.ID > latest.ID) {
			latest = snap
		}
	}
	if latest == nil {
		return nil
	}

	key, ok := r.byID[matchID]
	if !ok {
		return nil
	}
	item := r.items[key]
	item.Status = latest.Status
	item.Minute = latest.Minute
	if latest.HomeScore != nil {
		item.HomeScore = latest.HomeScore
	}
	if latest.AwayScore != nil {
		item.AwayScore = latest.AwayScore
	}
	r.items[key] = item
	return nil
}

func (r *MatchRepository) Get(source string, sourceEventID int64) (match.Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[naturalKey(source, sourceEventID)]
	return item, ok
}

func (r *MatchRepository) Snapshots(matchID int64) []match.StateSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]match.StateSnapshot, 0)
	for _, snap := range r.snapshots {
		if snap.MatchID == matchID {
			out = append(out, snap)
		}
	}
	return out
}
