package pipeline

import (
	"fmt"
	"sync"
)

// Entity kinds used as cache namespaces.
const (
	kindCompetition = "competition"
	kindTeam        = "team"
	kindPlayer      = "player"
	kindManager     = "manager"
	kindMatch       = "match"
)

// KeyCache maps natural ids to surrogate keys per entity kind. It lives for
// the process lifetime and only grows; a mapping never changes once
// learned, so plain lock-guarded maps are enough.
type KeyCache struct {
	mu     sync.RWMutex
	byKind map[string]map[int64]int64
}

func NewKeyCache() *KeyCache {
	return &KeyCache{byKind: make(map[string]map[int64]int64)}
}

func (c *KeyCache) Get(kind string, sourceID int64) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byKind[kind][sourceID]
	return id, ok
}

func (c *KeyCache) PutAll(kind string, mapping map[int64]int64) {
	if len(mapping) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	kindMap, ok := c.byKind[kind]
	if !ok {
		kindMap = make(map[int64]int64, len(mapping))
		c.byKind[kind] = kindMap
	}
	for sourceID, id := range mapping {
		if id > 0 {
			kindMap[sourceID] = id
		}
	}
}

// Split partitions wanted ids into already-cached mappings and ids that
// still need a backend lookup.
func (c *KeyCache) Split(kind string, sourceIDs []int64) (map[int64]int64, []int64) {
	resolved := make(map[int64]int64, len(sourceIDs))
	missing := make([]int64, 0)

	c.mu.RLock()
	kindMap := c.byKind[kind]
	for _, sourceID := range sourceIDs {
		if id, ok := kindMap[sourceID]; ok {
			resolved[sourceID] = id
			continue
		}
		missing = append(missing, sourceID)
	}
	c.mu.RUnlock()

	return resolved, missing
}

type standingsPairState struct {
	acceptedPath string
	negatives    map[string]struct{}
	exhausted    bool
}

// StandingsCache remembers, per (competition, season) pair, which endpoint
// variants came back empty and which one worked. Negative variants are
// never retried within the process.
type StandingsCache struct {
	mu    sync.Mutex
	pairs map[string]*standingsPairState
	limit int
}

func NewStandingsCache(negativeLimit int) *StandingsCache {
	if negativeLimit < 1 {
		negativeLimit = 6
	}
	return &StandingsCache{
		pairs: make(map[string]*standingsPairState),
		limit: negativeLimit,
	}
}

func standingsPairKey(competitionSourceID int64, season string) string {
	return fmt.Sprintf("%d|%s", competitionSourceID, season)
}

func (c *StandingsCache) pair(key string) *standingsPairState {
	state, ok := c.pairs[key]
	if !ok {
		state = &standingsPairState{negatives: make(map[string]struct{})}
		c.pairs[key] = state
	}
	return state
}

// AcceptedPath returns the previously discovered working variant, if any.
func (c *StandingsCache) AcceptedPath(competitionSourceID int64, season string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.pairs[standingsPairKey(competitionSourceID, season)]
	if !ok || state.acceptedPath == "" {
		return "", false
	}
	return state.acceptedPath, true
}

// ShouldProbe reports whether the variant is still worth trying for the
// pair. Exhausted pairs and known-negative variants are skipped.
func (c *StandingsCache) ShouldProbe(competitionSourceID int64, season, path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.pair(standingsPairKey(competitionSourceID, season))
	if state.exhausted || state.acceptedPath != "" {
		return false
	}
	_, negative := state.negatives[path]
	return !negative
}

func (c *StandingsCache) RecordNegative(competitionSourceID int64, season, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.pair(standingsPairKey(competitionSourceID, season))
	state.negatives[path] = struct{}{}
	if len(state.negatives) >= c.limit {
		state.exhausted = true
	}
}

func (c *StandingsCache) RecordAccepted(competitionSourceID int64, season, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pair(standingsPairKey(competitionSourceID, season)).acceptedPath = path
}

func (c *StandingsCache) Exhausted(competitionSourceID int64, season string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.pairs[standingsPairKey(competitionSourceID, season)]
	return ok && state.exhausted
}

// RunContext owns the process-lifetime state shared by consecutive
// pipeline runs. A new bundle is built per run; this is not.
type RunContext struct {
	Keys      *KeyCache
	Standings *StandingsCache
}

func NewRunContext(standingsNegativeLimit int) *RunContext {
	return &RunContext{
		Keys:      NewKeyCache(),
		Standings: NewStandingsCache(standingsNegativeLimit),
	}
}
