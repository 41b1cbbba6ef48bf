package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/matchpulse/matchpulse/internal/domain/lineup"
	"github.com/matchpulse/matchpulse/internal/domain/matchevent"
	"github.com/matchpulse/matchpulse/internal/domain/shot"
	"github.com/matchpulse/matchpulse/internal/domain/standing"
	"github.com/matchpulse/matchpulse/internal/domain/stats"
)

// LineupRepository keys entries by (match, team, player) and formations
// by (match, team), matching the relational unique constraints.
type LineupRepository struct {
	mu         sync.RWMutex
	entries    map[string]lineup.Entry
	formations map[string]lineup.Formation
}

func NewLineupRepository() *LineupRepository {
	return &LineupRepository{
		entries:    make(map[string]lineup.Entry),
		formations: make(map[string]lineup.Formation),
	}
}

func (r *LineupRepository) UpsertEntries(_ context.Context, rows []lineup.Entry) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.entries[fmt.Sprintf("%d|%d|%d", row.MatchID, row.TeamID, row.PlayerID)] = row
	}
	return len(rows), 0, nil
}

func (r *LineupRepository) UpsertFormations(_ context.Context, rows []lineup.Formation) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.formations[fmt.Sprintf("%d|%d", row.MatchID, row.TeamID)] = row
	}
	return len(rows), 0, nil
}

func (r *LineupRepository) Entries() []lineup.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]lineup.Entry, 0, len(r.entries))
	for _, row := range r.entries {
		out = append(out, row)
	}
	return out
}

func (r *LineupRepository) EntryCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

type MatchEventRepository struct {
	mu    sync.RWMutex
	items map[string]matchevent.Event
}

func NewMatchEventRepository() *MatchEventRepository {
	return &MatchEventRepository{items: make(map[string]matchevent.Event)}
}

func (r *MatchEventRepository) UpsertMany(_ context.Context, rows []matchevent.Event) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		key := fmt.Sprintf("%d|%d|%s|%d|%d", row.MatchID, row.Minute, row.Type, row.PlayerID, row.PlayerInID)
		r.items[key] = row
	}
	return len(rows), 0, nil
}

func (r *MatchEventRepository) Events() []matchevent.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]matchevent.Event, 0, len(r.items))
	for _, row := range r.items {
		out = append(out, row)
	}
	return out
}

type ShotRepository struct {
	mu        sync.RWMutex
	shots     map[string]shot.Shot
	positions map[string]shot.AveragePosition
}

func NewShotRepository() *ShotRepository {
	return &ShotRepository{
		shots:     make(map[string]shot.Shot),
		positions: make(map[string]shot.AveragePosition),
	}
}

func (r *ShotRepository) UpsertMany(_ context.Context, rows []shot.Shot) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.shots[fmt.Sprintf("%d|%d|%d", row.MatchID, row.PlayerID, row.SourceItemID)] = row
	}
	return len(rows), 0, nil
}

func (r *ShotRepository) UpsertAveragePositions(_ context.Context, rows []shot.AveragePosition) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.positions[fmt.Sprintf("%d|%d", row.MatchID, row.PlayerID)] = row
	}
	return len(rows), 0, nil
}

func (r *ShotRepository) Shots() []shot.Shot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]shot.Shot, 0, len(r.shots))
	for _, row := range r.shots {
		out = append(out, row)
	}
	return out
}

type StatsRepository struct {
	mu          sync.RWMutex
	teamStats   map[string]stats.TeamMatchStat
	playerStats map[string]stats.PlayerMatchStat
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{
		teamStats:   make(map[string]stats.TeamMatchStat),
		playerStats: make(map[string]stats.PlayerMatchStat),
	}
}

func (r *StatsRepository) UpsertTeamStats(_ context.Context, rows []stats.TeamMatchStat) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.teamStats[fmt.Sprintf("%d|%d", row.MatchID, row.TeamID)] = row
	}
	return len(rows), 0, nil
}

func (r *StatsRepository) UpsertPlayerStats(_ context.Context, rows []stats.PlayerMatchStat) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.playerStats[fmt.Sprintf("%d|%d", row.MatchID, row.PlayerID)] = row
	}
	return len(rows), 0, nil
}

func (r *StatsRepository) PlayerStats() []stats.PlayerMatchStat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]stats.PlayerMatchStat, 0, len(r.playerStats))
	for _, row := range r.playerStats {
		out = append(out, row)
	}
	return out
}

func (r *StatsRepository) TeamStatCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.teamStats)
}

type StandingRepository struct {
	mu    sync.RWMutex
	items map[string]standing.Standing
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{items: make(map[string]standing.Standing)}
}

func (r *StandingRepository) UpsertMany(_ context.Context, rows []standing.Standing) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.items[fmt.Sprintf("%d|%s|%d", row.CompetitionID, row.Season, row.TeamID)] = row
	}
	return len(rows), 0, nil
}

func (r *StandingRepository) Standings() []standing.Standing {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]standing.Standing, 0, len(r.items))
	for _, row := range r.items {
		out = append(out, row)
	}
	return out
}
