package pipeline

import (
	"context"

	"github.com/matchpulse/matchpulse/internal/domain/matchevent"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

// KeyLookup is the batched natural-to-surrogate key lookup every entity
// repository exposes.
type KeyLookup interface {
	ResolveIDs(ctx context.Context, source string, sourceIDs []int64) (map[int64]int64, error)
}

// Resolver batch-translates natural ids to surrogate keys, one lookup per
// entity kind, consulting the process-lifetime cache first. Dependent rows
// whose required keys cannot be resolved this run are dropped and counted,
// never persisted with null references.
type Resolver struct {
	keys   *KeyCache
	logger *logging.Logger
}

func NewResolver(keys *KeyCache, logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{keys: keys, logger: logger}
}

// ResolveKind returns the surrogate mapping for the requested ids, going
// to the backend only for ids the cache has not seen.
func (r *Resolver) ResolveKind(ctx context.Context, kind string, lookup KeyLookup, source string, sourceIDs []int64) (map[int64]int64, error) {
	resolved, missing := r.keys.Split(kind, sourceIDs)
	if len(missing) == 0 {
		return resolved, nil
	}

	fetched, err := lookup.ResolveIDs(ctx, source, missing)
	if err != nil {
		return resolved, err
	}
	r.keys.PutAll(kind, fetched)
	for sourceID, id := range fetched {
		resolved[sourceID] = id
	}
	return resolved, nil
}

// DropCounts records dependent rows discarded for unresolved references.
type DropCounts struct {
	Matches          int
	LineupEntries    int
	Formations       int
	Events           int
	Shots            int
	AveragePositions int
	TeamStats        int
	PlayerStats      int
	Assignments      int
	Standings        int
}

func (d DropCounts) Total() int {
	return d.Matches + d.LineupEntries + d.Formations + d.Events + d.Shots +
		d.AveragePositions + d.TeamStats + d.PlayerStats + d.Assignments + d.Standings
}

// ApplyPrimaryKeys fills competition, team, player, and manager surrogate
// keys into the bundle. Matches that cannot resolve their competition or
// either team are dropped.
func (r *Resolver) ApplyPrimaryKeys(b *Bundle, compIDs, teamIDs map[int64]int64, drops *DropCounts) {
	for sourceID, m := range b.Matches {
		m.CompetitionID = compIDs[m.CompetitionSourceID]
		m.HomeTeamID = teamIDs[m.HomeTeamSourceID]
		m.AwayTeamID = teamIDs[m.AwayTeamSourceID]
		if m.CompetitionID <= 0 || m.HomeTeamID <= 0 || m.AwayTeamID <= 0 {
			delete(b.Matches, sourceID)
			drops.Matches++
			r.logger.Warn("match dropped for unresolved references",
				"source_event_id", sourceID,
				"competition_source_id", m.CompetitionSourceID,
			)
			continue
		}
		b.Matches[sourceID] = m
	}

	for sourceID, m := range b.Managers {
		m.TeamID = teamIDs[m.TeamSourceID]
		b.Managers[sourceID] = m
	}
}

// ApplyMatchKeys fills match and remaining entity surrogate keys into all
// dependent rows, dropping any row with an unresolvable required key.
func (r *Resolver) ApplyMatchKeys(b *Bundle, matchIDs, compIDs, teamIDs, playerIDs, managerIDs map[int64]int64, drops *DropCounts) {
	entries := b.LineupEntries[:0]
	for _, e := range b.LineupEntries {
		e.MatchID = matchIDs[e.MatchSourceID]
		e.TeamID = teamIDs[e.TeamSourceID]
		e.PlayerID = playerIDs[e.PlayerSourceID]
		if e.MatchID <= 0 || e.TeamID <= 0 || e.PlayerID <= 0 {
			drops.LineupEntries++
			continue
		}
		entries = append(entries, e)
	}
	b.LineupEntries = entries

	formations := b.Formations[:0]
	for _, f := range b.Formations {
		f.MatchID = matchIDs[f.MatchSourceID]
		f.TeamID = teamIDs[f.TeamSourceID]
		if f.MatchID <= 0 || f.TeamID <= 0 {
			drops.Formations++
			continue
		}
		formations = append(formations, f)
	}
	b.Formations = formations

	events := b.Events[:0]
	for _, e := range b.Events {
		e.MatchID = matchIDs[e.MatchSourceID]
		e.TeamID = teamIDs[e.TeamSourceID]
		e.PlayerID = playerIDs[e.PlayerSourceID]
		e.AssistPlayerID = playerIDs[e.AssistPlayerSourceID]
		e.PlayerInID = playerIDs[e.PlayerInSourceID]
		e.PlayerOutID = playerIDs[e.PlayerOutSourceID]
		if e.MatchID <= 0 {
			drops.Events++
			continue
		}
		if e.Type == matchevent.TypeSubstitution {
			if e.PlayerInSourceID > 0 && e.PlayerInID <= 0 || e.PlayerOutSourceID > 0 && e.PlayerOutID <= 0 {
				drops.Events++
				continue
			}
		} else if e.PlayerID <= 0 {
			drops.Events++
			continue
		}
		events = append(events, e)
	}
	b.Events = events

	shots := b.Shots[:0]
	for _, s := range b.Shots {
		s.MatchID = matchIDs[s.MatchSourceID]
		s.TeamID = teamIDs[s.TeamSourceID]
		s.PlayerID = playerIDs[s.PlayerSourceID]
		s.AssistPlayerID = playerIDs[s.AssistPlayerSourceID]
		if s.MatchID <= 0 || s.PlayerID <= 0 {
			drops.Shots++
			continue
		}
		shots = append(shots, s)
	}
	b.Shots = shots

	positions := b.AveragePositions[:0]
	for _, p := range b.AveragePositions {
		p.MatchID = matchIDs[p.MatchSourceID]
		p.TeamID = teamIDs[p.TeamSourceID]
		p.PlayerID = playerIDs[p.PlayerSourceID]
		if p.MatchID <= 0 || p.PlayerID <= 0 {
			drops.AveragePositions++
			continue
		}
		positions = append(positions, p)
	}
	b.AveragePositions = positions

	teamStats := b.TeamStats[:0]
	for _, s := range b.TeamStats {
		s.MatchID = matchIDs[s.MatchSourceID]
		s.TeamID = teamIDs[s.TeamSourceID]
		if s.MatchID <= 0 || s.TeamID <= 0 {
			drops.TeamStats++
			continue
		}
		teamStats = append(teamStats, s)
	}
	b.TeamStats = teamStats

	playerStats := b.PlayerStats[:0]
	for _, s := range b.PlayerStats {
		s.MatchID = matchIDs[s.MatchSourceID]
		s.TeamID = teamIDs[s.TeamSourceID]
		s.PlayerID = playerIDs[s.PlayerSourceID]
		if s.MatchID <= 0 || s.PlayerID <= 0 {
			drops.PlayerStats++
			continue
		}
		playerStats = append(playerStats, s)
	}
	b.PlayerStats = playerStats

	assignments := b.ManagerAssignments[:0]
	for _, a := range b.ManagerAssignments {
		a.MatchID = matchIDs[a.MatchSourceID]
		a.ManagerID = managerIDs[a.ManagerSourceID]
		a.TeamID = teamIDs[a.TeamSourceID]
		if a.MatchID <= 0 || a.ManagerID <= 0 || a.TeamID <= 0 {
			drops.Assignments++
			continue
		}
		assignments = append(assignments, a)
	}
	b.ManagerAssignments = assignments

	standings := b.Standings[:0]
	for _, s := range b.Standings {
		s.CompetitionID = compIDs[s.CompetitionSourceID]
		s.TeamID = teamIDs[s.TeamSourceID]
		if s.CompetitionID <= 0 || s.TeamID <= 0 {
			drops.Standings++
			continue
		}
		standings = append(standings, s)
	}
	b.Standings = standings

	if drops.Total() > 0 {
		r.logger.Warn("dependent rows dropped for unresolved references",
			"matches", drops.Matches,
			"lineup_entries", drops.LineupEntries,
			"events", drops.Events,
			"shots", drops.Shots,
			"player_stats", drops.PlayerStats,
			"team_stats", drops.TeamStats,
			"standings", drops.Standings,
		)
	}
}

// Sorted natural-id collection helpers used to build one lookup per kind.

func (b *Bundle) competitionSourceIDs() []int64 {
	ids := make([]int64, 0, len(b.Competitions))
	for id := range b.Competitions {
		ids = append(ids, id)
	}
	for _, s := range b.Standings {
		if _, ok := b.Competitions[s.CompetitionSourceID]; !ok {
			ids = append(ids, s.CompetitionSourceID)
		}
	}
	return ids
}

func (b *Bundle) teamSourceIDs() []int64 {
	ids := make([]int64, 0, len(b.Teams))
	for id := range b.Teams {
		ids = append(ids, id)
	}
	return ids
}

func (b *Bundle) playerSourceIDs() []int64 {
	ids := make([]int64, 0, len(b.Players))
	for id := range b.Players {
		ids = append(ids, id)
	}
	return ids
}

func (b *Bundle) managerSourceIDs() []int64 {
	ids := make([]int64, 0, len(b.Managers))
	for id := range b.Managers {
		ids = append(ids, id)
	}
	return ids
}

func (b *Bundle) matchSourceIDs() []int64 {
	ids := make([]int64, 0, len(b.Matches))
	for id := range b.Matches {
		ids = append(ids, id)
	}
	return ids
}
