package pipeline

import (
	"github.com/matchpulse/matchpulse/internal/domain/competition"
	"github.com/matchpulse/matchpulse/internal/domain/lineup"
	"github.com/matchpulse/matchpulse/internal/domain/manager"
	"github.com/matchpulse/matchpulse/internal/domain/match"
	"github.com/matchpulse/matchpulse/internal/domain/matchevent"
	"github.com/matchpulse/matchpulse/internal/domain/player"
	"github.com/matchpulse/matchpulse/internal/domain/shot"
	"github.com/matchpulse/matchpulse/internal/domain/standing"
	"github.com/matchpulse/matchpulse/internal/domain/stats"
	"github.com/matchpulse/matchpulse/internal/domain/team"
)

// EnrichedEvent is one schedule entry with every sub-resource the fetcher
// could obtain. An absent field means the fetch failed or the provider has
// nothing; extraction treats both the same way.
type EnrichedEvent struct {
	SourceEventID    int64
	Event            map[string]any
	Lineups          map[string]any
	Incidents        []map[string]any
	Statistics       map[string]any
	ShotMap          []map[string]any
	AveragePositions map[string]any
	Managers         map[string]any
}

// Bundle accumulates every entity record extracted from one batch. It lives
// from extraction through persistence and is discarded afterwards; nothing
// in it survives across runs.
type Bundle struct {
	Source string

	Competitions map[int64]competition.Competition
	Teams        map[int64]team.Team
	Players      map[int64]player.Player
	Managers     map[int64]manager.Manager
	Matches      map[int64]match.Match

	Seasons map[string]CompetitionSeason

	LineupEntries      []lineup.Entry
	Formations         []lineup.Formation
	Events             []matchevent.Event
	Shots              []shot.Shot
	AveragePositions   []shot.AveragePosition
	TeamStats          []stats.TeamMatchStat
	PlayerStats        []stats.PlayerMatchStat
	ManagerAssignments []manager.MatchAssignment
	Standings          []standing.Standing
}

func NewBundle(source string) *Bundle {
	return &Bundle{
		Source:       source,
		Competitions: make(map[int64]competition.Competition),
		Teams:        make(map[int64]team.Team),
		Players:      make(map[int64]player.Player),
		Managers:     make(map[int64]manager.Manager),
		Matches:      make(map[int64]match.Match),
		Seasons:      make(map[string]CompetitionSeason),
	}
}

// CompetitionSeason is one observed (competition, season) pair, carrying
// the provider's season id when the payload exposed one. Standings
// discovery probes each pair at most once per run.
type CompetitionSeason struct {
	CompetitionSourceID int64
	Season              string
	SeasonSourceID      int64
}

func (b *Bundle) AddSeason(competitionSourceID int64, season string, seasonSourceID int64) {
	if competitionSourceID <= 0 || season == "" {
		return
	}
	key := standingsPairKey(competitionSourceID, season)
	existing, ok := b.Seasons[key]
	if !ok {
		b.Seasons[key] = CompetitionSeason{
			CompetitionSourceID: competitionSourceID,
			Season:              season,
			SeasonSourceID:      seasonSourceID,
		}
		return
	}
	if existing.SeasonSourceID == 0 {
		existing.SeasonSourceID = seasonSourceID
		b.Seasons[key] = existing
	}
}

// Merge-upsert helpers. Repeated observations of the same natural key fold
// together with non-empty fields winning and first-seen kept on ties.

func (b *Bundle) AddCompetition(in competition.Competition) {
	if in.SourceID <= 0 {
		return
	}
	in.Source = b.Source
	if existing, ok := b.Competitions[in.SourceID]; ok {
		b.Competitions[in.SourceID] = existing.Merge(in)
		return
	}
	b.Competitions[in.SourceID] = in
}

func (b *Bundle) AddTeam(in team.Team) {
	if in.SourceID <= 0 {
		return
	}
	in.Source = b.Source
	if existing, ok := b.Teams[in.SourceID]; ok {
		b.Teams[in.SourceID] = existing.Merge(in)
		return
	}
	b.Teams[in.SourceID] = in
}

func (b *Bundle) AddPlayer(in player.Player) {
	if in.SourceID <= 0 {
		return
	}
	in.Source = b.Source
	if existing, ok := b.Players[in.SourceID]; ok {
		b.Players[in.SourceID] = existing.Merge(in)
		return
	}
	b.Players[in.SourceID] = in
}

func (b *Bundle) AddManager(in manager.Manager) {
	if in.SourceID <= 0 {
		return
	}
	in.Source = b.Source
	if existing, ok := b.Managers[in.SourceID]; ok {
		b.Managers[in.SourceID] = existing.Merge(in)
		return
	}
	b.Managers[in.SourceID] = in
}

func (b *Bundle) AddMatch(in match.Match) {
	if in.SourceEventID <= 0 {
		return
	}
	in.Source = b.Source
	if existing, ok := b.Matches[in.SourceEventID]; ok {
		b.Matches[in.SourceEventID] = existing.Merge(in)
		return
	}
	b.Matches[in.SourceEventID] = in
}
