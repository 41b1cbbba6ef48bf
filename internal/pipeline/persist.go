package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

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
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

// Repositories groups the persistence backends the orchestrator writes to.
type Repositories struct {
	Competitions competition.Repository
	Teams        team.Repository
	Players      player.Repository
	Managers     manager.Repository
	Matches      match.Repository
	Lineups      lineup.Repository
	Events       matchevent.Repository
	Shots        shot.Repository
	Stats        stats.Repository
	Standings    standing.Repository
}

// PersistReport counts stored rows per kind for one batch.
type PersistReport struct {
	Competitions     int
	Teams            int
	Players          int
	Managers         int
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
	Snapshots        int
	Failed           int
	Drops            DropCounts
}

// Persister executes the topological persistence order: competitions and
// teams, then players and managers, then matches, then every dependent
// row kind. Upserts are keyed by natural key and idempotent; rows whose
// references never resolve are dropped and counted.
type Persister struct {
	repos    Repositories
	resolver *Resolver
	logger   *logging.Logger
	now      func() time.Time
}

func NewPersister(repos Repositories, resolver *Resolver, logger *logging.Logger) *Persister {
	if logger == nil {
		logger = logging.Default()
	}
	return &Persister{
		repos:    repos,
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

func (p *Persister) Run(ctx context.Context, b *Bundle) (PersistReport, error) {
	var report PersistReport

	stored, failed, err := p.repos.Competitions.UpsertMany(ctx, b.competitionsSorted())
	report.Competitions, report.Failed = stored, report.Failed+failed
	if err != nil {
		return report, fmt.Errorf("upsert competitions: %w", err)
	}

	stored, failed, err = p.repos.Teams.UpsertMany(ctx, b.teamsSorted())
	report.Teams, report.Failed = stored, report.Failed+failed
	if err != nil {
		return report, fmt.Errorf("upsert teams: %w", err)
	}

	compIDs, err := p.resolver.ResolveKind(ctx, kindCompetition, p.repos.Competitions, b.Source, b.competitionSourceIDs())
	if err != nil {
		return report, fmt.Errorf("resolve competition ids: %w", err)
	}
	teamIDs, err := p.resolver.ResolveKind(ctx, kindTeam, p.repos.Teams, b.Source, b.teamSourceIDs())
	if err != nil {
		return report, fmt.Errorf("resolve team ids: %w", err)
	}
	p.resolver.ApplyPrimaryKeys(b, compIDs, teamIDs, &report.Drops)

	stored, failed, err = p.repos.Players.UpsertMany(ctx, b.playersSorted())
	report.Players, report.Failed = stored, report.Failed+failed
	if err != nil {
		return report, fmt.Errorf("upsert players: %w", err)
	}
	stored, failed, err = p.repos.Managers.UpsertMany(ctx, b.managersSorted())
	report.Managers, report.Failed = stored, report.Failed+failed
	if err != nil {
		return report, fmt.Errorf("upsert managers: %w", err)
	}

	playerIDs, err := p.resolver.ResolveKind(ctx, kindPlayer, p.repos.Players, b.Source, b.playerSourceIDs())
	if err != nil {
		return report, fmt.Errorf("resolve player ids: %w", err)
	}
	managerIDs, err := p.resolver.ResolveKind(ctx, kindManager, p.repos.Managers, b.Source, b.managerSourceIDs())
	if err != nil {
		return report, fmt.Errorf("resolve manager ids: %w", err)
	}

	matches := b.matchesSorted()
	stored, failed, err = p.repos.Matches.UpsertMany(ctx, matches)
	report.Matches, report.Failed = stored, report.Failed+failed
	if err != nil {
		return report, fmt.Errorf("upsert matches: %w", err)
	}

	matchIDs, err := p.resolver.ResolveKind(ctx, kindMatch, p.repos.Matches, b.Source, b.matchSourceIDs())
	if err != nil {
		return report, fmt.Errorf("resolve match ids: %w", err)
	}

	report.Snapshots = p.recordSnapshots(ctx, matches, matchIDs)

	p.resolver.ApplyMatchKeys(b, matchIDs, compIDs, teamIDs, playerIDs, managerIDs, &report.Drops)

	if err := p.persistDependents(ctx, b, &report); err != nil {
		return report, err
	}

	p.logger.InfoContext(ctx, "batch persisted",
		"matches", report.Matches,
		"teams", report.Teams,
		"players", report.Players,
		"events", report.Events,
		"shots", report.Shots,
		"standings", report.Standings,
		"dropped", report.Drops.Total(),
		"failed", report.Failed,
	)
	return report, nil
}

// recordSnapshots appends one state observation per committed match and
// reconciles the canonical score against the newest snapshot. A snapshot
// failure only loses that match's observation.
func (p *Persister) recordSnapshots(ctx context.Context, matches []match.Match, matchIDs map[int64]int64) int {
	recorded := 0
	asOf := p.now().UTC()
	for _, m := range matches {
		matchID := matchIDs[m.SourceEventID]
		if matchID <= 0 {
			continue
		}
		snap := match.StateSnapshot{
			MatchID:   matchID,
			Status:    m.Status,
			Minute:    m.Minute,
			HomeScore: m.HomeScore,
			AwayScore: m.AwayScore,
			AsOf:      asOf,
		}
		if err := p.repos.Matches.RecordStateSnapshot(ctx, snap); err != nil {
			p.logger.WarnContext(ctx, "state snapshot not recorded",
				"match_id", matchID,
				"error", err.Error(),
			)
			continue
		}
		recorded++
		if err := p.repos.Matches.ReconcileScore(ctx, matchID); err != nil {
			p.logger.WarnContext(ctx, "score reconciliation failed",
				"match_id", matchID,
				"error", err.Error(),
			)
		}
	}
	return recorded
}

func (p *Persister) persistDependents(ctx context.Context, b *Bundle, report *PersistReport) error {
	var stored, failed int
	var err error

	stored, failed, err = p.repos.Lineups.UpsertEntries(ctx, b.LineupEntries)
	report.LineupEntries, report.Failed = stored, report.Failed+failed
	if err != nil {
		return fmt.Errorf("upsert lineup entries: %w", err)
	}

	stored, failed, err = p.repos.Lineups.UpsertFormations(ctx, b.Formations)
	report.Formations, report.Failed = stored, report.Failed+failed
	if err != nil {
		return fmt.Errorf("upsert formations: %w", err)
	}

	stored, failed, err = p.repos.Events.UpsertMany(ctx, b.Events)
	report.Events, report.Failed = stored, report.Failed+failed
	if err != nil {
		return fmt.Errorf("upsert match events: %w", err)
	}

	stored, failed, err = p.repos.Shots.UpsertMany(ctx, b.Shots)
	report.Shots, report.Failed = stored, report.Failed+failed
	if err != nil {
		return fmt.Errorf("upsert shots: %w", err)
	}

	stored, failed, err = p.repos.Shots.UpsertAveragePositions(ctx, b.AveragePositions)
	report.AveragePositions, report.Failed = stored, report.Failed+failed
	if err != nil {
		return fmt.Errorf("upsert average positions: %w", err)
	}

	stored, failed, err = p.repos.Stats.UpsertTeamStats(ctx, b.TeamStats)
	report.TeamStats, report.Failed = stored, report.Failed+failed
	if err != nil {
		return fmt.Errorf("upsert team stats: %w", err)
	}

	stored, failed, err = p.repos.Stats.UpsertPlayerStats(ctx, b.PlayerStats)
	report.PlayerStats, report.Failed = stored, report.Failed+failed
	if err != nil {
		return fmt.Errorf("upsert player stats: %w", err)
	}

	stored, failed, err = p.repos.Managers.UpsertAssignments(ctx, b.ManagerAssignments)
	report.Assignments, report.Failed = stored, report.Failed+failed
	if err != nil {
		return fmt.Errorf("upsert manager assignments: %w", err)
	}

	stored, failed, err = p.repos.Standings.UpsertMany(ctx, b.Standings)
	report.Standings, report.Failed = stored, report.Failed+failed
	if err != nil {
		return fmt.Errorf("upsert standings: %w", err)
	}
	return nil
}

// Deterministic slice views over the bundle maps.

func (b *Bundle) competitionsSorted() []competition.Competition {
	rows := make([]competition.Competition, 0, len(b.Competitions))
	for _, c := range b.Competitions {
		rows = append(rows, c)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SourceID < rows[j].SourceID })
	return rows
}

func (b *Bundle) teamsSorted() []team.Team {
	rows := make([]team.Team, 0, len(b.Teams))
	for _, t := range b.Teams {
		rows = append(rows, t)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SourceID < rows[j].SourceID })
	return rows
}

func (b *Bundle) playersSorted() []player.Player {
	rows := make([]player.Player, 0, len(b.Players))
	for _, p := range b.Players {
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SourceID < rows[j].SourceID })
	return rows
}

func (b *Bundle) managersSorted() []manager.Manager {
	rows := make([]manager.Manager, 0, len(b.Managers))
	for _, m := range b.Managers {
		rows = append(rows, m)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SourceID < rows[j].SourceID })
	return rows
}

func (b *Bundle) matchesSorted() []match.Match {
	rows := make([]match.Match, 0, len(b.Matches))
	for _, m := range b.Matches {
		rows = append(rows, m)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SourceEventID < rows[j].SourceEventID })
	return rows
}
