package pipeline

import (
	"context"
	"fmt"

	"github.com/matchpulse/matchpulse/internal/domain/lineup"
	"github.com/matchpulse/matchpulse/internal/domain/manager"
	"github.com/matchpulse/matchpulse/internal/domain/matchevent"
	"github.com/matchpulse/matchpulse/internal/domain/player"
	"github.com/matchpulse/matchpulse/internal/domain/shot"
	"github.com/matchpulse/matchpulse/internal/domain/stats"
	"github.com/matchpulse/matchpulse/internal/domain/team"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

// DetailFetcher issues the bounded secondary lookups used to fill missing
// entity attributes. The provider client satisfies it.
type DetailFetcher interface {
	PlayerProfile(ctx context.Context, playerID int64) (map[string]any, error)
	ManagerProfile(ctx context.Context, managerID int64) (map[string]any, error)
	TeamProfile(ctx context.Context, teamID int64) (map[string]any, error)
	PlayerEventStatistics(ctx context.Context, eventID, playerID int64) (map[string]any, error)
}

// Deduplicator folds repeated observations within a batch, enriches
// records still missing detail after the merge, and materializes
// placeholder entities for ids referenced only transitively.
type Deduplicator struct {
	details DetailFetcher
	logger  *logging.Logger
}

func NewDeduplicator(details DetailFetcher, logger *logging.Logger) *Deduplicator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Deduplicator{details: details, logger: logger}
}

func (d *Deduplicator) Run(ctx context.Context, b *Bundle) {
	d.mergeDependentRows(b)
	d.materializePlaceholders(b)
	if d.details != nil {
		d.enrichMissingDetail(ctx, b)
	}
}

func (d *Deduplicator) mergeDependentRows(b *Bundle) {
	b.LineupEntries = mergeKeyed(b.LineupEntries,
		func(e lineup.Entry) string {
			return fmt.Sprintf("%d|%d|%d", e.MatchSourceID, e.TeamSourceID, e.PlayerSourceID)
		},
		mergeLineupEntry,
	)
	b.Formations = mergeKeyed(b.Formations,
		func(f lineup.Formation) string { return fmt.Sprintf("%d|%d", f.MatchSourceID, f.TeamSourceID) },
		func(a, _ lineup.Formation) lineup.Formation { return a },
	)
	b.Events = mergeKeyed(b.Events,
		func(e matchevent.Event) string {
			return fmt.Sprintf("%d|%d|%s|%d|%d|%d", e.MatchSourceID, e.Minute, e.Type, e.PlayerSourceID, e.PlayerInSourceID, e.PlayerOutSourceID)
		},
		mergeEvent,
	)
	b.Shots = mergeKeyed(b.Shots,
		func(s shot.Shot) string {
			return fmt.Sprintf("%d|%d|%d", s.MatchSourceID, s.PlayerSourceID, s.SourceItemID)
		},
		mergeShot,
	)
	b.AveragePositions = mergeKeyed(b.AveragePositions,
		func(p shot.AveragePosition) string { return fmt.Sprintf("%d|%d", p.MatchSourceID, p.PlayerSourceID) },
		func(a, _ shot.AveragePosition) shot.AveragePosition { return a },
	)
	b.TeamStats = mergeKeyed(b.TeamStats,
		func(s stats.TeamMatchStat) string { return fmt.Sprintf("%d|%d", s.MatchSourceID, s.TeamSourceID) },
		mergeTeamStat,
	)
	b.PlayerStats = mergeKeyed(b.PlayerStats,
		func(s stats.PlayerMatchStat) string { return fmt.Sprintf("%d|%d", s.MatchSourceID, s.PlayerSourceID) },
		mergePlayerStat,
	)
	b.ManagerAssignments = mergeKeyed(b.ManagerAssignments,
		func(a manager.MatchAssignment) string {
			return fmt.Sprintf("%d|%d|%d|%s", a.MatchSourceID, a.ManagerSourceID, a.TeamSourceID, a.Side)
		},
		func(a, _ manager.MatchAssignment) manager.MatchAssignment { return a },
	)
}

// mergeKeyed folds slice items sharing a key, preserving first-encounter
// order.
func mergeKeyed[T any](items []T, keyFn func(T) string, mergeFn func(a, b T) T) []T {
	if len(items) < 2 {
		return items
	}

	out := make([]T, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		key := keyFn(item)
		if at, ok := index[key]; ok {
			out[at] = mergeFn(out[at], item)
			continue
		}
		index[key] = len(out)
		out = append(out, item)
	}
	return out
}

func mergeLineupEntry(a, b lineup.Entry) lineup.Entry {
	if a.Position == "" {
		a.Position = b.Position
	}
	if a.JerseyNumber == 0 {
		a.JerseyNumber = b.JerseyNumber
	}
	a.Starter = a.Starter || b.Starter
	a.Captain = a.Captain || b.Captain
	return a
}

func mergeEvent(a, b matchevent.Event) matchevent.Event {
	if a.TeamSourceID == 0 {
		a.TeamSourceID = b.TeamSourceID
	}
	if a.AssistPlayerSourceID == 0 {
		a.AssistPlayerSourceID = b.AssistPlayerSourceID
	}
	if a.HomeScore == nil {
		a.HomeScore = b.HomeScore
	}
	if a.AwayScore == nil {
		a.AwayScore = b.AwayScore
	}
	return a
}

func mergeShot(a, b shot.Shot) shot.Shot {
	if a.TeamSourceID == 0 {
		a.TeamSourceID = b.TeamSourceID
	}
	if a.AssistPlayerSourceID == 0 {
		a.AssistPlayerSourceID = b.AssistPlayerSourceID
	}
	if a.Minute == shot.MinuteUnknown {
		a.Minute = b.Minute
	}
	a.IsPenalty = a.IsPenalty || b.IsPenalty
	a.IsOwnGoal = a.IsOwnGoal || b.IsOwnGoal
	return a
}

func mergeTeamStat(a, b stats.TeamMatchStat) stats.TeamMatchStat {
	if a.PossessionPct == 0 {
		a.PossessionPct = b.PossessionPct
	}
	if a.Shots == 0 {
		a.Shots = b.Shots
	}
	if a.ShotsOnTarget == 0 {
		a.ShotsOnTarget = b.ShotsOnTarget
	}
	if a.Corners == 0 {
		a.Corners = b.Corners
	}
	if a.Fouls == 0 {
		a.Fouls = b.Fouls
	}
	if a.Offsides == 0 {
		a.Offsides = b.Offsides
	}
	if a.YellowCards == 0 {
		a.YellowCards = b.YellowCards
	}
	if a.RedCards == 0 {
		a.RedCards = b.RedCards
	}
	if a.Passes == 0 {
		a.Passes = b.Passes
	}
	if a.PassesAccurate == 0 {
		a.PassesAccurate = b.PassesAccurate
	}
	return a
}

func mergePlayerStat(a, b stats.PlayerMatchStat) stats.PlayerMatchStat {
	if a.TeamSourceID == 0 {
		a.TeamSourceID = b.TeamSourceID
	}
	if a.Goals == 0 {
		a.Goals = b.Goals
	}
	if a.Assists == 0 {
		a.Assists = b.Assists
	}
	if a.MinutesPlayed == 0 {
		a.MinutesPlayed = b.MinutesPlayed
	}
	if a.Rating == 0 {
		a.Rating = b.Rating
	}
	a.WasSubbedIn = a.WasSubbedIn || b.WasSubbedIn
	a.WasSubbedOut = a.WasSubbedOut || b.WasSubbedOut
	if a.SubMinute == matchevent.MinuteUnknown {
		a.SubMinute = b.SubMinute
	}
	return a
}

// materializePlaceholders guarantees every natural id referenced by a
// dependent row exists as at least a placeholder entity, so identity
// resolution never fails purely from an unseen reference.
func (d *Deduplicator) materializePlaceholders(b *Bundle) {
	teamIDs := make(map[int64]struct{})
	playerIDs := make(map[int64]struct{})

	addID := func(set map[int64]struct{}, id int64) {
		if id > 0 {
			set[id] = struct{}{}
		}
	}

	for _, m := range b.Matches {
		addID(teamIDs, m.HomeTeamSourceID)
		addID(teamIDs, m.AwayTeamSourceID)
	}
	for _, e := range b.LineupEntries {
		addID(teamIDs, e.TeamSourceID)
		addID(playerIDs, e.PlayerSourceID)
	}
	for _, f := range b.Formations {
		addID(teamIDs, f.TeamSourceID)
	}
	for _, e := range b.Events {
		addID(teamIDs, e.TeamSourceID)
		addID(playerIDs, e.PlayerSourceID)
		addID(playerIDs, e.AssistPlayerSourceID)
		addID(playerIDs, e.PlayerInSourceID)
		addID(playerIDs, e.PlayerOutSourceID)
	}
	for _, s := range b.Shots {
		addID(teamIDs, s.TeamSourceID)
		addID(playerIDs, s.PlayerSourceID)
		addID(playerIDs, s.AssistPlayerSourceID)
	}
	for _, p := range b.AveragePositions {
		addID(teamIDs, p.TeamSourceID)
		addID(playerIDs, p.PlayerSourceID)
	}
	for _, s := range b.TeamStats {
		addID(teamIDs, s.TeamSourceID)
	}
	for _, s := range b.PlayerStats {
		addID(teamIDs, s.TeamSourceID)
		addID(playerIDs, s.PlayerSourceID)
	}

	placeholders := 0
	for id := range teamIDs {
		if existing, ok := b.Teams[id]; ok {
			if existing.Name == "" {
				existing.Name = fmt.Sprintf("Team #%d", id)
				existing.Placeholder = true
				b.Teams[id] = existing
				placeholders++
			}
			continue
		}
		b.AddTeam(team.Team{
			SourceID:    id,
			Name:        fmt.Sprintf("Team #%d", id),
			Placeholder: true,
		})
		placeholders++
	}
	for id := range playerIDs {
		if existing, ok := b.Players[id]; ok {
			if existing.Name == "" {
				existing.Name = fmt.Sprintf("Player #%d", id)
				existing.Placeholder = true
				b.Players[id] = existing
				placeholders++
			}
			continue
		}
		b.AddPlayer(player.Player{
			SourceID:    id,
			Name:        fmt.Sprintf("Player #%d", id),
			Placeholder: true,
		})
		placeholders++
	}

	if placeholders > 0 {
		d.logger.Debug("placeholder entities materialized", "count", placeholders)
	}
}

// enrichMissingDetail issues at most one profile lookup per unique natural
// id still missing attributes after the merge. Failed lookups degrade to
// the merged record.
func (d *Deduplicator) enrichMissingDetail(ctx context.Context, b *Bundle) {
	for id, p := range b.Players {
		if !p.MissingDetail() || p.Placeholder {
			continue
		}
		profile, err := d.details.PlayerProfile(ctx, id)
		if err != nil {
			d.logger.Debug("player profile enrichment skipped", "player_source_id", id, "error", err)
			continue
		}
		b.AddPlayer(player.Player{
			SourceID:    id,
			Name:        getString(profile, "name", "shortName"),
			Nationality: getString(getObject(profile, "country"), "name"),
			HeightCM:    getInt(profile, "height"),
			DateOfBirth: timePtr(getTime(profile, "dateOfBirthTimestamp", "dateOfBirth")),
		})
	}

	for id, m := range b.Managers {
		if !m.MissingDetail() || m.Placeholder {
			continue
		}
		profile, err := d.details.ManagerProfile(ctx, id)
		if err != nil {
			d.logger.Debug("manager profile enrichment skipped", "manager_source_id", id, "error", err)
			continue
		}
		b.AddManager(manager.Manager{
			SourceID:    id,
			Name:        getString(profile, "name", "shortName"),
			Nationality: getString(getObject(profile, "country"), "name"),
			DateOfBirth: timePtr(getTime(profile, "dateOfBirthTimestamp", "dateOfBirth")),
		})
	}

	for id, t := range b.Teams {
		if !t.MissingDetail() || t.Placeholder {
			continue
		}
		profile, err := d.details.TeamProfile(ctx, id)
		if err != nil {
			d.logger.Debug("team profile enrichment skipped", "team_source_id", id, "error", err)
			continue
		}
		venueObj := getObject(profile, "venue")
		b.AddTeam(team.Team{
			SourceID: id,
			Name:     getString(profile, "name", "fullName"),
			Venue: firstNonEmpty(
				getString(getObject(venueObj, "stadium"), "name"),
				getString(venueObj, "name"),
			),
			Founded: getInt(profile, "foundationDateTimestamp", "founded"),
		})
	}

	for i := range b.PlayerStats {
		s := b.PlayerStats[i]
		if s.Rating != 0 || s.MinutesPlayed != 0 {
			continue
		}
		payload, err := d.details.PlayerEventStatistics(ctx, s.MatchSourceID, s.PlayerSourceID)
		if err != nil {
			d.logger.Debug("player statistics enrichment skipped",
				"match_source_id", s.MatchSourceID, "player_source_id", s.PlayerSourceID, "error", err)
			continue
		}
		detail := getObject(payload, "statistics")
		if len(detail) == 0 {
			detail = payload
		}
		if rating, ok := getFloat(detail, "rating"); ok {
			s.Rating = rating
		}
		s.MinutesPlayed = getInt(detail, "minutesPlayed", "minutes")
		if s.Goals == 0 {
			s.Goals = getInt(detail, "goals")
		}
		if s.Assists == 0 {
			s.Assists = getInt(detail, "goalAssist", "assists")
		}
		b.PlayerStats[i] = s
	}
}
