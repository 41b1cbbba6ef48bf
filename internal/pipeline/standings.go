package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/matchpulse/matchpulse/internal/domain/standing"
	"github.com/matchpulse/matchpulse/internal/domain/team"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

// StandingsSource issues one standings probe. The payload is returned
// raw so acceptance can be judged on its shape.
type StandingsSource interface {
	StandingsVariant(ctx context.Context, path string) (map[string]any, error)
}

// standingsShapedKeys are the top-level keys that mark a payload as an
// actual league table rather than an empty or unrelated response.
var standingsShapedKeys = []string{"standings", "standingsTables", "tables"}

// StandingsDiscovery probes candidate table endpoints per observed
// (competition, season) pair, most specific variant first. Variants that
// come back empty are negative-cached for the process lifetime; six
// distinct negatives retire the pair for good.
type StandingsDiscovery struct {
	source StandingsSource
	cache  *StandingsCache
	logger *logging.Logger
}

func NewStandingsDiscovery(source StandingsSource, cache *StandingsCache, logger *logging.Logger) *StandingsDiscovery {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsDiscovery{source: source, cache: cache, logger: logger}
}

// Run discovers and parses standings for every pair the bundle observed,
// appending the rows to the bundle. Each pair is contacted at most once
// per run, through its accepted variant when one is already known.
func (d *StandingsDiscovery) Run(ctx context.Context, b *Bundle) {
	pairs := make([]CompetitionSeason, 0, len(b.Seasons))
	for _, pair := range b.Seasons {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].CompetitionSourceID != pairs[j].CompetitionSourceID {
			return pairs[i].CompetitionSourceID < pairs[j].CompetitionSourceID
		}
		return pairs[i].Season < pairs[j].Season
	})

	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return
		}
		d.discoverPair(ctx, b, pair)
	}

	// Payloads often repeat the same clubs across total/home/away tables.
	// The persistence layer issues one multi-row upsert per batch, so each
	// natural key must appear at most once; the first table listed wins.
	b.Standings = mergeKeyed(b.Standings,
		func(s standing.Standing) string {
			return fmt.Sprintf("%d|%s|%d", s.CompetitionSourceID, s.Season, s.TeamSourceID)
		},
		func(a, _ standing.Standing) standing.Standing { return a },
	)
}

func (d *StandingsDiscovery) discoverPair(ctx context.Context, b *Bundle, pair CompetitionSeason) {
	if path, ok := d.cache.AcceptedPath(pair.CompetitionSourceID, pair.Season); ok {
		payload, err := d.source.StandingsVariant(ctx, path)
		if err != nil || !isStandingsShaped(payload) {
			d.logger.Warn("accepted standings variant returned nothing",
				"competition_source_id", pair.CompetitionSourceID,
				"season", pair.Season,
				"path", path,
			)
			return
		}
		d.parsePayload(b, pair, payload)
		return
	}
	if d.cache.Exhausted(pair.CompetitionSourceID, pair.Season) {
		return
	}

	for _, path := range standingsVariants(pair) {
		if !d.cache.ShouldProbe(pair.CompetitionSourceID, pair.Season, path) {
			continue
		}
		payload, err := d.source.StandingsVariant(ctx, path)
		if err != nil || !isStandingsShaped(payload) {
			d.cache.RecordNegative(pair.CompetitionSourceID, pair.Season, path)
			continue
		}
		d.cache.RecordAccepted(pair.CompetitionSourceID, pair.Season, path)
		d.parsePayload(b, pair, payload)
		return
	}

	if d.cache.Exhausted(pair.CompetitionSourceID, pair.Season) {
		d.logger.Debug("standings probing retired for pair",
			"competition_source_id", pair.CompetitionSourceID,
			"season", pair.Season,
		)
	}
}

// standingsVariants lists candidate endpoints, season-qualified and most
// specific first. Season-qualified variants need the provider season id.
func standingsVariants(pair CompetitionSeason) []string {
	variants := make([]string, 0, 6)
	if pair.SeasonSourceID > 0 {
		variants = append(variants,
			fmt.Sprintf("/unique-tournament/%d/season/%d/standings/total", pair.CompetitionSourceID, pair.SeasonSourceID),
			fmt.Sprintf("/tournament/%d/season/%d/standings/total", pair.CompetitionSourceID, pair.SeasonSourceID),
			fmt.Sprintf("/unique-tournament/%d/season/%d/standings", pair.CompetitionSourceID, pair.SeasonSourceID),
		)
	}
	variants = append(variants,
		fmt.Sprintf("/unique-tournament/%d/standings/total", pair.CompetitionSourceID),
		fmt.Sprintf("/tournament/%d/standings/total", pair.CompetitionSourceID),
		fmt.Sprintf("/tournament/%d/standings", pair.CompetitionSourceID),
	)
	return variants
}

func isStandingsShaped(payload map[string]any) bool {
	if len(payload) == 0 {
		return false
	}
	for _, key := range standingsShapedKeys {
		if rows := getObjectList(payload, key); len(rows) > 0 {
			return true
		}
	}
	return false
}

func (d *StandingsDiscovery) parsePayload(b *Bundle, pair CompetitionSeason, payload map[string]any) {
	var tables []map[string]any
	for _, key := range standingsShapedKeys {
		if tables = getObjectList(payload, key); len(tables) > 0 {
			break
		}
	}

	parsed := 0
	for _, table := range tables {
		for _, row := range getObjectList(table, "rows", "standings") {
			teamObj := getObject(row, "team", "participant")
			teamSourceID := getInt64(teamObj, "id")
			if teamSourceID <= 0 {
				continue
			}
			b.AddTeam(teamFromStandingsRow(teamObj))
			b.Standings = append(b.Standings, standing.Standing{
				CompetitionSourceID: pair.CompetitionSourceID,
				Season:              pair.Season,
				TeamSourceID:        teamSourceID,
				Position:            getInt(row, "position", "rank"),
				Played:              getInt(row, "matches", "played"),
				Won:                 getInt(row, "wins", "won"),
				Draw:                getInt(row, "draws", "draw"),
				Lost:                getInt(row, "losses", "lost"),
				GoalsFor:            getInt(row, "scoresFor", "goalsFor"),
				GoalsAgainst:        getInt(row, "scoresAgainst", "goalsAgainst"),
				Points:              getInt(row, "points"),
				Form:                getString(row, "form"),
			})
			parsed++
		}
	}

	d.logger.Debug("standings parsed",
		"competition_source_id", pair.CompetitionSourceID,
		"season", pair.Season,
		"rows", parsed,
	)
}

// teamFromStandingsRow keeps table-only teams resolvable; the row may be
// the first time the batch has seen the club at all.
func teamFromStandingsRow(teamObj map[string]any) team.Team {
	t := team.Team{
		SourceID:  getInt64(teamObj, "id"),
		Name:      firstNonEmpty(getString(teamObj, "name"), getString(teamObj, "shortName")),
		ShortName: getString(teamObj, "shortName", "nameCode"),
	}
	if t.Name == "" {
		t.Name = fmt.Sprintf("Team #%d", t.SourceID)
		t.Placeholder = true
	}
	return t
}
