package pipeline

import (
	"strconv"
	"strings"

	"github.com/matchpulse/matchpulse/internal/domain/competition"
	"github.com/matchpulse/matchpulse/internal/domain/lineup"
	"github.com/matchpulse/matchpulse/internal/domain/manager"
	"github.com/matchpulse/matchpulse/internal/domain/match"
	"github.com/matchpulse/matchpulse/internal/domain/matchevent"
	"github.com/matchpulse/matchpulse/internal/domain/player"
	"github.com/matchpulse/matchpulse/internal/domain/shot"
	"github.com/matchpulse/matchpulse/internal/domain/stats"
	"github.com/matchpulse/matchpulse/internal/domain/team"
	"github.com/matchpulse/matchpulse/internal/platform/logging"
)

// Extractor turns one enriched event into typed entity records keyed by
// natural id. It is the only stage with provider-shape knowledge; every
// field goes through an ordered candidate-key chain.
type Extractor struct {
	canon  *Canonicalizer
	logger *logging.Logger
}

func NewExtractor(canon *Canonicalizer, logger *logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{canon: canon, logger: logger}
}

func (e *Extractor) ExtractEvent(b *Bundle, ev EnrichedEvent) {
	event := ev.Event
	if event == nil {
		return
	}

	eventID := pickID(ev.SourceEventID, getInt64(event, "id", "eventId", "event_id"))
	if eventID <= 0 {
		return
	}

	compSourceID, season := e.extractCompetition(b, event)
	homeTeamID, awayTeamID := e.extractTeams(b, event)
	e.extractMatch(b, event, eventID, compSourceID, season, homeTeamID, awayTeamID)
	e.extractLineups(b, ev.Lineups, eventID)
	e.extractIncidents(b, ev.Incidents, eventID, homeTeamID, awayTeamID)
	e.extractStatistics(b, ev.Statistics, eventID, homeTeamID, awayTeamID)
	e.extractShots(b, ev.ShotMap, eventID, homeTeamID, awayTeamID)
	e.extractAveragePositions(b, ev.AveragePositions, eventID, homeTeamID, awayTeamID)
	e.extractManagers(b, ev.Managers, eventID, homeTeamID, awayTeamID)
}

func (e *Extractor) extractCompetition(b *Bundle, event map[string]any) (int64, string) {
	tournament := getObject(event, "tournament", "competition", "league")
	unique := getObject(tournament, "uniqueTournament", "unique_tournament")

	compSourceID := pickID(getInt64(unique, "id"), getInt64(tournament, "id"))
	if compSourceID <= 0 {
		return 0, ""
	}

	category := getObject(tournament, "category", "country")
	b.AddCompetition(competition.Competition{
		SourceID: compSourceID,
		Name:     firstNonEmpty(getString(unique, "name"), getString(tournament, "name")),
		Country:  getString(category, "name"),
		Priority: getInt(tournament, "priority"),
		LogoURL:  firstNonEmpty(getString(unique, "logo"), getString(tournament, "logo")),
	})

	seasonObj := getObject(event, "season")
	season := firstNonEmpty(getString(seasonObj, "year"), getString(seasonObj, "name"))
	if season == "" {
		if year := getInt(seasonObj, "year"); year > 0 {
			season = strconv.Itoa(year)
		}
	}
	b.AddSeason(compSourceID, season, getInt64(seasonObj, "id"))
	return compSourceID, season
}

func (e *Extractor) extractTeams(b *Bundle, event map[string]any) (int64, int64) {
	home := e.extractTeam(b, getObject(event, "homeTeam", "home_team", "home"))
	away := e.extractTeam(b, getObject(event, "awayTeam", "away_team", "away"))
	return home, away
}

func (e *Extractor) extractTeam(b *Bundle, obj map[string]any) int64 {
	teamSourceID := getInt64(obj, "id", "teamId", "team_id")
	if teamSourceID <= 0 {
		return 0
	}

	colors := getObject(obj, "teamColors", "team_colors", "colors")
	venueObj := getObject(obj, "venue")
	venueName := firstNonEmpty(
		getString(venueObj, "name"),
		getString(getObject(venueObj, "stadium"), "name"),
	)

	b.AddTeam(team.Team{
		SourceID:       teamSourceID,
		Name:           getString(obj, "name", "fullName"),
		ShortName:      getString(obj, "shortName", "short_name", "nameCode"),
		PrimaryColor:   getString(colors, "primary"),
		SecondaryColor: getString(colors, "secondary"),
		Venue:          venueName,
		Founded:        getInt(obj, "foundationDateTimestamp", "founded"),
	})
	return teamSourceID
}

func (e *Extractor) extractMatch(b *Bundle, event map[string]any, eventID, compSourceID int64, season string, homeTeamID, awayTeamID int64) {
	statusObj := getObject(event, "status")
	rawStatus := firstNonEmpty(
		getString(statusObj, "type"),
		getString(statusObj, "description"),
		getString(event, "status"),
	)
	kickoffAt := getTime(event, "startTimestamp", "start_timestamp", "startTime", "kickoffAt")
	status := e.canon.CanonicalStatus(rawStatus, kickoffAt)

	minute := 0
	if match.IsInPlay(status) {
		minute = e.canon.EstimateMinute(status, kickoffAt)
	}

	homeScore := getIntPtr(getObject(event, "homeScore", "home_score"), "current", "display", "normaltime")
	awayScore := getIntPtr(getObject(event, "awayScore", "away_score"), "current", "display", "normaltime")

	venueObj := getObject(event, "venue")
	venueName := firstNonEmpty(
		getString(getObject(venueObj, "stadium"), "name"),
		getString(venueObj, "name"),
	)

	roundObj := getObject(event, "roundInfo", "round_info")
	round := getString(roundObj, "name")
	if round == "" {
		if n := getInt(roundObj, "round"); n > 0 {
			round = strconv.Itoa(n)
		}
	}

	b.AddMatch(match.Match{
		SourceEventID:       eventID,
		CompetitionSourceID: compSourceID,
		Season:              season,
		HomeTeamSourceID:    homeTeamID,
		AwayTeamSourceID:    awayTeamID,
		KickoffAt:           kickoffAt,
		Status:              status,
		Minute:              minute,
		HomeScore:           homeScore,
		AwayScore:           awayScore,
		Venue:               venueName,
		Round:               round,
	})
}

func (e *Extractor) extractLineups(b *Bundle, payload map[string]any, eventID int64) {
	if payload == nil {
		return
	}
	for _, side := range []string{"home", "away"} {
		sideObj := getObject(payload, side)
		if sideObj == nil {
			continue
		}

		teamSourceID := getInt64(getObject(sideObj, "team"), "id")
		if formation := getString(sideObj, "formation"); formation != "" && teamSourceID > 0 {
			b.Formations = append(b.Formations, lineup.Formation{
				MatchSourceID: eventID,
				TeamSourceID:  teamSourceID,
				Formation:     formation,
			})
		}

		for _, item := range getObjectList(sideObj, "players") {
			playerObj := getObject(item, "player")
			playerSourceID := pickID(getInt64(playerObj, "id"), getInt64(item, "playerId", "player_id"))
			if playerSourceID <= 0 {
				continue
			}

			b.AddPlayer(player.Player{
				SourceID:    playerSourceID,
				Name:        getString(playerObj, "name", "shortName"),
				Nationality: getString(getObject(playerObj, "country"), "name"),
				HeightCM:    getInt(playerObj, "height"),
				DateOfBirth: timePtr(getTime(playerObj, "dateOfBirthTimestamp", "dateOfBirth")),
			})

			entryTeamID := pickID(teamSourceID, getInt64(item, "teamId", "team_id"))
			b.LineupEntries = append(b.LineupEntries, lineup.Entry{
				MatchSourceID:  eventID,
				TeamSourceID:   entryTeamID,
				PlayerSourceID: playerSourceID,
				Position:       getString(item, "position", "formationPlace"),
				JerseyNumber:   getInt(item, "jerseyNumber", "shirtNumber", "jersey_number"),
				Starter:        !getBool(item, "substitute"),
				Captain:        getBool(item, "captain"),
			})

			statistics := getObject(item, "statistics")
			if statistics == nil {
				continue
			}
			rating, _ := getFloat(statistics, "rating")
			b.PlayerStats = append(b.PlayerStats, stats.PlayerMatchStat{
				MatchSourceID:  eventID,
				PlayerSourceID: playerSourceID,
				TeamSourceID:   entryTeamID,
				Goals:          getInt(statistics, "goals"),
				Assists:        getInt(statistics, "goalAssist", "assists"),
				MinutesPlayed:  getInt(statistics, "minutesPlayed", "minutes_played"),
				Rating:         rating,
				SubMinute:      matchevent.MinuteUnknown,
			})
		}
	}
}

func (e *Extractor) extractIncidents(b *Bundle, incidents []map[string]any, eventID, homeTeamID, awayTeamID int64) {
	for _, item := range incidents {
		kind := incidentKind(item)
		if kind == matchevent.TypePeriod || kind == matchevent.TypeInjuryTime || kind == matchevent.TypeVAR {
			continue
		}

		minute := matchevent.MinuteUnknown
		if m := getIntPtr(item, "time", "minute"); m != nil {
			minute = *m
		}

		teamSourceID := incidentTeamID(item, homeTeamID, awayTeamID)

		out := matchevent.Event{
			MatchSourceID: eventID,
			Minute:        minute,
			Type:          kind,
			TeamSourceID:  teamSourceID,
			HomeScore:     getIntPtr(item, "homeScore", "home_score"),
			AwayScore:     getIntPtr(item, "awayScore", "away_score"),
		}

		switch kind {
		case matchevent.TypeSubstitution:
			playerIn := getObject(item, "playerIn", "player_in", "in")
			playerOut := getObject(item, "playerOut", "player_out", "out")
			out.PlayerInSourceID = getInt64(playerIn, "id")
			out.PlayerOutSourceID = getInt64(playerOut, "id")
			if out.PlayerInSourceID <= 0 && out.PlayerOutSourceID <= 0 {
				continue
			}
			e.addIncidentPlayer(b, playerIn)
			e.addIncidentPlayer(b, playerOut)
			e.recordSubstitution(b, eventID, teamSourceID, out.PlayerInSourceID, out.PlayerOutSourceID, minute)
		default:
			playerObj := getObject(item, "player")
			out.PlayerSourceID = getInt64(playerObj, "id")
			if out.PlayerSourceID <= 0 {
				continue
			}
			e.addIncidentPlayer(b, playerObj)

			assistObj := getObject(item, "assist1", "assist", "goalAssist")
			out.AssistPlayerSourceID = getInt64(assistObj, "id")
			if out.AssistPlayerSourceID > 0 {
				e.addIncidentPlayer(b, assistObj)
			}
		}

		b.Events = append(b.Events, out)
	}
}

func (e *Extractor) addIncidentPlayer(b *Bundle, obj map[string]any) {
	id := getInt64(obj, "id")
	if id <= 0 {
		return
	}
	b.AddPlayer(player.Player{
		SourceID: id,
		Name:     getString(obj, "name", "shortName"),
	})
}

// recordSubstitution emits PlayerStat fragments carrying the substitution
// flags; the dedupe stage folds them into the lineup-derived rows.
func (e *Extractor) recordSubstitution(b *Bundle, eventID, teamSourceID, playerIn, playerOut int64, minute int) {
	if playerIn > 0 {
		b.PlayerStats = append(b.PlayerStats, stats.PlayerMatchStat{
			MatchSourceID:  eventID,
			PlayerSourceID: playerIn,
			TeamSourceID:   teamSourceID,
			WasSubbedIn:    true,
			SubMinute:      minute,
		})
	}
	if playerOut > 0 {
		b.PlayerStats = append(b.PlayerStats, stats.PlayerMatchStat{
			MatchSourceID:  eventID,
			PlayerSourceID: playerOut,
			TeamSourceID:   teamSourceID,
			WasSubbedOut:   true,
			SubMinute:      minute,
		})
	}
}

func incidentKind(item map[string]any) string {
	kind := strings.ToLower(getString(item, "incidentType", "incident_type", "type"))
	class := strings.ToLower(getString(item, "incidentClass", "incident_class", "subtype"))

	switch kind {
	case "goal":
		switch class {
		case "owngoal", "own goal", "own_goal":
			return matchevent.TypeOwnGoal
		case "penalty":
			return matchevent.TypePenaltyGoal
		default:
			return matchevent.TypeGoal
		}
	case "ingamepenalty", "penaltymissed":
		return matchevent.TypeMissedPen
	case "card", "yellowcard", "redcard":
		switch class {
		case "yellow":
			return matchevent.TypeYellowCard
		case "yellowred", "yellow-red":
			return matchevent.TypeYellowRed
		case "red":
			return matchevent.TypeRedCard
		default:
			if kind == "redcard" {
				return matchevent.TypeRedCard
			}
			return matchevent.TypeYellowCard
		}
	case "substitution":
		return matchevent.TypeSubstitution
	case "period":
		return matchevent.TypePeriod
	case "injurytime", "injury_time":
		return matchevent.TypeInjuryTime
	case "vardecision", "var":
		return matchevent.TypeVAR
	default:
		return matchevent.TypeUnknown
	}
}

func incidentTeamID(item map[string]any, homeTeamID, awayTeamID int64) int64 {
	if id := getInt64(getObject(item, "team"), "id"); id > 0 {
		return id
	}
	if raw, ok := item["isHome"]; ok {
		if isHome, ok := raw.(bool); ok {
			if isHome {
				return homeTeamID
			}
			return awayTeamID
		}
	}
	return 0
}

var teamStatSetters = map[string]func(*stats.TeamMatchStat, float64){
	"ball possession":   func(s *stats.TeamMatchStat, v float64) { s.PossessionPct = v },
	"possession":        func(s *stats.TeamMatchStat, v float64) { s.PossessionPct = v },
	"total shots":       func(s *stats.TeamMatchStat, v float64) { s.Shots = int(v) },
	"shots":             func(s *stats.TeamMatchStat, v float64) { s.Shots = int(v) },
	"shots on target":   func(s *stats.TeamMatchStat, v float64) { s.ShotsOnTarget = int(v) },
	"corner kicks":      func(s *stats.TeamMatchStat, v float64) { s.Corners = int(v) },
	"corners":           func(s *stats.TeamMatchStat, v float64) { s.Corners = int(v) },
	"fouls":             func(s *stats.TeamMatchStat, v float64) { s.Fouls = int(v) },
	"offsides":          func(s *stats.TeamMatchStat, v float64) { s.Offsides = int(v) },
	"yellow cards":      func(s *stats.TeamMatchStat, v float64) { s.YellowCards = int(v) },
	"red cards":         func(s *stats.TeamMatchStat, v float64) { s.RedCards = int(v) },
	"passes":            func(s *stats.TeamMatchStat, v float64) { s.Passes = int(v) },
	"total passes":      func(s *stats.TeamMatchStat, v float64) { s.Passes = int(v) },
	"accurate passes":   func(s *stats.TeamMatchStat, v float64) { s.PassesAccurate = int(v) },
	"passes successful": func(s *stats.TeamMatchStat, v float64) { s.PassesAccurate = int(v) },
}

func (e *Extractor) extractStatistics(b *Bundle, payload map[string]any, eventID, homeTeamID, awayTeamID int64) {
	if payload == nil || homeTeamID <= 0 || awayTeamID <= 0 {
		return
	}

	homeStat := stats.TeamMatchStat{MatchSourceID: eventID, TeamSourceID: homeTeamID}
	awayStat := stats.TeamMatchStat{MatchSourceID: eventID, TeamSourceID: awayTeamID}
	seen := false

	for _, period := range getObjectList(payload, "statistics", "data") {
		if name := getString(period, "period"); name != "" && !strings.EqualFold(name, "all") {
			continue
		}
		for _, group := range getObjectList(period, "groups") {
			for _, item := range getObjectList(group, "statisticsItems", "statistics_items", "items") {
				setter, ok := teamStatSetters[strings.ToLower(getString(item, "name"))]
				if !ok {
					continue
				}
				if v, ok := getFloat(item, "homeValue", "home"); ok {
					setter(&homeStat, v)
					seen = true
				}
				if v, ok := getFloat(item, "awayValue", "away"); ok {
					setter(&awayStat, v)
					seen = true
				}
			}
		}
	}

	if seen {
		b.TeamStats = append(b.TeamStats, homeStat, awayStat)
	}
}

func (e *Extractor) extractShots(b *Bundle, shotMap []map[string]any, eventID, homeTeamID, awayTeamID int64) {
	for _, item := range shotMap {
		playerObj := getObject(item, "player")
		playerSourceID := pickID(getInt64(playerObj, "id"), getInt64(item, "playerId", "player_id"))
		if playerSourceID <= 0 {
			continue
		}

		x, okX := shotCoordinate(item, "x")
		y, okY := shotCoordinate(item, "y")
		if !okX || !okY {
			e.logger.Debug("shot dropped for missing coordinates",
				"event_id", eventID,
				"player_source_id", playerSourceID,
			)
			continue
		}

		e.addIncidentPlayer(b, playerObj)

		minute := shot.MinuteUnknown
		if m := getIntPtr(item, "time", "minute"); m != nil {
			minute = *m
		}

		teamSourceID := incidentTeamID(item, homeTeamID, awayTeamID)
		situation := strings.ToLower(getString(item, "situation"))
		outcome := NormalizeShotOutcome(firstNonEmpty(
			getString(item, "shotType", "shot_type"),
			getString(item, "outcome"),
		))
		isOwnGoal := getBool(item, "isOwnGoal", "is_own_goal") || outcome == shot.OutcomeOwnGoal
		if isOwnGoal {
			outcome = shot.OutcomeOwnGoal
		}

		assistObj := getObject(item, "goalAssist", "assist", "assist1")

		b.Shots = append(b.Shots, shot.Shot{
			MatchSourceID:        eventID,
			PlayerSourceID:       playerSourceID,
			SourceItemID:         getInt64(item, "id", "shotId"),
			TeamSourceID:         teamSourceID,
			Minute:               minute,
			X:                    x,
			Y:                    y,
			Outcome:              outcome,
			AssistPlayerSourceID: getInt64(assistObj, "id"),
			IsPenalty:            situation == "penalty" || getBool(item, "isPenalty"),
			IsOwnGoal:            isOwnGoal,
		})
	}
}

func shotCoordinate(item map[string]any, axis string) (float64, bool) {
	if v, ok := getFloat(item, axis); ok {
		return v, true
	}
	if v, ok := getFloat(getObject(item, "playerCoordinates", "player_coordinates"), axis); ok {
		return v, true
	}
	if v, ok := getFloat(getObject(item, "position"), axis); ok {
		return v, true
	}
	return 0, false
}

func (e *Extractor) extractAveragePositions(b *Bundle, payload map[string]any, eventID, homeTeamID, awayTeamID int64) {
	if payload == nil {
		return
	}
	sides := []struct {
		key    string
		teamID int64
	}{
		{"home", homeTeamID},
		{"away", awayTeamID},
	}
	for _, side := range sides {
		for _, item := range getObjectList(payload, side.key) {
			playerSourceID := getInt64(getObject(item, "player"), "id")
			if playerSourceID <= 0 {
				continue
			}
			avgX, okX := getFloat(item, "averageX", "average_x", "x")
			avgY, okY := getFloat(item, "averageY", "average_y", "y")
			if !okX || !okY {
				continue
			}
			e.addIncidentPlayer(b, getObject(item, "player"))
			b.AveragePositions = append(b.AveragePositions, shot.AveragePosition{
				MatchSourceID:  eventID,
				PlayerSourceID: playerSourceID,
				TeamSourceID:   side.teamID,
				AvgX:           avgX,
				AvgY:           avgY,
			})
		}
	}
}

func (e *Extractor) extractManagers(b *Bundle, payload map[string]any, eventID, homeTeamID, awayTeamID int64) {
	if payload == nil {
		return
	}
	sides := []struct {
		key    string
		teamID int64
		side   string
	}{
		{"homeManager", homeTeamID, manager.SideHome},
		{"awayManager", awayTeamID, manager.SideAway},
	}
	for _, s := range sides {
		obj := getObject(payload, s.key)
		managerSourceID := getInt64(obj, "id")
		if managerSourceID <= 0 {
			continue
		}
		b.AddManager(manager.Manager{
			SourceID:     managerSourceID,
			Name:         getString(obj, "name", "shortName"),
			Nationality:  getString(getObject(obj, "country"), "name"),
			DateOfBirth:  timePtr(getTime(obj, "dateOfBirthTimestamp", "dateOfBirth")),
			TeamSourceID: s.teamID,
		})
		b.ManagerAssignments = append(b.ManagerAssignments, manager.MatchAssignment{
			MatchSourceID:   eventID,
			ManagerSourceID: managerSourceID,
			TeamSourceID:    s.teamID,
			Side:            s.side,
		})
	}
}
