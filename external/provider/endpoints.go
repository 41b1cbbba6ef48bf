package provider

import (
	"context"
	"fmt"
	"time"
)

// DaySchedule returns the raw event objects scheduled for one calendar day.
func (c *Client) DaySchedule(ctx context.Context, day time.Time) ([]map[string]any, error) {
	path := fmt.Sprintf("/sport/football/scheduled-events/%s", day.UTC().Format("2006-01-02"))
	payload, err := c.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	return objectList(payload, "events", "data"), nil
}

func (c *Client) EventDetail(ctx context.Context, eventID int64) (map[string]any, error) {
	payload, err := c.Fetch(ctx, fmt.Sprintf("/event/%d", eventID))
	if err != nil {
		return nil, err
	}
	if event := objectField(payload, "event"); event != nil {
		return event, nil
	}
	return payload, nil
}

func (c *Client) EventLineups(ctx context.Context, eventID int64) (map[string]any, error) {
	return c.Fetch(ctx, fmt.Sprintf("/event/%d/lineups", eventID))
}

func (c *Client) EventIncidents(ctx context.Context, eventID int64) ([]map[string]any, error) {
	payload, err := c.Fetch(ctx, fmt.Sprintf("/event/%d/incidents", eventID))
	if err != nil {
		return nil, err
	}
	return objectList(payload, "incidents", "data"), nil
}

func (c *Client) EventStatistics(ctx context.Context, eventID int64) (map[string]any, error) {
	return c.Fetch(ctx, fmt.Sprintf("/event/%d/statistics", eventID))
}

func (c *Client) EventShotMap(ctx context.Context, eventID int64) ([]map[string]any, error) {
	payload, err := c.Fetch(ctx, fmt.Sprintf("/event/%d/shotmap", eventID))
	if err != nil {
		return nil, err
	}
	return objectList(payload, "shotmap", "shots", "data"), nil
}

func (c *Client) EventAveragePositions(ctx context.Context, eventID int64) (map[string]any, error) {
	return c.Fetch(ctx, fmt.Sprintf("/event/%d/average-positions", eventID))
}

func (c *Client) EventManagers(ctx context.Context, eventID int64) (map[string]any, error) {
	return c.Fetch(ctx, fmt.Sprintf("/event/%d/managers", eventID))
}

func (c *Client) PlayerEventStatistics(ctx context.Context, eventID, playerID int64) (map[string]any, error) {
	return c.Fetch(ctx, fmt.Sprintf("/event/%d/player/%d/statistics", eventID, playerID))
}

// PlayerProfile is memoized for the detail-cache TTL so repeated enrichment
// of the same player across runs stays off the network.
func (c *Client) PlayerProfile(ctx context.Context, playerID int64) (map[string]any, error) {
	return c.cachedProfile(ctx, fmt.Sprintf("player:%d", playerID), fmt.Sprintf("/player/%d", playerID), "player")
}

func (c *Client) ManagerProfile(ctx context.Context, managerID int64) (map[string]any, error) {
	return c.cachedProfile(ctx, fmt.Sprintf("manager:%d", managerID), fmt.Sprintf("/manager/%d", managerID), "manager")
}

func (c *Client) TeamProfile(ctx context.Context, teamID int64) (map[string]any, error) {
	return c.cachedProfile(ctx, fmt.Sprintf("team:%d", teamID), fmt.Sprintf("/team/%d", teamID), "team")
}

// StandingsVariant probes one candidate standings path. The caller decides
// whether the payload is standings-shaped.
func (c *Client) StandingsVariant(ctx context.Context, path string) (map[string]any, error) {
	return c.Fetch(ctx, path)
}

func (c *Client) cachedProfile(ctx context.Context, cacheKey, path, field string) (map[string]any, error) {
	out, err := c.profiles.GetOrLoad(ctx, cacheKey, func(ctx context.Context) (any, error) {
		payload, fetchErr := c.Fetch(ctx, path)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if nested := objectField(payload, field); nested != nil {
			return nested, nil
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}

	profile, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected cached profile type %T", out)
	}
	return profile, nil
}

func objectField(src map[string]any, key string) map[string]any {
	if src == nil {
		return nil
	}
	obj, ok := src[key].(map[string]any)
	if !ok {
		return nil
	}
	return obj
}

func objectList(src map[string]any, keys ...string) []map[string]any {
	if src == nil {
		return nil
	}
	for _, key := range keys {
		raw, ok := src[key].([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(raw))
		for _, item := range raw {
			if obj, ok := item.(map[string]any); ok {
				out = append(out, obj)
			}
		}
		return out
	}
	return nil
}
