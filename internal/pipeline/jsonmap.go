package pipeline

import (
	"strconv"
	"strings"
	"time"
)

// Candidate-key helpers over loosely-typed provider objects. Extraction
// tries an ordered list of keys per logical field and takes the first
// present value, so a renamed provider field degrades to null instead of
// breaking the batch.

func getString(src map[string]any, keys ...string) string {
	if src == nil {
		return ""
	}
	for _, key := range keys {
		raw, ok := src[key]
		if !ok || raw == nil {
			continue
		}
		if value, ok := raw.(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func getInt64(src map[string]any, keys ...string) int64 {
	if src == nil {
		return 0
	}
	for _, key := range keys {
		raw, ok := src[key]
		if !ok || raw == nil {
			continue
		}
		if value, ok := asInt64(raw); ok {
			return value
		}
	}
	return 0
}

func getInt(src map[string]any, keys ...string) int {
	return int(getInt64(src, keys...))
}

func getIntPtr(src map[string]any, keys ...string) *int {
	if src == nil {
		return nil
	}
	for _, key := range keys {
		raw, ok := src[key]
		if !ok || raw == nil {
			continue
		}
		if value, ok := asInt64(raw); ok {
			v := int(value)
			return &v
		}
	}
	return nil
}

func getFloat(src map[string]any, keys ...string) (float64, bool) {
	if src == nil {
		return 0, false
	}
	for _, key := range keys {
		raw, ok := src[key]
		if !ok || raw == nil {
			continue
		}
		switch typed := raw.(type) {
		case float64:
			return typed, true
		case float32:
			return float64(typed), true
		case int:
			return float64(typed), true
		case int64:
			return float64(typed), true
		case string:
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

func getBool(src map[string]any, keys ...string) bool {
	if src == nil {
		return false
	}
	for _, key := range keys {
		raw, ok := src[key]
		if !ok || raw == nil {
			continue
		}
		switch typed := raw.(type) {
		case bool:
			return typed
		case string:
			if parsed, err := strconv.ParseBool(strings.TrimSpace(typed)); err == nil {
				return parsed
			}
		}
	}
	return false
}

func getObject(src map[string]any, keys ...string) map[string]any {
	if src == nil {
		return nil
	}
	for _, key := range keys {
		if obj, ok := src[key].(map[string]any); ok {
			return obj
		}
	}
	return nil
}

func getObjectList(src map[string]any, keys ...string) []map[string]any {
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

// getTime accepts both unix-second timestamps and RFC3339-ish strings.
func getTime(src map[string]any, keys ...string) time.Time {
	if src == nil {
		return time.Time{}
	}
	for _, key := range keys {
		raw, ok := src[key]
		if !ok || raw == nil {
			continue
		}
		switch typed := raw.(type) {
		case float64:
			if typed > 0 {
				return time.Unix(int64(typed), 0).UTC()
			}
		case int64:
			if typed > 0 {
				return time.Unix(typed, 0).UTC()
			}
		case string:
			value := strings.TrimSpace(typed)
			if value == "" {
				continue
			}
			for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
				if parsed, err := time.Parse(layout, value); err == nil {
					return parsed.UTC()
				}
			}
		}
	}
	return time.Time{}
}

func asInt64(raw any) (int64, bool) {
	switch typed := raw.(type) {
	case float64:
		return int64(typed), true
	case float32:
		return int64(typed), true
	case int:
		return int64(typed), true
	case int64:
		return typed, true
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}

func timePtr(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	v := value
	return &v
}

func pickID(current, candidate int64) int64 {
	if current > 0 {
		return current
	}
	if candidate > 0 {
		return candidate
	}
	return 0
}
