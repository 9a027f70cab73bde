package humanize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timeLayout renders epoch seconds as calendar-local date and time.
const timeLayout = "2006-01-02 15:04"

const (
	noData   = "No data found."
	noEvents = "No events found."
)

// Render converts calendar or location JSON into a readable message.
// The kind selects a formatter by prefix: "location..." renders the
// locations view, "event..." and "meeting..." render the events view,
// anything else is pretty-printed. Prefix matching keeps the caller
// from having to produce an exact enum value. Input that does not parse
// as JSON is returned unchanged.
func Render(data, kind string) string {
	if strings.TrimSpace(data) == "" {
		return noData
	}

	var decoded any
	if err := json.Unmarshal([]byte(data), &decoded); err != nil {
		return data
	}
	if isEmpty(decoded) {
		return noData
	}

	normalized := strings.ToLower(strings.TrimSpace(kind))
	switch {
	case strings.HasPrefix(normalized, "location"):
		if items, ok := sequence(decoded); ok {
			return renderLocations(items)
		}
	case strings.HasPrefix(normalized, "event"), strings.HasPrefix(normalized, "meeting"):
		if items, ok := sequence(decoded); ok {
			return renderEvents(items)
		}
	}
	return renderGeneric(decoded)
}

// isEmpty reports whether a decoded value carries no data. Empty slices
// are deliberately excluded so the events view can report them with its
// own message.
func isEmpty(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case bool:
		return !value
	case float64:
		return value == 0
	case map[string]any:
		return len(value) == 0
	}
	return false
}

// sequence normalizes the decoded value into a slice of items. A lone
// object counts as a one-item collection, so an event fetched by ID
// formats the same way as a list entry.
func sequence(v any) ([]any, bool) {
	switch value := v.(type) {
	case []any:
		return value, true
	case map[string]any:
		return []any{value}, true
	}
	return nil, false
}

func renderLocations(items []any) string {
	if len(items) == 0 {
		return noData
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		loc, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("📍 %s (Lat: %v, Lon: %v)",
			stringField(loc, "name"), loc["latitude"], loc["longitude"]))
	}
	return fmt.Sprintf("You have %d saved locations:\n%s", len(items), strings.Join(lines, "\n"))
}

func renderEvents(items []any) string {
	if len(items) == 0 {
		return noEvents
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		event, ok := item.(map[string]any)
		if !ok {
			continue
		}

		// The event view shows the location name only. Coordinates stay
		// out of this rendering even though the payload carries them.
		locationName := "Unknown Location"
		if loc, ok := event["location"].(map[string]any); ok {
			if name := stringField(loc, "name"); name != "" {
				locationName = name
			}
		}

		lines = append(lines, fmt.Sprintf("%s at %s from %s to %s",
			stringField(event, "title"), locationName,
			epochField(event, "startDatetime"), epochField(event, "endDatetime")))
	}
	return fmt.Sprintf("You have %d events:\n%s", len(items), strings.Join(lines, "\n"))
}

func renderGeneric(v any) string {
	if items, ok := v.([]any); ok && len(items) == 0 {
		return noData
	}

	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(pretty)
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func epochField(m map[string]any, key string) string {
	seconds, ok := m[key].(float64)
	if !ok {
		return "unknown time"
	}
	return time.Unix(int64(seconds), 0).Format(timeLayout)
}
