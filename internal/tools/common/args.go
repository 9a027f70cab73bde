package common

import (
	"fmt"
	"strconv"
)

// RequiredString returns the named string argument. The error message
// is written for the planner, which reads tool errors verbatim.
func RequiredString(args map[string]any, key string) (string, error) {
	value, ok := args[key].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}

// OptionalString returns the named string argument and whether a
// non-empty value was supplied.
func OptionalString(args map[string]any, key string) (string, bool) {
	value, ok := args[key].(string)
	return value, ok && value != ""
}

// RequiredEpoch returns the named argument as Unix epoch seconds.
// JSON numbers arrive as float64; numeric strings are accepted as well
// because planners are sloppy about argument types.
func RequiredEpoch(args map[string]any, key string) (int64, error) {
	value, ok, err := OptionalEpoch(args, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	return value, nil
}

// OptionalEpoch returns the named argument as Unix epoch seconds and
// whether it was supplied. A supplied but unparseable value is an
// error, not an absence.
func OptionalEpoch(args map[string]any, key string) (int64, bool, error) {
	raw, present := args[key]
	if !present {
		return 0, false, nil
	}
	switch value := raw.(type) {
	case float64:
		return int64(value), true, nil
	case string:
		if value == "" {
			return 0, false, nil
		}
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%s must be a Unix timestamp in seconds, got %q", key, value)
		}
		return parsed, true, nil
	}
	return 0, false, fmt.Errorf("%s must be a Unix timestamp in seconds", key)
}

// RequiredFloat returns the named argument as a float. Numeric strings
// are accepted.
func RequiredFloat(args map[string]any, key string) (float64, error) {
	raw, present := args[key]
	if !present {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch value := raw.(type) {
	case float64:
		return value, nil
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number, got %q", key, value)
		}
		return parsed, nil
	}
	return 0, fmt.Errorf("%s must be a number", key)
}
