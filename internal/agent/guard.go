package agent

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Bounds for the epoch token check: 2001-09-09 through 2100-01-01. Ten-digit
// integers in this window are almost certainly Unix timestamps leaking out of
// a tool result.
const (
	minEpochToken = 1_000_000_000
	maxEpochToken = 4_102_444_800
)

var epochTokenPattern = regexp.MustCompile(`\b\d{10}\b`)

// looksLikeRawData reports whether a final answer leaks machine data at the
// user: a bare JSON object or array, or an epoch timestamp that should have
// gone through humanize_response first.
func looksLikeRawData(answer string) bool {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if json.Valid([]byte(trimmed)) {
			return true
		}
	}
	return containsEpochToken(trimmed)
}

func containsEpochToken(answer string) bool {
	for _, token := range epochTokenPattern.FindAllString(answer, -1) {
		value, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			continue
		}
		if value >= minEpochToken && value <= maxEpochToken {
			return true
		}
	}
	return false
}
