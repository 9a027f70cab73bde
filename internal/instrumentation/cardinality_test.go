package instrumentation

import (
	"strings"
	"testing"
)

func TestShortSession(t *testing.T) {
	tests := []struct {
		session  string
		expected string
	}{
		{"3f1c2a9e-77b4-4f0d-9c6e-1a2b3c4d5e6f", "3f1c2a9e"},
		{"abcdef1234567890", "abcdef12"},
		{"12345678", "12345678"},
		{"abc", "abc"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.session, func(t *testing.T) {
			result := ShortSession(tt.session)
			if result != tt.expected {
				t.Errorf("ShortSession(%q) = %q, want %q", tt.session, result, tt.expected)
			}
		})
	}
}

// Operation constants feed straight into metric label sets, so they must
// stay distinct lowercase tokens.
func TestOperationLabelHygiene(t *testing.T) {
	operations := []string{
		OperationList, OperationGet, OperationCreate, OperationUpdate,
		OperationDelete, OperationGeocode, OperationRoute, OperationChat,
		OperationPing,
	}

	seen := make(map[string]bool, len(operations))
	for _, op := range operations {
		if op == "" || op != strings.ToLower(op) || strings.ContainsAny(op, " \t") {
			t.Errorf("operation label %q is not a lowercase single token", op)
		}
		if seen[op] {
			t.Errorf("operation label %q is duplicated", op)
		}
		seen[op] = true
	}
}
