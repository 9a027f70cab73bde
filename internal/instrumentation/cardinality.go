package instrumentation

// Label-value helpers. Every distinct label value is a time series of its
// own, so anything session-shaped gets truncated before it reaches a
// metric.

// shortSessionLen is the number of leading characters kept from a session ID.
// Eight hex characters of a UUID are enough to correlate within a deployment.
const shortSessionLen = 8

// ShortSession truncates a session identifier to its leading prefix:
//
//	ShortSession("3f1c2a9e-77b4-4f0d-9c6e-1a2b3c4d5e6f")  // "3f1c2a9e"
//	ShortSession("abc")                                   // "abc"
//	ShortSession("")                                      // "unknown"
func ShortSession(session string) string {
	if session == "" {
		return "unknown"
	}

	if len(session) > shortSessionLen {
		return session[:shortSessionLen]
	}

	return session
}

// Common operation types for backend metrics.
// Status, outcome, and backend constants are defined in config.go.
const (
	OperationList    = "list"
	OperationGet     = "get"
	OperationCreate  = "create"
	OperationUpdate  = "update"
	OperationDelete  = "delete"
	OperationGeocode = "geocode"
	OperationRoute   = "route"
	OperationChat    = "chat"
	OperationPing    = "ping"
)
