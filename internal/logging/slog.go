package logging

import (
	"log/slog"
)

// Attribute keys shared across the codebase so log lines stay greppable.
const (
	KeyOperation = "operation"
	KeyBackend   = "backend"
	KeyTool      = "tool"
	KeySession   = "session"
	KeyError     = "error"
)

// Operation tags a log line with the operation name, e.g. "calendar.list".
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Backend tags a log line with the upstream backend name
// (calendar, geocode, routing, planner).
func Backend(backend string) slog.Attr {
	return slog.String(KeyBackend, backend)
}

// Tool tags a log line with the MCP tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Session tags a log line with the chat session identifier.
func Session(session string) slog.Attr {
	return slog.String(KeySession, session)
}

// Err tags a log line with the error text. A nil error yields an empty
// group, which slog drops from the output, so call sites never need to
// branch on nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// WithOperation derives a logger that stamps every line with the operation.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(Operation(operation))
}

// WithBackend derives a logger that stamps every line with the backend name.
// The backend clients apply this at construction time.
func WithBackend(logger *slog.Logger, backend string) *slog.Logger {
	return logger.With(Backend(backend))
}

