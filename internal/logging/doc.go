// Package logging holds the structured logging conventions shared across
// the application: well-known slog attribute keys, constructors for the
// attributes built from them, and a small leveled Logger interface that
// decouples the agent loop and the chat UI from slog itself.
//
// Backend clients stamp their logger once at construction:
//
//	c.logger = logging.WithBackend(c.logger, "calendar")
//	c.logger.Debug("listing events", logging.Operation("calendar.list"))
//
// Err is safe for possibly-nil errors, an empty group is dropped from
// the output:
//
//	logger.Warn("probe finished", logging.Err(err))
package logging
