package common

import "context"

type sessionKey struct{}

// WithSession returns a context carrying the conversation session ID.
// The chat loop sets it before dispatching tool calls so audit logs and
// metrics can be correlated per conversation.
func WithSession(ctx context.Context, sessionID string) context.Context {
	if sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionFromContext extracts the conversation session ID from the
// context. Calls arriving from external MCP clients carry none; the
// result is then empty.
func SessionFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionKey{}).(string)
	return sessionID
}
