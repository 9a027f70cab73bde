// Package history persists chat transcripts to a local sqlite database so
// sessions can be listed and replayed later. Writes are advisory: callers
// log a failed insert and carry on with the turn.
package history
