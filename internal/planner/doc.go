// Package planner selects the next agent action by asking a language model.
// The only implementation talks to an Ollama-compatible /api/chat endpoint
// and decodes the model's reply from the single-JSON-object action protocol.
package planner
