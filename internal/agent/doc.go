// Package agent implements the per-turn orchestration loop that sits between
// a conversational planner and the MCP tool surface. The planner proposes one
// action at a time; the loop executes tool calls, threads the results back
// through the transcript, and checks that final answers are human readable
// before handing them to the user.
package agent
