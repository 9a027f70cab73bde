package agent

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in the conversation transcript threaded through the
// orchestration loop.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ActionType discriminates the two moves a planner can make.
type ActionType string

const (
	ActionToolCall ActionType = "tool_call"
	ActionFinal    ActionType = "final"
)

// Action is a single planner decision: invoke one tool, or finish the turn
// with an answer for the user.
type Action struct {
	Type      ActionType
	Tool      string
	Arguments map[string]interface{}
	Answer    string
}

// Planner chooses the next action given the transcript so far.
type Planner interface {
	Plan(ctx context.Context, transcript []Message) (*Action, error)
}

// ToolCaller dispatches a single MCP tool call. The loop only needs this one
// capability, so tests can stand in for the full MCP client.
type ToolCaller interface {
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}
