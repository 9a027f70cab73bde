package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/morgenstille/bethere/internal/agent"
)

// actionEnvelope is the wire shape of a planner reply.
type actionEnvelope struct {
	Action    string                 `json:"action"`
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments"`
	Answer    string                 `json:"answer"`
}

// ParseAction decodes a planner reply into an action. The protocol asks for
// exactly one JSON object, but models wrap their output in markdown fences or
// pad it with prose often enough that the parser also accepts a reply whose
// first JSON object is the action.
func ParseAction(reply string) (*agent.Action, error) {
	trimmed := strings.TrimSpace(reply)

	var envelope actionEnvelope
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		start := strings.Index(trimmed, "{")
		if start < 0 {
			return nil, fmt.Errorf("planner reply contains no action object: %q", snippet(trimmed))
		}
		decoder := json.NewDecoder(strings.NewReader(trimmed[start:]))
		if err := decoder.Decode(&envelope); err != nil {
			return nil, fmt.Errorf("planner reply is not a valid action: %q", snippet(trimmed))
		}
	}

	switch envelope.Action {
	case string(agent.ActionToolCall):
		if envelope.Tool == "" {
			return nil, fmt.Errorf("tool_call action names no tool")
		}
		return &agent.Action{
			Type:      agent.ActionToolCall,
			Tool:      envelope.Tool,
			Arguments: envelope.Arguments,
		}, nil

	case string(agent.ActionFinal):
		if envelope.Answer == "" {
			return nil, fmt.Errorf("final action carries no answer")
		}
		return &agent.Action{
			Type:   agent.ActionFinal,
			Answer: envelope.Answer,
		}, nil

	default:
		return nil, fmt.Errorf("planner reply has unknown action %q", envelope.Action)
	}
}

// snippet shortens a reply for error messages.
func snippet(reply string) string {
	const max = 120
	if len(reply) <= max {
		return reply
	}
	return reply[:max] + "..."
}
