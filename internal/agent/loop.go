package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/morgenstille/bethere/internal/instrumentation"
	"github.com/morgenstille/bethere/internal/logging"
)

// DefaultMaxIterations bounds the planner round trips a single turn may
// consume before the loop gives up.
const DefaultMaxIterations = 10

const (
	// fallbackAnswer is returned when a turn exhausts its iteration budget.
	fallbackAnswer = "I apologize, but I wasn't able to complete that request. Please try again."

	// rawAnswerReminder is appended to the transcript when a final answer
	// fails the raw-data check, so the planner can retry within the turn.
	rawAnswerReminder = "Your answer contained raw JSON or epoch timestamps. " +
		"Call the humanize_response tool to format structured data, then reply in plain language."
)

// LoopConfig carries the collaborators for an orchestration loop.
type LoopConfig struct {
	// Planner decides the next action each iteration. Required.
	Planner Planner

	// Tools dispatches the planner's tool calls. Required.
	Tools ToolCaller

	// MaxIterations caps planner round trips per turn. Zero or negative
	// means DefaultMaxIterations.
	MaxIterations int

	// Logger receives loop progress. Defaults to the process logger.
	Logger logging.Logger

	// Metrics records run outcomes. Optional.
	Metrics *instrumentation.Metrics
}

// Loop drives one conversation turn at a time: the planner proposes tool
// calls, the loop executes them and feeds the results back, until the
// planner emits a final answer or the iteration budget runs out.
type Loop struct {
	planner       Planner
	tools         ToolCaller
	maxIterations int
	logger        logging.Logger
	metrics       *instrumentation.Metrics
}

// NewLoop validates cfg and builds a Loop.
func NewLoop(cfg LoopConfig) (*Loop, error) {
	if cfg.Planner == nil {
		return nil, fmt.Errorf("planner is required")
	}
	if cfg.Tools == nil {
		return nil, fmt.Errorf("tool caller is required")
	}

	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return &Loop{
		planner:       cfg.Planner,
		tools:         cfg.Tools,
		maxIterations: maxIterations,
		logger:        logger,
		metrics:       cfg.Metrics,
	}, nil
}

// Run executes one user turn. It appends the user message to the transcript,
// alternates between planning and tool execution, and returns the final
// answer together with the transcript including every entry this turn added.
// Tool failures are relayed to the planner as tool results rather than
// aborting the turn; only planner failures return an error.
func (l *Loop) Run(ctx context.Context, transcript []Message, userMessage string) (string, []Message, error) {
	transcript = append(transcript, Message{Role: RoleUser, Content: userMessage})

	for iteration := 1; iteration <= l.maxIterations; iteration++ {
		action, err := l.planner.Plan(ctx, transcript)
		if err != nil {
			l.recordRun(ctx, instrumentation.RunOutcomeError, iteration)
			return "", transcript, fmt.Errorf("planner failed: %w", err)
		}
		if action == nil {
			l.recordRun(ctx, instrumentation.RunOutcomeError, iteration)
			return "", transcript, fmt.Errorf("planner returned no action")
		}

		switch action.Type {
		case ActionFinal:
			if looksLikeRawData(action.Answer) {
				l.logger.Warn("rejecting final answer with raw data",
					logging.Operation("agent.answer_check"))
				transcript = append(transcript,
					Message{Role: RoleAssistant, Content: action.Answer},
					Message{Role: RoleSystem, Content: rawAnswerReminder},
				)
				continue
			}
			transcript = append(transcript, Message{Role: RoleAssistant, Content: action.Answer})
			l.recordRun(ctx, instrumentation.RunOutcomeAnswered, iteration)
			return action.Answer, transcript, nil

		case ActionToolCall:
			result := l.callTool(ctx, action)
			transcript = append(transcript,
				Message{Role: RoleAssistant, Content: encodeToolCall(action)},
				Message{Role: RoleTool, Content: result},
			)

		default:
			l.recordRun(ctx, instrumentation.RunOutcomeError, iteration)
			return "", transcript, fmt.Errorf("planner returned unknown action type %q", action.Type)
		}
	}

	l.logger.Warn("turn exceeded iteration budget",
		logging.Operation("agent.run"),
		"max_iterations", l.maxIterations)
	transcript = append(transcript, Message{Role: RoleAssistant, Content: fallbackAnswer})
	l.recordRun(ctx, instrumentation.RunOutcomeFallback, l.maxIterations)
	return fallbackAnswer, transcript, nil
}

// callTool dispatches one tool call and renders the outcome as the text the
// planner reads. Dispatch errors become tool results so the planner can
// recover or apologize instead of the turn dying.
func (l *Loop) callTool(ctx context.Context, action *Action) string {
	l.logger.Debug("calling tool",
		logging.Tool(action.Tool),
		logging.Operation("agent.tool_call"))

	request := mcp.CallToolRequest{}
	request.Params.Name = action.Tool
	request.Params.Arguments = action.Arguments

	result, err := l.tools.CallTool(ctx, request)
	if err != nil {
		l.logger.Warn("tool call failed",
			logging.Tool(action.Tool),
			logging.Err(err))
		return fmt.Sprintf("Error: tool %s failed: %v", action.Tool, err)
	}
	return flattenResult(result)
}

func (l *Loop) recordRun(ctx context.Context, outcome string, iterations int) {
	if l.metrics == nil {
		return
	}
	l.metrics.RecordAgentRun(ctx, outcome, iterations)
}

// encodeToolCall records the planner's move in the transcript so the model
// sees its own prior tool calls on later iterations.
func encodeToolCall(action *Action) string {
	payload := map[string]interface{}{
		"action": string(ActionToolCall),
		"tool":   action.Tool,
	}
	if len(action.Arguments) > 0 {
		payload["arguments"] = action.Arguments
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("tool call: %s", action.Tool)
	}
	return string(encoded)
}

// flattenResult joins the text parts of a tool result into one transcript
// entry. Non-text content only gets a type marker; none of the registered
// tools produce any.
func flattenResult(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	parts := make([]string, 0, len(result.Content))
	for _, content := range result.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			parts = append(parts, c.Text)
		case *mcp.TextContent:
			parts = append(parts, c.Text)
		default:
			parts = append(parts, fmt.Sprintf("[%T]", content))
		}
	}
	return strings.Join(parts, "\n")
}
