package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeToolCaller records the requests it receives and answers through an
// optional respond hook.
type fakeToolCaller struct {
	requests []mcp.CallToolRequest
	respond  func(request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

func (f *fakeToolCaller) CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f.requests = append(f.requests, request)
	if f.respond == nil {
		return mcp.NewToolResultText("ok"), nil
	}
	return f.respond(request)
}

func newTestLoop(t *testing.T, planner Planner, tools ToolCaller, maxIterations int) *Loop {
	t.Helper()

	loop, err := NewLoop(LoopConfig{
		Planner:       planner,
		Tools:         tools,
		MaxIterations: maxIterations,
	})
	require.NoError(t, err)
	return loop
}

func TestNewLoop_Validation(t *testing.T) {
	planner := NewScriptedPlanner()
	tools := &fakeToolCaller{}

	tests := []struct {
		name    string
		cfg     LoopConfig
		wantErr string
	}{
		{
			name:    "missing planner",
			cfg:     LoopConfig{Tools: tools},
			wantErr: "planner is required",
		},
		{
			name:    "missing tool caller",
			cfg:     LoopConfig{Planner: planner},
			wantErr: "tool caller is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loop, err := NewLoop(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, loop)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLoop_Defaults(t *testing.T) {
	loop := newTestLoop(t, NewScriptedPlanner(), &fakeToolCaller{}, 0)

	assert.Equal(t, DefaultMaxIterations, loop.maxIterations)
	assert.NotNil(t, loop.logger)
}

func TestRun_FinalAnswer(t *testing.T) {
	planner := NewScriptedPlanner(
		Action{Type: ActionFinal, Answer: "You have 2 events today."},
	)
	loop := newTestLoop(t, planner, &fakeToolCaller{}, 0)

	answer, transcript, err := loop.Run(context.Background(), nil, "What's on today?")

	require.NoError(t, err)
	assert.Equal(t, "You have 2 events today.", answer)
	require.Len(t, transcript, 2)
	assert.Equal(t, Message{Role: RoleUser, Content: "What's on today?"}, transcript[0])
	assert.Equal(t, Message{Role: RoleAssistant, Content: "You have 2 events today."}, transcript[1])
}

func TestRun_ToolCallThenFinal(t *testing.T) {
	tools := &fakeToolCaller{
		respond: func(request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(`[{"id":"evt_1","title":"Standup"}]`), nil
		},
	}
	planner := NewScriptedPlanner(
		Action{Type: ActionToolCall, Tool: "get_all_events"},
		Action{Type: ActionFinal, Answer: "You have one event: Standup."},
	)
	loop := newTestLoop(t, planner, tools, 0)

	answer, transcript, err := loop.Run(context.Background(), nil, "List my events")

	require.NoError(t, err)
	assert.Equal(t, "You have one event: Standup.", answer)

	require.Len(t, tools.requests, 1)
	assert.Equal(t, "get_all_events", tools.requests[0].Params.Name)

	// user, tool call, tool result, final answer
	require.Len(t, transcript, 4)
	assert.Equal(t, RoleUser, transcript[0].Role)
	assert.Equal(t, RoleAssistant, transcript[1].Role)
	assert.JSONEq(t, `{"action":"tool_call","tool":"get_all_events"}`, transcript[1].Content)
	assert.Equal(t, RoleTool, transcript[2].Role)
	assert.Equal(t, `[{"id":"evt_1","title":"Standup"}]`, transcript[2].Content)
	assert.Equal(t, RoleAssistant, transcript[3].Role)
}

func TestRun_ToolCallArgumentsEncoded(t *testing.T) {
	tools := &fakeToolCaller{}
	planner := NewScriptedPlanner(
		Action{
			Type:      ActionToolCall,
			Tool:      "get_event_by_id",
			Arguments: map[string]interface{}{"event_id": "evt_7"},
		},
		Action{Type: ActionFinal, Answer: "Found it."},
	)
	loop := newTestLoop(t, planner, tools, 0)

	_, transcript, err := loop.Run(context.Background(), nil, "Show event evt_7")

	require.NoError(t, err)
	require.Len(t, tools.requests, 1)
	assert.Equal(t, map[string]interface{}{"event_id": "evt_7"}, tools.requests[0].GetArguments())
	assert.JSONEq(t,
		`{"action":"tool_call","tool":"get_event_by_id","arguments":{"event_id":"evt_7"}}`,
		transcript[1].Content)
}

func TestRun_ToolErrorRelayedToPlanner(t *testing.T) {
	tools := &fakeToolCaller{
		respond: func(request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return nil, errors.New("connection refused")
		},
	}
	planner := NewScriptedPlanner(
		Action{Type: ActionToolCall, Tool: "get_eta"},
		Action{Type: ActionFinal, Answer: "I couldn't reach the routing service."},
	)
	loop := newTestLoop(t, planner, tools, 0)

	answer, transcript, err := loop.Run(context.Background(), nil, "ETA to the dentist?")

	require.NoError(t, err)
	assert.Equal(t, "I couldn't reach the routing service.", answer)
	assert.Equal(t, "Error: tool get_eta failed: connection refused", transcript[2].Content)
}

func TestRun_RejectsRawJSONAnswer(t *testing.T) {
	planner := NewScriptedPlanner(
		Action{Type: ActionFinal, Answer: `[{"id":"evt_1","title":"Standup"}]`},
		Action{Type: ActionFinal, Answer: "You have one event: Standup."},
	)
	loop := newTestLoop(t, planner, &fakeToolCaller{}, 0)

	answer, transcript, err := loop.Run(context.Background(), nil, "List my events")

	require.NoError(t, err)
	assert.Equal(t, "You have one event: Standup.", answer)

	// user, rejected answer, reminder, accepted answer
	require.Len(t, transcript, 4)
	assert.Equal(t, RoleAssistant, transcript[1].Role)
	assert.Equal(t, RoleSystem, transcript[2].Role)
	assert.Contains(t, transcript[2].Content, "humanize_response")
	assert.Equal(t, "You have one event: Standup.", transcript[3].Content)
}

func TestRun_RejectsEpochAnswer(t *testing.T) {
	planner := NewScriptedPlanner(
		Action{Type: ActionFinal, Answer: "Your event starts at 1700000000."},
		Action{Type: ActionFinal, Answer: "Your event starts at 7:33 PM."},
	)
	loop := newTestLoop(t, planner, &fakeToolCaller{}, 0)

	answer, _, err := loop.Run(context.Background(), nil, "When is my event?")

	require.NoError(t, err)
	assert.Equal(t, "Your event starts at 7:33 PM.", answer)
}

func TestRun_IterationCapFallback(t *testing.T) {
	planner := NewScriptedPlanner(
		Action{Type: ActionToolCall, Tool: "get_all_events"},
		Action{Type: ActionToolCall, Tool: "get_all_events"},
		Action{Type: ActionToolCall, Tool: "get_all_events"},
	)
	loop := newTestLoop(t, planner, &fakeToolCaller{}, 3)

	answer, transcript, err := loop.Run(context.Background(), nil, "List my events")

	require.NoError(t, err)
	assert.Equal(t, fallbackAnswer, answer)
	last := transcript[len(transcript)-1]
	assert.Equal(t, RoleAssistant, last.Role)
	assert.Equal(t, fallbackAnswer, last.Content)
}

func TestRun_PlannerError(t *testing.T) {
	loop := newTestLoop(t, NewScriptedPlanner(), &fakeToolCaller{}, 0)

	answer, transcript, err := loop.Run(context.Background(), nil, "Hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "planner failed")
	assert.Empty(t, answer)
	// The user message is still recorded so the caller can persist the turn.
	require.Len(t, transcript, 1)
	assert.Equal(t, RoleUser, transcript[0].Role)
}

func TestRun_UnknownActionType(t *testing.T) {
	planner := NewScriptedPlanner(Action{Type: ActionType("shrug")})
	loop := newTestLoop(t, planner, &fakeToolCaller{}, 0)

	_, _, err := loop.Run(context.Background(), nil, "Hello")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown action type "shrug"`)
}

func TestRun_PreservesPriorTranscript(t *testing.T) {
	planner := NewScriptedPlanner(
		Action{Type: ActionFinal, Answer: "Second answer."},
	)
	loop := newTestLoop(t, planner, &fakeToolCaller{}, 0)

	prior := []Message{
		{Role: RoleSystem, Content: "instructions"},
		{Role: RoleUser, Content: "first question"},
		{Role: RoleAssistant, Content: "first answer"},
	}

	_, transcript, err := loop.Run(context.Background(), prior, "second question")

	require.NoError(t, err)
	require.Len(t, transcript, 5)
	assert.Equal(t, "instructions", transcript[0].Content)
	assert.Equal(t, "second question", transcript[3].Content)
	assert.Equal(t, "Second answer.", transcript[4].Content)
}

func TestFlattenResult(t *testing.T) {
	tests := []struct {
		name   string
		result *mcp.CallToolResult
		want   string
	}{
		{
			name:   "nil result",
			result: nil,
			want:   "",
		},
		{
			name:   "single text part",
			result: mcp.NewToolResultText("hello"),
			want:   "hello",
		},
		{
			name: "multiple text parts",
			result: &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.TextContent{Type: "text", Text: "first"},
					mcp.TextContent{Type: "text", Text: "second"},
				},
			},
			want: "first\nsecond",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flattenResult(tt.result))
		})
	}
}
