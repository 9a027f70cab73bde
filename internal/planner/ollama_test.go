package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morgenstille/bethere/internal/agent"
	"github.com/morgenstille/bethere/internal/outcome"
)

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()

	response := chatResponse{
		Message: chatMessage{Role: "assistant", Content: content},
		Done:    true,
	}
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(response))
}

func TestOllama_Plan(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		chatReply(t, w, `{"action":"tool_call","tool":"get_all_events","arguments":{}}`)
	}))
	defer srv.Close()

	p := NewOllama(srv.URL, "llama3.1:8b")
	transcript := []agent.Message{
		{Role: agent.RoleSystem, Content: "instructions"},
		{Role: agent.RoleUser, Content: "List my events"},
	}

	action, err := p.Plan(context.Background(), transcript)

	require.NoError(t, err)
	assert.Equal(t, agent.ActionToolCall, action.Type)
	assert.Equal(t, "get_all_events", action.Tool)

	assert.Equal(t, "llama3.1:8b", captured.Model)
	assert.False(t, captured.Stream)
	assert.InDelta(t, 0.2, captured.Options.Temperature, 0.0001)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, chatMessage{Role: "system", Content: "instructions"}, captured.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "List my events"}, captured.Messages[1])
}

func TestOllama_Plan_FinalAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "```json\n{\"action\":\"final\",\"answer\":\"You have no events today.\"}\n```")
	}))
	defer srv.Close()

	p := NewOllama(srv.URL, "llama3.1:8b")

	action, err := p.Plan(context.Background(), []agent.Message{{Role: agent.RoleUser, Content: "Anything today?"}})

	require.NoError(t, err)
	assert.Equal(t, agent.ActionFinal, action.Type)
	assert.Equal(t, "You have no events today.", action.Answer)
}

func TestOllama_Plan_UnknownModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'nope' not found"}`))
	}))
	defer srv.Close()

	p := NewOllama(srv.URL, "nope")

	action, err := p.Plan(context.Background(), []agent.Message{{Role: agent.RoleUser, Content: "hi"}})

	require.Error(t, err)
	assert.Nil(t, action)
	assert.True(t, outcome.HasCode(err, outcome.CodeUpstreamServiceError))
	assert.Contains(t, err.Error(), "model 'nope' not found")
}

func TestOllama_Plan_BackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := NewOllama(srv.URL, "llama3.1:8b")

	_, err := p.Plan(context.Background(), []agent.Message{{Role: agent.RoleUser, Content: "hi"}})

	require.Error(t, err)
	assert.True(t, outcome.HasCode(err, outcome.CodeBackendUnavailable))
}

func TestOllama_Plan_ProtocolViolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "I will now list your events.")
	}))
	defer srv.Close()

	p := NewOllama(srv.URL, "llama3.1:8b")

	action, err := p.Plan(context.Background(), []agent.Message{{Role: agent.RoleUser, Content: "hi"}})

	require.Error(t, err)
	assert.Nil(t, action)
	assert.Contains(t, err.Error(), "no action object")
}

func TestOllama_Plan_ToolRoleForwarded(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		chatReply(t, w, `{"action":"final","answer":"Done."}`)
	}))
	defer srv.Close()

	p := NewOllama(srv.URL, "llama3.1:8b")
	transcript := []agent.Message{
		{Role: agent.RoleAssistant, Content: `{"action":"tool_call","tool":"get_all_events"}`},
		{Role: agent.RoleTool, Content: "[]"},
	}

	_, err := p.Plan(context.Background(), transcript)

	require.NoError(t, err)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "assistant", captured.Messages[0].Role)
	assert.Equal(t, "tool", captured.Messages[1].Role)
}
