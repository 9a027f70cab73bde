package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/morgenstille/bethere/internal/agent"
	"github.com/morgenstille/bethere/internal/instrumentation"
	"github.com/morgenstille/bethere/internal/logging"
	"github.com/morgenstille/bethere/internal/outcome"
)

// defaultTimeout bounds a single chat completion. Local models on modest
// hardware can take a while on long transcripts.
const defaultTimeout = 120 * time.Second

// plannerTemperature keeps the model close to the action protocol.
const plannerTemperature = 0.2

// Ollama is an agent.Planner backed by an Ollama-compatible /api/chat
// endpoint.
type Ollama struct {
	baseURL string
	model   string
	httpc   *http.Client
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// Option configures an Ollama planner.
type Option func(*Ollama)

// WithHTTPClient sets the HTTP client used for chat requests.
func WithHTTPClient(httpc *http.Client) Option {
	return func(p *Ollama) {
		if httpc != nil {
			p.httpc = httpc
		}
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Ollama) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics enables planner request metrics.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(p *Ollama) {
		p.metrics = metrics
	}
}

// NewOllama creates a planner client for the given endpoint and model.
func NewOllama(baseURL, model string, opts ...Option) *Ollama {
	p := &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpc:   &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// chatRequest is the /api/chat request body.
type chatRequest struct {
	Model    string        `json:"model"`
	Stream   bool          `json:"stream"`
	Messages []chatMessage `json:"messages"`
	Options  chatOptions   `json:"options"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
}

// chatResponse is the non-streaming /api/chat response body.
type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// errorResponse is the body Ollama returns on failures, e.g. an unknown
// model name.
type errorResponse struct {
	Error string `json:"error"`
}

// Plan asks the model for the next action given the transcript.
func (p *Ollama) Plan(ctx context.Context, transcript []agent.Message) (*agent.Action, error) {
	ctx, span := instrumentation.StartBackendSpan(ctx, instrumentation.BackendOllama, instrumentation.OperationChat,
		instrumentation.ModelAttr(p.model))
	defer span.End()

	start := time.Now()
	reply, err := p.chat(ctx, transcript)
	p.recordRequest(ctx, err, time.Since(start))
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}
	instrumentation.SetSpanSuccess(span)

	action, err := ParseAction(reply)
	if err != nil {
		p.logger.Warn("planner reply violated the action protocol",
			logging.Backend("planner"),
			logging.Err(err))
		return nil, err
	}
	return action, nil
}

func (p *Ollama) chat(ctx context.Context, transcript []agent.Message) (string, error) {
	p.logger.Debug("requesting chat completion",
		logging.Backend("planner"),
		logging.Operation("planner.chat"),
		"model", p.model,
		"messages", len(transcript))

	payload := chatRequest{
		Model:    p.model,
		Stream:   false,
		Messages: make([]chatMessage, 0, len(transcript)),
		Options:  chatOptions{Temperature: plannerTemperature},
	}
	for _, msg := range transcript {
		payload.Messages = append(payload.Messages, chatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", outcome.Wrap(outcome.CodeInvalidRequest, "encoding chat request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", outcome.Wrap(outcome.CodeInvalidRequest, "building chat request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return "", outcome.Wrap(outcome.CodeBackendUnavailable, "planner unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failure errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&failure); decodeErr == nil && failure.Error != "" {
			return "", outcome.Newf(outcome.CodeUpstreamServiceError, "planner rejected the request: %s", failure.Error)
		}
		return "", outcome.Newf(outcome.CodeUpstreamServiceError, "planner returned status %d", resp.StatusCode)
	}

	var response chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", outcome.Wrap(outcome.CodeUpstreamServiceError, "decoding chat response", err)
	}
	return response.Message.Content, nil
}

func (p *Ollama) recordRequest(ctx context.Context, err error, duration time.Duration) {
	if p.metrics == nil {
		return
	}
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	p.metrics.RecordPlannerRequest(ctx, p.model, status, duration)
}
