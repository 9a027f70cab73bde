package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/morgenstille/bethere/internal/logging"
	"github.com/morgenstille/bethere/internal/outcome"
	"github.com/morgenstille/bethere/internal/schedule"
)

// defaultTimeout bounds a single backend request when the caller's context
// carries no deadline of its own.
const defaultTimeout = 10 * time.Second

// Client wraps the calendar backend's REST API.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for backend requests.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new calendar backend client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.WithBackend(c.logger, "calendar")

	return c
}

// createEventRequest is the wire shape for event creation.
type createEventRequest struct {
	Title     string            `json:"title"`
	StartTime int64             `json:"startDatetime"`
	EndTime   int64             `json:"endDatetime"`
	Location  schedule.Location `json:"location"`
}

// updateEventRequest carries only the fields present in the patch.
type updateEventRequest struct {
	Title     *string `json:"title,omitempty"`
	StartTime *int64  `json:"startDatetime,omitempty"`
	EndTime   *int64  `json:"endDatetime,omitempty"`
}

// ListEvents lists all events known to the calendar backend.
func (c *Client) ListEvents(ctx context.Context) ([]schedule.Event, error) {
	c.logger.Debug("listing events", logging.Operation("calendar.list"))

	resp, err := c.get(ctx, "/calendar/get")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus("list events", resp.StatusCode)
	}

	var events []schedule.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, outcome.Wrap(outcome.CodeUpstreamServiceError, "decoding event list", err)
	}

	return events, nil
}

// GetEvent retrieves a specific event by ID.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*schedule.Event, error) {
	c.logger.Debug("getting event", logging.Operation("calendar.get"), slog.String("event_id", eventID))

	resp, err := c.get(ctx, "/calendar/get/"+eventID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, outcome.Newf(outcome.CodeNotFound, "event %q not found", eventID)
	default:
		return nil, unexpectedStatus("get event", resp.StatusCode)
	}

	var event schedule.Event
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, outcome.Wrap(outcome.CodeUpstreamServiceError, "decoding event", err)
	}

	return &event, nil
}

// CreateEvent creates a new event. The draft is validated locally before any
// backend contact; a 409 from the backend maps to SCHEDULING_CONFLICT.
func (c *Client) CreateEvent(ctx context.Context, draft schedule.EventDraft) (*schedule.Event, error) {
	if err := draft.Validate(); err != nil {
		return nil, outcome.Wrap(outcome.CodeInvalidRequest, "invalid event", err)
	}

	c.logger.Debug("creating event", logging.Operation("calendar.create"), slog.String("title", draft.Title))

	body := createEventRequest{
		Title:     draft.Title,
		StartTime: draft.StartTime,
		EndTime:   draft.EndTime,
		Location:  draft.Location,
	}

	resp, err := c.post(ctx, "/calendar/create", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict:
		return nil, outcome.New(outcome.CodeSchedulingConflict, "time slot already booked")
	default:
		return nil, unexpectedStatus("create event", resp.StatusCode)
	}

	var event schedule.Event
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, outcome.Wrap(outcome.CodeUpstreamServiceError, "decoding created event", err)
	}

	return &event, nil
}

// UpdateEvent applies a partial update to an existing event. An empty patch is
// rejected locally without contacting the backend.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, patch schedule.EventPatch) (*schedule.Event, error) {
	if patch.IsEmpty() {
		return nil, outcome.New(outcome.CodeInvalidRequest, "no fields to update")
	}
	if err := patch.Validate(); err != nil {
		return nil, outcome.Wrap(outcome.CodeInvalidRequest, "invalid patch", err)
	}

	c.logger.Debug("updating event", logging.Operation("calendar.update"), slog.String("event_id", eventID))

	body := updateEventRequest{
		Title:     patch.Title,
		StartTime: patch.StartTime,
		EndTime:   patch.EndTime,
	}

	resp, err := c.post(ctx, "/calendar/update/"+eventID, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, outcome.Newf(outcome.CodeNotFound, "event %q not found", eventID)
	case http.StatusConflict:
		return nil, outcome.New(outcome.CodeSchedulingConflict, "time slot already booked")
	default:
		return nil, unexpectedStatus("update event", resp.StatusCode)
	}

	var event schedule.Event
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, outcome.Wrap(outcome.CodeUpstreamServiceError, "decoding updated event", err)
	}

	return &event, nil
}

// DeleteEvent deletes an event by ID.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	c.logger.Debug("deleting event", logging.Operation("calendar.delete"), slog.String("event_id", eventID))

	req, err := c.newRequest(ctx, http.MethodDelete, "/calendar/"+eventID, nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusNotFound:
		return outcome.Newf(outcome.CodeNotFound, "event %q not found", eventID)
	default:
		return unexpectedStatus("delete event", resp.StatusCode)
	}
}

// ListLocations lists the locations registered with the calendar backend.
// Locations are advisory data: any failure degrades to an empty list instead
// of propagating an error.
func (c *Client) ListLocations(ctx context.Context) []schedule.Location {
	logger := logging.WithOperation(c.logger, "calendar.locations")
	logger.Debug("listing locations")

	resp, err := c.get(ctx, "/location/get")
	if err != nil {
		logger.Warn("listing locations failed", logging.Err(err))
		return []schedule.Location{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("listing locations failed",
			logging.Err(unexpectedStatus("list locations", resp.StatusCode)))
		return []schedule.Location{}
	}

	var locations []schedule.Location
	if err := json.NewDecoder(resp.Body).Decode(&locations); err != nil {
		logger.Warn("listing locations failed",
			logging.Err(outcome.Wrap(outcome.CodeUpstreamServiceError, "decoding location list", err)))
		return []schedule.Location{}
	}

	if locations == nil {
		locations = []schedule.Location{}
	}
	return locations
}

// Ping checks that the calendar backend is reachable and answering. It is
// used by the server's readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.get(ctx, "/calendar/get")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus("ping", resp.StatusCode)
	}

	return nil
}

// get issues a GET request against the backend.
func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// post issues a POST request with a JSON body against the backend.
func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, outcome.Wrap(outcome.CodeInvalidRequest, "encoding request body", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, outcome.Wrap(outcome.CodeInvalidRequest, "building request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, outcome.Wrap(outcome.CodeBackendUnavailable, "calendar backend unreachable", err)
	}
	return resp, nil
}

func unexpectedStatus(operation string, status int) error {
	return outcome.Newf(outcome.CodeUpstreamServiceError, "%s: calendar backend returned status %d", operation, status)
}
