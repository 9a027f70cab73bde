package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/morgenstille/bethere/internal/logging"
	"github.com/morgenstille/bethere/internal/outcome"
)

const defaultTimeout = 15 * time.Second

// Request constants for the Routes v2 API.
const (
	computeRoutesPath = "/directions/v2:computeRoutes"
	travelModeDrive   = "DRIVE"
	trafficAware      = "TRAFFIC_AWARE_OPTIMAL"
	fieldMask         = "routes.duration,routes.distanceMeters,routes.staticDuration"
)

// Route is a computed route between two places. Duration reflects current
// traffic; StaticDuration is the traffic-free baseline.
type Route struct {
	Duration       time.Duration
	StaticDuration time.Duration
	DistanceMeters int
}

// Kilometers returns the route distance in kilometers.
func (r Route) Kilometers() float64 {
	return float64(r.DistanceMeters) / 1000
}

// Client wraps the Routes v2 REST API.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for API requests.
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

// NewClient creates a new routing client for the given base URL and API key.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.WithBackend(c.logger, "routing")

	return c
}

// routeRequest is the wire shape of a computeRoutes request.
type routeRequest struct {
	Origin            Place  `json:"origin"`
	Destination       Place  `json:"destination"`
	TravelMode        string `json:"travelMode"`
	RoutingPreference string `json:"routingPreference"`
	DepartureTime     string `json:"departureTime"`
}

// routeResponse is the wire shape of a computeRoutes response. Durations
// arrive as strings of whole seconds, e.g. "1234s".
type routeResponse struct {
	Routes []struct {
		Duration       string `json:"duration"`
		StaticDuration string `json:"staticDuration"`
		DistanceMeters int    `json:"distanceMeters"`
	} `json:"routes"`
}

// ComputeRoute computes a traffic-aware driving route from origin to
// destination, departing now. The first returned route wins.
func (c *Client) ComputeRoute(ctx context.Context, origin, destination Place) (*Route, error) {
	c.logger.Debug("computing route", logging.Operation("routing.compute"))

	body := routeRequest{
		Origin:            origin,
		Destination:       destination,
		TravelMode:        travelModeDrive,
		RoutingPreference: trafficAware,
		DepartureTime:     "now",
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, outcome.Wrap(outcome.CodeInvalidRequest, "encoding route request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+computeRoutesPath, bytes.NewReader(encoded))
	if err != nil {
		return nil, outcome.Wrap(outcome.CodeInvalidRequest, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, outcome.Wrap(outcome.CodeBackendUnavailable, "routing backend unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, outcome.Newf(outcome.CodeUpstreamServiceError, "routing backend returned status %d", resp.StatusCode)
	}

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, outcome.Wrap(outcome.CodeUpstreamServiceError, "decoding route response", err)
	}

	if len(decoded.Routes) == 0 {
		return nil, outcome.Newf(outcome.CodeNoRouteFound, "no route from %s to %s", origin, destination)
	}

	first := decoded.Routes[0]
	duration, err := time.ParseDuration(first.Duration)
	if err != nil {
		return nil, outcome.Wrap(outcome.CodeUpstreamServiceError, "parsing route duration", err)
	}

	route := &Route{
		Duration:       duration,
		DistanceMeters: first.DistanceMeters,
	}

	// staticDuration is part of the field mask but optional in practice
	if first.StaticDuration != "" {
		if static, err := time.ParseDuration(first.StaticDuration); err == nil {
			route.StaticDuration = static
		}
	}

	return route, nil
}
