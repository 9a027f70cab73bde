package geocode

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/morgenstille/bethere/internal/logging"
	"github.com/morgenstille/bethere/internal/outcome"
)

const defaultTimeout = 10 * time.Second

// API status values returned in the response body.
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// Result is a resolved address with coordinates.
type Result struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
}

// Client wraps the Maps geocoding REST API.
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

// NewClient creates a new geocoding client for the given base URL and API key.
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
	c.logger = logging.WithBackend(c.logger, "geocode")

	return c
}

// geocodeResponse is the wire shape of a geocoding API response.
type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves an address to coordinates. The first result wins when the
// API returns several candidates.
func (c *Client) Geocode(ctx context.Context, address string) (*Result, error) {
	if strings.TrimSpace(address) == "" {
		return nil, outcome.New(outcome.CodeInvalidRequest, "address must not be empty")
	}

	c.logger.Debug("geocoding address", logging.Operation("geocode.resolve"))

	query := url.Values{}
	query.Set("address", address)
	query.Set("key", c.apiKey)

	endpoint := c.baseURL + "/maps/api/geocode/json?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, outcome.Wrap(outcome.CodeInvalidRequest, "building request", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, outcome.Wrap(outcome.CodeBackendUnavailable, "geocoding backend unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, outcome.Newf(outcome.CodeUpstreamServiceError, "geocoding backend returned status %d", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, outcome.Wrap(outcome.CodeUpstreamServiceError, "decoding geocode response", err)
	}

	switch decoded.Status {
	case statusOK:
		// An OK status with no results would crash a naive first-result
		// lookup; treat it the same as ZERO_RESULTS.
		if len(decoded.Results) == 0 {
			return nil, outcome.Newf(outcome.CodeGeocodeNotFound, "no results for %q", address)
		}
	case statusZeroResults:
		return nil, outcome.Newf(outcome.CodeGeocodeNotFound, "no results for %q", address)
	default:
		message := decoded.ErrorMessage
		if message == "" {
			message = decoded.Status
		}
		return nil, outcome.New(outcome.CodeUpstreamServiceError, message)
	}

	first := decoded.Results[0]
	return &Result{
		Latitude:         first.Geometry.Location.Lat,
		Longitude:        first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}
