package server

import (
	"context"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/morgenstille/bethere/internal/instrumentation"
)

// HTTPServer serves the MCP streamable HTTP transport together with the
// health endpoints.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	health     *HealthChecker
	metrics    *instrumentation.Metrics
	httpServer *http.Server
}

// NewHTTPServer creates an HTTP server for the given MCP server. The
// health checker and metrics recorder are optional.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, health *HealthChecker, metrics *instrumentation.Metrics) *HTTPServer {
	return &HTTPServer{
		mcpServer: mcpServer,
		health:    health,
		metrics:   metrics,
	}
}

// Handler builds the HTTP routing: the MCP endpoint at /mcp plus the
// health endpoints when a health checker is attached.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath("/mcp"),
	)
	mux.Handle("/mcp", s.withMetrics("/mcp", streamable))

	if s.health != nil {
		s.health.RegisterHealthEndpoints(mux)
	}

	return mux
}

// withMetrics records request count and latency for the wrapped handler.
// The route is the registered pattern, not the raw URL, so the path label
// stays bounded. Probe endpoints are left unwrapped.
func (s *HTTPServer) withMetrics(route string, next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, route, rec.status, time.Since(start))
	})
}

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps the streamable transport working behind the wrapper; the
// embedded interface alone would hide the underlying Flusher.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Start serves on addr until Shutdown is called or the listener fails.
// No WriteTimeout: streamable responses stay open for the duration of a
// tool call.
func (s *HTTPServer) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
