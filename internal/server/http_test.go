package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

func TestHTTPServer_Handler(t *testing.T) {
	sc, err := NewServerContext(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer sc.Shutdown()

	mcpSrv := mcpserver.NewMCPServer("test", "0.0.0",
		mcpserver.WithToolCapabilities(true),
	)
	srv := NewHTTPServer(mcpSrv, NewHealthChecker(sc), nil)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz status = %d, expected 200", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET /readyz error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /readyz status = %d, expected 200", resp.StatusCode)
	}

	// The MCP endpoint is mounted; anything but 404 proves the route exists.
	resp, err = http.Get(ts.URL + "/mcp")
	if err != nil {
		t.Fatalf("GET /mcp error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		t.Error("GET /mcp returned 404, endpoint not mounted")
	}
}

func TestHTTPServer_HandlerWithoutHealth(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("test", "0.0.0",
		mcpserver.WithToolCapabilities(true),
	)
	srv := NewHTTPServer(mcpSrv, nil, nil)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /healthz status = %d, expected 404 without health checker", resp.StatusCode)
	}
}

func TestHTTPServer_MetricsWrapperKeepsEndpointServing(t *testing.T) {
	provider := metricsTestProvider(t, true)

	mcpSrv := mcpserver.NewMCPServer("test", "0.0.0",
		mcpserver.WithToolCapabilities(true),
	)
	srv := NewHTTPServer(mcpSrv, nil, provider.Metrics())

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	// The wrapped endpoint must still reach the streamable transport.
	resp, err := http.Get(ts.URL + "/mcp")
	if err != nil {
		t.Fatalf("GET /mcp error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		t.Error("GET /mcp returned 404, endpoint not mounted")
	}
}

func TestHTTPServer_ShutdownBeforeStart(t *testing.T) {
	srv := NewHTTPServer(mcpserver.NewMCPServer("test", "0.0.0"), nil, nil)
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() before Start error = %v", err)
	}
}
