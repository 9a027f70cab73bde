package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/morgenstille/bethere/internal/config"
	"github.com/morgenstille/bethere/internal/instrumentation"
	"github.com/morgenstille/bethere/internal/logging"
	"github.com/morgenstille/bethere/internal/resources"
	"github.com/morgenstille/bethere/internal/server"
	"github.com/morgenstille/bethere/internal/tools/calendar_tools"
	"github.com/morgenstille/bethere/internal/tools/humanize_tools"
	"github.com/morgenstille/bethere/internal/tools/travel_tools"
)

func newServeCmd() *cobra.Command {
	var (
		debugMode      bool
		transport      string
		httpAddr       string
		readOnly       bool
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing the calendar,
travel-time and formatting tools for AI assistants.

The server speaks either of two transports:
  - stdio (default), for assistants that spawn the server as a child process
  - streamable-http, for assistants that connect over the network

Write operations (event create, update, delete) are enabled by default.
Use --read-only to expose only the query tools.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Flags beat the config file when set explicitly.
			if cmd.Flags().Changed("transport") {
				cfg.Server.Transport = transport
			}
			if cmd.Flags().Changed("http-addr") {
				cfg.Server.HTTPAddr = httpAddr
			}
			if cmd.Flags().Changed("metrics-enabled") {
				cfg.Server.MetricsEnabled = metricsEnabled
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Server.MetricsAddr = metricsAddr
			}
			if debugMode {
				cfg.Log.Level = "debug"
				if err := setupLogging(cfg); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runServe(cfg, readOnly)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", config.DefaultTransport, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", config.DefaultHTTPAddr, "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Expose only the query tools; disables event create, update and delete")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", false, "Serve Prometheus metrics on a dedicated port (streamable-http only)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", config.DefaultMetricsAddr, "Metrics server address")

	return cmd
}

func runServe(cfg *config.Config, readOnly bool) error {
	// SIGINT and SIGTERM cancel the root context; everything below hangs
	// its shutdown off it.
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// On stdio the protocol owns stdout and stderr belongs to the client,
	// so shutdown errors stay quiet there.
	stdio := cfg.Server.Transport == "stdio"

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil && !stdio {
			slog.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	serverContext, err := server.NewServerContext(shutdownCtx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil && !stdio {
			slog.Error("server context shutdown failed", logging.Err(err))
		}
	}()

	if provider.Enabled() {
		serverContext.SetInstrumentation(provider)
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}

	mcpSrv := mcpserver.NewMCPServer("bethere", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, true),
	)

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	if !stdio {
		if readOnly {
			slog.Info("starting server in read-only mode")
		} else {
			slog.Info("starting server with write operations enabled")
		}
	}

	switch cfg.Server.Transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runHTTPServer(shutdownCtx, mcpSrv, serverContext, provider, cfg)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Server.Transport)
	}
}

// runStdioServer blocks until the client closes stdin or the stream fails.
func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("stdio server stopped: %w", err)
	}
	return nil
}

// registerAllTools wires the tool packages and the schedule resources into
// the MCP server. Read-only mode leaves out the event write tools.
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := calendar_tools.RegisterCalendarTools(mcpSrv, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register calendar tools: %w", err)
	}
	if err := travel_tools.RegisterTravelTools(mcpSrv, sc); err != nil {
		return fmt.Errorf("failed to register travel tools: %w", err)
	}
	if err := humanize_tools.RegisterHumanizeTools(mcpSrv, sc); err != nil {
		return fmt.Errorf("failed to register humanize tools: %w", err)
	}
	if err := resources.RegisterScheduleResources(mcpSrv, sc); err != nil {
		return fmt.Errorf("failed to register schedule resources: %w", err)
	}
	return nil
}

func runHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, provider *instrumentation.Provider, cfg *config.Config) error {
	healthChecker := server.NewHealthChecker(sc)
	healthChecker.StartCalendarProbe(ctx, server.DefaultProbeInterval)

	// The metrics listener is separate from the MCP port so it can stay
	// cluster-internal while the MCP endpoint is exposed.
	var metricsServer *server.MetricsServer
	if cfg.Server.MetricsEnabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.Server.MetricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
			Health:                  healthChecker,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server failed", logging.Err(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	httpServer := server.NewHTTPServer(mcpSrv, healthChecker, provider.Metrics())

	slog.Info("starting streamable HTTP server",
		"addr", cfg.Server.HTTPAddr,
		"mcp_endpoint", "/mcp")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(cfg.Server.HTTPAddr); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	return nil
}
