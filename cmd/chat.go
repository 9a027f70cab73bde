package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/morgenstille/bethere/internal/agent"
	"github.com/morgenstille/bethere/internal/config"
	"github.com/morgenstille/bethere/internal/history"
	"github.com/morgenstille/bethere/internal/logging"
	"github.com/morgenstille/bethere/internal/planner"
	"github.com/morgenstille/bethere/internal/server"
	"github.com/morgenstille/bethere/internal/tui"
)

func newChatCmd() *cobra.Command {
	var (
		once      string
		noHistory bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in the terminal",
		Long: `Start an interactive terminal chat with the assistant. Each message runs
the planning loop against the configured Ollama model, which answers
calendar and travel questions through the same tools the MCP server
exposes.

Use --once to ask a single question without the interactive UI, e.g. for
scripting:

  bethere chat --once "what's on my calendar today?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runChat(cfg, once, noHistory)
		},
	}

	cmd.Flags().StringVar(&once, "once", "", "Ask a single question and print the answer instead of starting the UI")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not persist this conversation to the history store")

	return cmd
}

func runChat(cfg *config.Config, once string, noHistory bool) error {
	ctx := context.Background()

	serverContext, err := server.NewServerContext(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	// The chat drives the same tool surface the MCP server exposes,
	// through an in-process client.
	mcpSrv := mcpserver.NewMCPServer("bethere", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, true),
	)
	if err := registerAllTools(mcpSrv, serverContext, false); err != nil {
		return err
	}

	// One chat run is one session. The registry expires it if the user
	// walks away, and the ID threads through history, audit logs and
	// metrics.
	sessionID := serverContext.Sessions().Begin()
	defer serverContext.Sessions().End(sessionID)

	dispatcher, err := agent.NewDispatcher(ctx, mcpSrv, agent.WithSession(sessionID))
	if err != nil {
		return err
	}
	defer func() {
		_ = dispatcher.Close()
	}()

	loop, err := agent.NewLoop(agent.LoopConfig{
		Planner:       planner.NewOllama(cfg.Planner.BaseURL, cfg.Planner.Model),
		Tools:         dispatcher,
		MaxIterations: cfg.Agent.MaxIterations,
	})
	if err != nil {
		return err
	}

	var store *history.Store
	if !noHistory {
		store = openHistory(cfg)
		if store != nil {
			defer func() {
				_ = store.Close()
			}()
		}
	}

	transcript := []agent.Message{
		{Role: agent.RoleSystem, Content: agent.SystemPrompt(time.Now())},
	}

	if once != "" {
		return runOnce(ctx, loop, store, sessionID, transcript, once)
	}

	return tui.Run(tui.Config{
		Runner:     loop,
		Store:      store,
		SessionID:  sessionID,
		Transcript: transcript,
	})
}

// openHistory opens the history store. Persistence is advisory, so any
// failure only logs a warning and the chat runs without history.
func openHistory(cfg *config.Config) *history.Store {
	path, err := cfg.History.ResolvedPath()
	if err != nil {
		slog.Warn("chat history disabled", logging.Err(err))
		return nil
	}
	store, err := history.Open(path)
	if err != nil {
		slog.Warn("chat history disabled", "path", path, logging.Err(err))
		return nil
	}
	return store
}

// runOnce answers a single question and prints the result, for scripting.
func runOnce(ctx context.Context, loop *agent.Loop, store *history.Store, sessionID string, transcript []agent.Message, message string) error {
	answer, updated, err := loop.Run(ctx, transcript, message)
	if err != nil {
		return err
	}
	if store != nil {
		if err := store.AppendAll(ctx, sessionID, updated[len(transcript):]); err != nil {
			slog.Warn("failed to persist turn",
				logging.Session(sessionID),
				logging.Err(err))
		}
	}
	fmt.Println(answer)
	return nil
}
