package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/morgenstille/bethere/internal/agent"
	"github.com/morgenstille/bethere/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "List stored chat sessions or replay one",
		Long: `Without arguments, list the stored chat sessions. With a session ID (or
a unique prefix of one), replay that session's transcript.

By default the replay shows only the conversation; use --full to include
tool calls, tool results and protocol messages.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path, err := cfg.History.ResolvedPath()
			if err != nil {
				return err
			}
			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := context.Background()
			if len(args) == 0 {
				return listSessions(ctx, store)
			}
			return replaySession(ctx, store, args[0], full)
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Include tool calls and protocol messages in the replay")

	return cmd
}

func listSessions(ctx context.Context, store *history.Store) error {
	sessions, err := store.Sessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No stored sessions.")
		return nil
	}

	fmt.Printf("%-36s  %8s  %s\n", "SESSION", "MESSAGES", "LAST USED")
	for _, sess := range sessions {
		fmt.Printf("%-36s  %8d  %s\n",
			sess.ID, sess.Messages, sess.LastUsed.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func replaySession(ctx context.Context, store *history.Store, id string, full bool) error {
	sessions, err := store.Sessions(ctx)
	if err != nil {
		return err
	}
	resolved, err := resolveSessionID(sessions, id)
	if err != nil {
		return err
	}

	messages, err := store.Messages(ctx, resolved)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		switch msg.Role {
		case agent.RoleUser:
			fmt.Printf("you: %s\n", msg.Content)
		case agent.RoleAssistant:
			// Assistant entries that encode tool calls are protocol
			// traffic, not conversation.
			if full || !strings.HasPrefix(strings.TrimSpace(msg.Content), "{") {
				fmt.Printf("bethere: %s\n", msg.Content)
			}
		default:
			if full {
				fmt.Printf("[%s] %s\n", msg.Role, msg.Content)
			}
		}
	}
	return nil
}

// resolveSessionID matches id exactly or as a unique prefix.
func resolveSessionID(sessions []history.Session, id string) (string, error) {
	var matches []string
	for _, sess := range sessions {
		if sess.ID == id {
			return sess.ID, nil
		}
		if strings.HasPrefix(sess.ID, id) {
			matches = append(matches, sess.ID)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no session found matching %q", id)
	default:
		return "", fmt.Errorf("session prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}
