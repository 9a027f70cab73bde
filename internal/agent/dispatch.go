package agent

import (
	"context"
	"fmt"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/morgenstille/bethere/internal/tools/common"
)

// Dispatcher routes tool calls from the orchestration loop to an MCP server
// hosted in the same process. The loop stays transport agnostic and the chat
// command sees the exact tool surface a remote MCP client would.
type Dispatcher struct {
	client  *mcpclient.Client
	session string
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSession stamps dispatched tool calls with the conversation session
// ID, so audit records and metrics attribute them to the chat session.
func WithSession(id string) DispatcherOption {
	return func(d *Dispatcher) {
		d.session = id
	}
}

// NewDispatcher connects an in-process MCP client to srv and performs the
// initialize handshake.
func NewDispatcher(ctx context.Context, srv *mcpserver.MCPServer, opts ...DispatcherOption) (*Dispatcher, error) {
	cli, err := mcpclient.NewInProcessClient(srv)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-process MCP client: %w", err)
	}
	if err := cli.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start in-process MCP client: %w", err)
	}

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "bethere-chat",
		Version: "1.0.0",
	}
	if _, err := cli.Initialize(ctx, initRequest); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("failed to initialize in-process MCP client: %w", err)
	}

	d := &Dispatcher{client: cli}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// CallTool forwards a tool call to the in-process server. The in-process
// transport hands the handler this same context, so the session stamp
// survives the hop.
func (d *Dispatcher) CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if d.session != "" {
		ctx = common.WithSession(ctx, d.session)
	}
	return d.client.CallTool(ctx, request)
}

// Close shuts down the in-process client.
func (d *Dispatcher) Close() error {
	return d.client.Close()
}
