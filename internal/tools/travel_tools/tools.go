package travel_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/morgenstille/bethere/internal/server"
)

// RegisterTravelTools registers all travel-related tools with the MCP server
func RegisterTravelTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Register route tools
	if err := RegisterRouteTools(s, sc); err != nil {
		return fmt.Errorf("failed to register route tools: %w", err)
	}

	// Register geocode tools
	if err := RegisterGeocodeTools(s, sc); err != nil {
		return fmt.Errorf("failed to register geocode tools: %w", err)
	}

	return nil
}
