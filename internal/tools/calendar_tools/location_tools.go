package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/morgenstille/bethere/internal/instrumentation"
	"github.com/morgenstille/bethere/internal/server"
	"github.com/morgenstille/bethere/internal/tools/common"
)

// RegisterLocationTools registers location lookup tools with the MCP server
func RegisterLocationTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Locations are advisory data, so the tool degrades to an empty list
	// instead of erroring when the backend cannot serve them.
	getAllLocationsTool := mcp.NewTool("get_all_locations",
		mcp.WithDescription("Gets all known locations from the calendar service. Returns a list of location objects."),
	)

	s.AddTool(getAllLocationsTool, common.InstrumentedToolHandlerWithBackend(
		"get_all_locations", instrumentation.BackendCalendar, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetAllLocations(ctx, request, sc)
		}))

	return nil
}

func handleGetAllLocations(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	locations := sc.CalendarClient().ListLocations(ctx)

	payload, err := json.Marshal(locations)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error fetching locations: %v", err)), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}
