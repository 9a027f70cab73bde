package travel_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/morgenstille/bethere/internal/instrumentation"
	"github.com/morgenstille/bethere/internal/outcome"
	"github.com/morgenstille/bethere/internal/routing"
	"github.com/morgenstille/bethere/internal/server"
	"github.com/morgenstille/bethere/internal/tools/common"
)

// RegisterRouteTools registers ETA tools with the MCP server
func RegisterRouteTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getEtaTool := mcp.NewTool("get_eta",
		mcp.WithDescription("Calculates real-time ETA between an origin and destination. Each endpoint is either a free-form address or a 'latitude,longitude' pair."),
		mcp.WithString("origin",
			mcp.Required(),
			mcp.Description("The starting point, as an address or 'latitude,longitude'"),
		),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("The destination, as an address or 'latitude,longitude'"),
		),
	)

	s.AddTool(getEtaTool, common.InstrumentedToolHandlerWithBackend(
		"get_eta", instrumentation.BackendRouting, instrumentation.OperationRoute, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEta(ctx, request, sc)
		}))

	return nil
}

func handleGetEta(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	origin, err := common.RequiredString(args, "origin")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	destination, err := common.RequiredString(args, "destination")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	route, err := sc.RoutingClient().ComputeRoute(ctx, routing.ParsePlace(origin), routing.ParsePlace(destination))
	if err != nil {
		if outcome.HasCode(err, outcome.CodeNoRouteFound) {
			return mcp.NewToolResultError("Google Routes API Error: No routes found."), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Error calling Google Routes API: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("The current ETA from %s to %s is %s (%.1f km).",
		origin, destination, formatTravelTime(route.Duration), route.Kilometers())), nil
}

// formatTravelTime renders a travel time the way a navigation app would,
// e.g. "1 hr 5 min" or "21 min". Seconds only show below the hour mark.
func formatTravelTime(d time.Duration) string {
	d = d.Round(time.Second)
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	seconds := int(d % time.Minute / time.Second)

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%d hr %d min", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%d hr", hours)
	case minutes > 0 && seconds > 0:
		return fmt.Sprintf("%d min %d sec", minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%d min", minutes)
	default:
		return fmt.Sprintf("%d sec", seconds)
	}
}
