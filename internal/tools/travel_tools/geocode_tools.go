package travel_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/morgenstille/bethere/internal/instrumentation"
	"github.com/morgenstille/bethere/internal/outcome"
	"github.com/morgenstille/bethere/internal/server"
	"github.com/morgenstille/bethere/internal/tools/common"
)

// RegisterGeocodeTools registers geocoding tools with the MCP server
func RegisterGeocodeTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getLatLongTool := mcp.NewTool("get_lat_long_for_address",
		mcp.WithDescription("Gets the latitude and longitude for a given address using Google Maps."),
		mcp.WithString("address",
			mcp.Required(),
			mcp.Description("The address to geocode (e.g., '1600 Amphitheatre Parkway, Mountain View, CA')"),
		),
	)

	s.AddTool(getLatLongTool, common.InstrumentedToolHandlerWithBackend(
		"get_lat_long_for_address", instrumentation.BackendGeocoding, instrumentation.OperationGeocode, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetLatLongForAddress(ctx, request, sc)
		}))

	return nil
}

func handleGetLatLongForAddress(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	address, err := common.RequiredString(args, "address")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := sc.GeocodeClient().Geocode(ctx, address)
	if err != nil {
		// Resolution failures keep their outcome code in the text so the
		// planner can ask the user for a better address on GEOCODE_NOT_FOUND.
		if outcome.HasCode(err, outcome.CodeGeocodeNotFound) || outcome.HasCode(err, outcome.CodeUpstreamServiceError) {
			return mcp.NewToolResultError(fmt.Sprintf("Google Maps Geocoding API Error: %v", err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Error calling Google Maps Geocoding API: %v", err)), nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error calling Google Maps Geocoding API: %v", err)), nil
	}

	return mcp.NewToolResultText(string(payload)), nil
}
