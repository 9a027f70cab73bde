package humanize_tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/morgenstille/bethere/internal/humanize"
	"github.com/morgenstille/bethere/internal/server"
	"github.com/morgenstille/bethere/internal/tools/common"
)

// RegisterHumanizeTools registers the response formatting tool with the MCP server
func RegisterHumanizeTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	humanizeTool := mcp.NewTool("humanize_response",
		mcp.WithDescription("Converts structured calendar/location JSON data into a human-readable message."),
		mcp.WithString("data",
			mcp.Required(),
			mcp.Description("The response body to humanize, as a JSON string"),
		),
		mcp.WithString("data_type",
			mcp.Description("One of 'locations', 'events', or 'generic'. Controls formatting style. Defaults to 'generic'."),
		),
	)

	s.AddTool(humanizeTool, common.InstrumentedToolHandler("humanize_response", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleHumanizeResponse(ctx, request, sc)
		}))

	return nil
}

func handleHumanizeResponse(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	raw, present := args["data"]
	if !present {
		return mcp.NewToolResultError("data is required"), nil
	}

	// Planners hand over structured values about as often as serialized
	// ones; re-serialize anything that is not already text.
	var data string
	switch value := raw.(type) {
	case string:
		data = value
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return mcp.NewToolResultError("data must be a string or a JSON value"), nil
		}
		data = string(encoded)
	}

	dataType, ok := common.OptionalString(args, "data_type")
	if !ok {
		dataType = "generic"
	}

	return mcp.NewToolResultText(humanize.Render(data, dataType)), nil
}
