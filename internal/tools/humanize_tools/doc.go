// Package humanize_tools provides the MCP (Model Context Protocol) tool that renders
// structured calendar and location data as readable text.
//
// The planner is instructed to pass every structured tool result through
// humanize_response before answering the user, so raw JSON, epoch timestamps,
// and coordinates never reach the conversation.
package humanize_tools
