// Package calendar_tools provides MCP (Model Context Protocol) tools for calendar operations.
//
// This package exposes the calendar backend through a standardized MCP interface,
// allowing AI assistants to list, inspect, create, update, and delete events on
// behalf of users, and to look up the user's saved locations.
//
// Successful tool results carry JSON payloads as text; the humanize_response
// tool renders them for the user. Failures are returned as tool-result errors
// so the planner can read and narrate them instead of hitting a transport fault.
package calendar_tools
