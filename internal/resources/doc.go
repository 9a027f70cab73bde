// Package resources provides read-only MCP resources next to the tool
// surface: the saved location list and a view of today's events. Clients
// that prefer fetching context over calling tools read these instead.
package resources
