// Package cmd implements the command-line interface for bethere.
//
// This package provides the following commands:
//   - chat: Interactive terminal chat with the assistant
//   - serve: Start the MCP server exposing the calendar and travel tools
//   - history: List stored chat sessions or replay one
//   - export: Export calendar events to an iCalendar file
//   - docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The chat command is the default command when no subcommand is specified.
package cmd
