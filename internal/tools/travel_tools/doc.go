// Package travel_tools provides MCP (Model Context Protocol) tools for travel times and geocoding.
//
// This package exposes the mapping provider through a standardized MCP
// interface: real-time driving ETAs between two places and address-to-coordinate
// resolution. Route endpoints accept either a free-form address or a
// "latitude,longitude" pair, independently per endpoint.
package travel_tools
