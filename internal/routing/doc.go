// Package routing provides a client for the Routes v2 REST API.
//
// The client computes traffic-aware driving routes between two places. A
// Place is either a free-form address or a coordinate pair; ParsePlace
// decides which, treating a string of exactly two in-range comma-separated
// numbers as a coordinate pair and anything else as an address.
//
// Failures map onto the outcome error taxonomy: an empty route list becomes
// NO_ROUTE_FOUND, transport failures become BACKEND_UNAVAILABLE, and any
// other non-success status becomes UPSTREAM_SERVICE_ERROR.
package routing
