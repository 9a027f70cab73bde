// Package geocode provides a client for the Maps geocoding REST API.
//
// The client resolves free-form addresses to coordinates. API-level statuses
// map onto the outcome error taxonomy: ZERO_RESULTS becomes GEOCODE_NOT_FOUND,
// any other non-OK status becomes UPSTREAM_SERVICE_ERROR carrying the API's
// error message, and transport failures become BACKEND_UNAVAILABLE.
package geocode
