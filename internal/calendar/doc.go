// Package calendar provides a client for the calendar backend's REST API.
//
// This package offers functionality for managing calendar events, including
// creating, reading, updating, and deleting events, as well as listing the
// locations the backend knows about.
//
// Backend failures map onto the outcome error taxonomy: 404 responses become
// NOT_FOUND, 409 responses become SCHEDULING_CONFLICT, transport failures
// become BACKEND_UNAVAILABLE, and any other non-success status becomes
// UPSTREAM_SERVICE_ERROR. Callers branch on outcome.CodeOf rather than
// inspecting HTTP details.
//
// Example usage:
//
//	client := calendar.NewClient("http://localhost:3000")
//
//	// List all events
//	events, err := client.ListEvents(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
package calendar
