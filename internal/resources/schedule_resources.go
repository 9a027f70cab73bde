package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/morgenstille/bethere/internal/schedule"
	"github.com/morgenstille/bethere/internal/server"
)

// RegisterScheduleResources registers the read-only schedule resources.
func RegisterScheduleResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	locationsResource := mcp.NewResource(
		"bethere://locations",
		"Saved Locations",
		mcp.WithResourceDescription("All locations saved in the calendar backend, with coordinates"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(locationsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleLocations(ctx, request, sc)
	})

	todayResource := mcp.NewResource(
		"bethere://events/today",
		"Today's Events",
		mcp.WithResourceDescription("Calendar events starting today, in start order as stored"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(todayResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleEventsToday(ctx, request, sc)
	})

	return nil
}

// handleLocations returns the saved location list.
func handleLocations(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	locations := sc.CalendarClient().ListLocations(ctx)

	jsonData, err := json.MarshalIndent(locations, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal locations: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleEventsToday returns the events whose start time falls on the current day.
func handleEventsToday(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	events, err := sc.CalendarClient().ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	today := eventsToday(events, time.Now())

	jsonData, err := json.MarshalIndent(today, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal events: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// eventsToday filters events to those starting within now's calendar day, in
// now's time zone.
func eventsToday(events []schedule.Event, now time.Time) []schedule.Event {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	today := []schedule.Event{}
	for _, event := range events {
		start := time.Unix(event.StartTime, 0).In(now.Location())
		if !start.Before(dayStart) && start.Before(dayEnd) {
			today = append(today, event)
		}
	}
	return today
}
