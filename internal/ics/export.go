// Package ics renders calendar events as an iCalendar document for import
// into desktop and mobile calendar apps.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/morgenstille/bethere/internal/schedule"
)

// Export serializes events into a VCALENDAR document. Event times are
// rendered in UTC; saved locations become the VEVENT location plus a GEO
// property. now is used as the DTSTAMP of every component.
func Export(events []schedule.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetProductId("-//bethere//calendar export//EN")
	cal.SetMethod(ical.MethodPublish)

	stamp := now.UTC()
	for _, event := range events {
		ve := cal.AddEvent(fmt.Sprintf("%s@bethere", event.ID))
		ve.SetDtStampTime(stamp)
		ve.SetStartAt(time.Unix(event.StartTime, 0).UTC())
		ve.SetEndAt(time.Unix(event.EndTime, 0).UTC())
		ve.SetSummary(event.Title)
		if event.Location != nil {
			ve.SetLocation(event.Location.Name)
			ve.SetGeo(event.Location.Latitude, event.Location.Longitude)
		}
	}

	return cal.Serialize()
}
