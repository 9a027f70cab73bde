package schedule

import (
	"fmt"
	"time"
)

// Event represents a calendar entry as exchanged with the calendar backend.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime int64     `json:"startDatetime"`
	EndTime   int64     `json:"endDatetime"`
	Location  *Location `json:"location,omitempty"`
}

// Location represents a named place with coordinates. Locations are either
// pre-registered in the backend or derived ad hoc from geocoding an address.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EventDraft is an event without an ID, used for creation. The backend
// assigns the ID.
type EventDraft struct {
	Title     string
	StartTime int64
	EndTime   int64
	Location  Location
}

// EventPatch is a partial update. Nil fields are left unchanged.
type EventPatch struct {
	Title     *string
	StartTime *int64
	EndTime   *int64
}

// Start returns the event start as a time.Time.
func (e Event) Start() time.Time { return time.Unix(e.StartTime, 0) }

// End returns the event end as a time.Time.
func (e Event) End() time.Time { return time.Unix(e.EndTime, 0) }

// Validate checks the structural invariants of an event: a positive time
// range and, when a location is present, in-range coordinates. It is a local
// sanity check, not a substitute for backend validation.
func (e Event) Validate() error {
	if e.EndTime <= e.StartTime {
		return fmt.Errorf("event end time %d must be after start time %d", e.EndTime, e.StartTime)
	}
	if e.Location != nil {
		if err := e.Location.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks coordinate ranges: latitude within ±90, longitude within ±180.
func (l Location) Validate() error {
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", l.Longitude)
	}
	return nil
}

// Validate checks the draft's time range and location coordinates.
func (d EventDraft) Validate() error {
	if d.EndTime <= d.StartTime {
		return fmt.Errorf("event end time %d must be after start time %d", d.EndTime, d.StartTime)
	}
	return d.Location.Validate()
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.StartTime == nil && p.EndTime == nil
}

// Validate rejects a patch whose supplied fields would produce an inverted
// time range. When only one endpoint is supplied the check is deferred to the
// backend, which knows the other half.
func (p EventPatch) Validate() error {
	if p.StartTime != nil && p.EndTime != nil && *p.EndTime <= *p.StartTime {
		return fmt.Errorf("event end time %d must be after start time %d", *p.EndTime, *p.StartTime)
	}
	return nil
}
