// Package schedule defines the domain types exchanged with the calendar
// backend: events, locations, and the draft/patch shapes used for writes.
//
// Times cross the tool boundary as Unix epoch seconds and are only ever
// rendered for users by the humanize package. The JSON tags on Event and
// Location are the canonical wire shape of the calendar backend, shared by
// the calendar adapter and the humanizer.
package schedule
