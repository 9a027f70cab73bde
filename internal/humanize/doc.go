// Package humanize renders structured backend responses as readable chat
// messages.
//
// All stored times are epoch seconds, and this package is where they
// become human text: the events view renders start and end using the
// "2006-01-02 15:04" layout in local time and never exposes coordinates,
// while the locations view lists each name with its latitude and
// longitude. Payloads that match no known kind fall back to
// pretty-printed JSON, and input that is not JSON at all is passed
// through unchanged.
package humanize
