package domain

import (
	"fmt"
	"time"
)

// DefaultTitle is used when the parsed input contains nothing but date/time phrases.
const DefaultTitle = "Nieuw event"

// ParsedIntent is the structured event intent extracted from one user message.
// It is only produced when a date could be resolved; Time and Title always
// carry a value (defaults applied by the parser).
type ParsedIntent struct {
	Date  time.Time // midnight in the session's timezone, no time component
	Time  string    // "HH:MM", 24-hour
	Title string
}

// Start combines the resolved date and the "HH:MM" time into a single
// instant in the given location. Seconds and below are zero.
func (i *ParsedIntent) Start(loc *time.Location) time.Time {
	var hour, min int
	fmt.Sscanf(i.Time, "%d:%d", &hour, &min)
	return time.Date(i.Date.Year(), i.Date.Month(), i.Date.Day(), hour, min, 0, 0, loc)
}

// End returns the default event end, one hour after Start.
func (i *ParsedIntent) End(loc *time.Location) time.Time {
	return i.Start(loc).Add(time.Hour)
}
