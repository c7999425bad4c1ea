package domain

import "time"

// CalendarEventRequest is the side effect a confirmed intent turns into.
// The engine emits it; the caller executes it against the calendar backend.
type CalendarEventRequest struct {
	Title       string
	Start       time.Time
	End         time.Time
	AccessToken string
}

// CalendarEventResult is the backend's answer to a CalendarEventRequest.
// A non-empty Err means the creation failed; Link is a URL (or object path)
// pointing at the created event.
type CalendarEventResult struct {
	EventID string
	Title   string
	Link    string
	Start   time.Time
	End     time.Time
	Err     string
}

// OK reports whether the creation succeeded. Every successful backend
// response carries the created event's ID or link; a result with neither
// is malformed and counts as a failure, rendered with the generic message
// when Err is empty.
func (r *CalendarEventResult) OK() bool {
	return r != nil && r.Err == "" && (r.EventID != "" || r.Link != "")
}
