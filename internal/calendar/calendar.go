// Package calendar defines the boundary to the external calendar backend.
// The core only ever sees these interfaces; Google and CalDAV clients
// implement them.
package calendar

import (
	"context"
	"time"

	"github.com/planpal/planpal/internal/domain"
)

// Creator turns a confirmed event request into a created calendar event.
// A backend-reported failure comes back as a result with Err set; a
// returned error means the call itself could not be made.
type Creator interface {
	CreateEvent(ctx context.Context, req *domain.CalendarEventRequest) (*domain.CalendarEventResult, error)
}

// Lister reads a day's agenda, used by /agenda and the morning briefing.
type Lister interface {
	ListDay(ctx context.Context, accessToken string, day time.Time) ([]Event, error)
}

// Backend is what the application wires up: one client serving both roles.
type Backend interface {
	Creator
	Lister
}

// Event is a read-only agenda entry.
type Event struct {
	Title  string
	Start  time.Time
	End    time.Time
	AllDay bool
}
