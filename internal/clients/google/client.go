// Package google implements the calendar backend against the Google
// Calendar API, creating events in the user's primary calendar with their
// own OAuth token.
package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/planpal/planpal/internal/calendar"
	"github.com/planpal/planpal/internal/domain"
)

const primaryCalendar = "primary"

// Client builds a Calendar API service per call from the per-user access
// token carried in the request. It holds no user state itself.
type Client struct {
	timezone *time.Location
}

func NewClient(tz *time.Location) *Client {
	if tz == nil {
		tz = time.UTC
	}
	return &Client{timezone: tz}
}

func (c *Client) service(ctx context.Context, accessToken string) (*gcal.Service, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("empty access token")
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := gcal.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return svc, nil
}

// CreateEvent inserts the event into the primary calendar. API-level
// failures come back as a result with Err set to Google's message, so the
// engine can render it; only transport/setup problems return an error.
func (c *Client) CreateEvent(ctx context.Context, req *domain.CalendarEventRequest) (*domain.CalendarEventResult, error) {
	svc, err := c.service(ctx, req.AccessToken)
	if err != nil {
		return nil, err
	}

	event := &gcal.Event{
		Summary: req.Title,
		Start: &gcal.EventDateTime{
			DateTime: req.Start.Format(time.RFC3339),
			TimeZone: c.timezone.String(),
		},
		End: &gcal.EventDateTime{
			DateTime: req.End.Format(time.RFC3339),
			TimeZone: c.timezone.String(),
		},
	}

	created, err := svc.Events.Insert(primaryCalendar, event).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return &domain.CalendarEventResult{Err: apiErr.Message}, nil
		}
		return nil, fmt.Errorf("insert event: %w", err)
	}

	result := &domain.CalendarEventResult{
		EventID: created.Id,
		Title:   created.Summary,
		Link:    created.HtmlLink,
	}
	if created.Start != nil {
		result.Start, _ = time.Parse(time.RFC3339, created.Start.DateTime)
	}
	if created.End != nil {
		result.End, _ = time.Parse(time.RFC3339, created.End.DateTime)
	}
	return result, nil
}

// ListDay returns the events of one calendar day, ordered by start time.
func (c *Client) ListDay(ctx context.Context, accessToken string, day time.Time) ([]calendar.Event, error) {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, c.timezone)
	to := from.AddDate(0, 0, 1)

	list, err := svc.Events.List(primaryCalendar).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	var events []calendar.Event
	for _, item := range list.Items {
		if item.Start == nil {
			continue
		}
		ev := calendar.Event{Title: item.Summary}
		if item.Start.DateTime != "" {
			ev.Start, _ = time.Parse(time.RFC3339, item.Start.DateTime)
			if item.End != nil {
				ev.End, _ = time.Parse(time.RFC3339, item.End.DateTime)
			}
		} else {
			// Date-only start means an all-day event.
			ev.AllDay = true
			ev.Start, _ = time.ParseInLocation("2006-01-02", item.Start.Date, c.timezone)
		}
		events = append(events, ev)
	}
	return events, nil
}

// OAuthConfig returns the OAuth2 config used by the auth flow and by token
// refresh. The out-of-band redirect matches the CLI auth command.
func OAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{gcal.CalendarEventsScope},
		Endpoint:     googleoauth.Endpoint,
	}
}
