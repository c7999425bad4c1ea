// Package caldav implements the calendar backend against a CalDAV server
// (iCloud by default). Credentials are service-level basic auth; the
// per-user access token in the request is not used here.
package caldav

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"

	"github.com/planpal/planpal/internal/calendar"
	"github.com/planpal/planpal/internal/domain"
)

const DefaultiCloudURL = "https://caldav.icloud.com"

type Client struct {
	baseURL      string
	username     string
	password     string
	calendarPath string
	timezone     *time.Location
	client       *caldav.Client
}

func NewClient(baseURL, username, password, calendarPath string, tz *time.Location) *Client {
	if baseURL == "" {
		baseURL = DefaultiCloudURL
	}
	if tz == nil {
		tz = time.UTC
	}
	return &Client{
		baseURL:      baseURL,
		username:     username,
		password:     password,
		calendarPath: calendarPath,
		timezone:     tz,
	}
}

// IsConfigured returns true if the client has credentials.
func (c *Client) IsConfigured() bool {
	return c.username != "" && c.password != ""
}

func (c *Client) connect() (*caldav.Client, error) {
	if c.client != nil {
		return c.client, nil
	}

	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			username: c.username,
			password: c.password,
		},
		Timeout: 30 * time.Second,
	}

	client, err := caldav.NewClient(httpClient, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to CalDAV: %w", err)
	}

	c.client = client
	return client, nil
}

type basicAuthTransport struct {
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	return http.DefaultTransport.RoundTrip(req)
}

// DiscoverCalendars returns the user's calendar paths; the calendars CLI
// command prints them so the operator can pick CALDAV_CALENDAR_PATH.
func (c *Client) DiscoverCalendars(ctx context.Context) ([]string, error) {
	client, err := c.connect()
	if err != nil {
		return nil, err
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("find home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("find calendars: %w", err)
	}

	var paths []string
	for _, cal := range cals {
		paths = append(paths, cal.Path)
	}
	return paths, nil
}

// CreateEvent PUTs a single VEVENT. The returned link is the calendar
// object path, the closest CalDAV analog of an event URL.
func (c *Client) CreateEvent(ctx context.Context, req *domain.CalendarEventRequest) (*domain.CalendarEventResult, error) {
	client, err := c.connect()
	if err != nil {
		return nil, err
	}

	if c.calendarPath == "" {
		return nil, fmt.Errorf("calendar path not configured")
	}

	uid := uuid.NewString() + "@planpal"
	cal := eventToICS(uid, req)

	eventPath := c.calendarPath
	if !strings.HasSuffix(eventPath, "/") {
		eventPath += "/"
	}
	eventPath += uid + ".ics"

	obj, err := client.PutCalendarObject(ctx, eventPath, cal)
	if err != nil {
		// Server rejections surface as a result so the engine can
		// render the message; see calendar.Creator.
		return &domain.CalendarEventResult{Err: err.Error()}, nil
	}

	link := c.baseURL + eventPath
	if obj != nil && obj.Path != "" {
		link = c.baseURL + obj.Path
	}

	return &domain.CalendarEventResult{
		EventID: uid,
		Title:   req.Title,
		Link:    link,
		Start:   req.Start,
		End:     req.End,
	}, nil
}

// ListDay queries the configured calendar for one day's VEVENTs.
func (c *Client) ListDay(ctx context.Context, _ string, day time.Time) ([]calendar.Event, error) {
	client, err := c.connect()
	if err != nil {
		return nil, err
	}

	if c.calendarPath == "" {
		return nil, fmt.Errorf("calendar path not configured")
	}

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, c.timezone)
	to := from.AddDate(0, 0, 1)

	query := &caldav.CalendarQuery{
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{
					Name:  "VEVENT",
					Start: from,
					End:   to,
				},
			},
		},
	}

	objects, err := client.QueryCalendar(ctx, c.calendarPath, query)
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}

	var events []calendar.Event
	for _, obj := range objects {
		event, err := parseCalendarObject(&obj)
		if err != nil {
			continue // skip invalid events
		}
		events = append(events, event)
	}
	return events, nil
}

func parseCalendarObject(obj *caldav.CalendarObject) (calendar.Event, error) {
	var event calendar.Event

	if obj.Data == nil {
		return event, fmt.Errorf("no data in calendar object")
	}

	for _, comp := range obj.Data.Children {
		if comp.Name != ical.CompEvent {
			continue
		}

		if prop := comp.Props.Get(ical.PropSummary); prop != nil {
			event.Title = prop.Value
		}

		if prop := comp.Props.Get(ical.PropDateTimeStart); prop != nil {
			if t, err := prop.DateTime(time.UTC); err == nil {
				event.Start = t
			}
			if valueType := prop.Params.Get(ical.ParamValue); valueType == string(ical.ValueDate) {
				event.AllDay = true
			}
		}

		if prop := comp.Props.Get(ical.PropDateTimeEnd); prop != nil {
			if t, err := prop.DateTime(time.UTC); err == nil {
				event.End = t
			}
		}

		break // only the first VEVENT
	}

	return event, nil
}

// eventToICS wraps the request in a minimal VCALENDAR. Times go out in UTC;
// iCalendar renders them with a Z suffix.
func eventToICS(uid string, req *domain.CalendarEventRequest) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//PlanPal//CalDAV//EN")

	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, uid)
	vevent.Props.SetText(ical.PropSummary, req.Title)
	vevent.Props.SetDateTime(ical.PropDateTimeStart, req.Start.UTC())
	vevent.Props.SetDateTime(ical.PropDateTimeEnd, req.End.UTC())
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())

	cal.Children = append(cal.Children, vevent.Component)
	return cal
}
