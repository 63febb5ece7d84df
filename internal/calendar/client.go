// Package calendar is the Google Calendar collaborator: it reads the
// clinic calendar's events for the availability engine and writes the
// appointment event when a booking is submitted. Credentials are
// server-brokered — an OAuth2 client plus a stored refresh token — so
// no Google credential ever reaches the widget.
package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"dkdental-booking/internal/booking"
)

// Credentials holds the OAuth2 client and the offline refresh token
// authorised for the clinic's Google account.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Client wraps the Calendar API for one clinic calendar.
type Client struct {
	svc        *gcal.Service
	calendarID string
	loc        *time.Location
}

// TokenSource builds a self-refreshing token source from the stored
// refresh token. Token refresh is the oauth2 package's job.
func (c Credentials) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "" {
		return nil, fmt.Errorf("calendar: incomplete google credentials")
	}
	conf := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Scopes:       []string{gcal.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}
	return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: c.RefreshToken}), nil
}

// NewClient constructs a Calendar client for the given calendar ID.
func NewClient(ctx context.Context, creds Credentials, calendarID string, loc *time.Location) (*Client, error) {
	ts, err := creds.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := gcal.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("calendar: create service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{svc: svc, calendarID: calendarID, loc: loc}, nil
}

// Events fetches every event in [from, to) as a single expanded,
// chronologically ordered list. Any API failure is returned as-is;
// the caller must treat it as "availability unknown", never as an
// empty calendar.
func (c *Client) Events(ctx context.Context, from, to time.Time) ([]booking.Event, error) {
	call := c.svc.Events.List(c.calendarID).
		Context(ctx).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		MaxResults(2500)

	var events []booking.Event
	pageToken := ""
	for {
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("calendar: list events: %w", err)
		}
		for _, item := range res.Items {
			ev, err := mapEvent(item, c.loc)
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
		}
		pageToken = res.NextPageToken
		if pageToken == "" {
			return events, nil
		}
	}
}

// mapEvent converts one API event into the engine's typed event.
// Date-only start/end values mark the event as all-day.
func mapEvent(item *gcal.Event, loc *time.Location) (booking.Event, error) {
	ev := booking.Event{
		ID:           item.Id,
		Summary:      item.Summary,
		EventType:    item.EventType,
		Transparency: item.Transparency,
	}
	if item.Start == nil || item.Start.DateTime == "" {
		ev.AllDay = true
		return ev, nil
	}
	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return booking.Event{}, fmt.Errorf("calendar: event %s: bad start: %w", item.Id, err)
	}
	ev.Start = start.In(loc)
	if item.End != nil && item.End.DateTime != "" {
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			return booking.Event{}, fmt.Errorf("calendar: event %s: bad end: %w", item.Id, err)
		}
		ev.End = end.In(loc)
	}
	return ev, nil
}

// CreateAppointment writes the booked appointment onto the clinic
// calendar and returns the created event ID.
func (c *Client) CreateAppointment(ctx context.Context, appt booking.Appointment) (string, error) {
	event := &gcal.Event{
		Summary: fmt.Sprintf("%s - %s", appt.Service.Label(), appt.Contact.Name),
		Description: fmt.Sprintf("Booking reference: %s\nName: %s\nPhone: %s\nEmail: %s",
			appt.Reference, appt.Contact.Name, appt.Contact.Phone, appt.Contact.Email),
		Start: &gcal.EventDateTime{DateTime: appt.Start.Format(time.RFC3339)},
		End:   &gcal.EventDateTime{DateTime: appt.End.Format(time.RFC3339)},
	}
	created, err := c.svc.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar: insert event: %w", err)
	}
	return created.Id, nil
}
