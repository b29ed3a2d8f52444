package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"lesson-booking/internal/models"
)

type GoogleCalendar struct {
	service    *gcal.Service
	calendarID string
}

// NewGoogleCalendar authenticates with a service-account key file and owns
// the single target calendar for the lifetime of the process.
func NewGoogleCalendar(ctx context.Context, credentialsFile, calendarID string) (*GoogleCalendar, error) {
	const op = "calendar.NewGoogleCalendar"

	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("%s: read credentials: %w", op, err)
	}

	jwtCfg, err := google.JWTConfigFromJSON(creds, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("%s: parse credentials: %w", op, err)
	}

	service, err := gcal.NewService(ctx, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &GoogleCalendar{service: service, calendarID: calendarID}, nil
}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, draft *models.EventDraft) (*models.CreatedEvent, error) {
	const op = "calendar.GoogleCalendar.CreateEvent"

	event := &gcal.Event{
		Summary:     draft.Title,
		Description: draft.Description,
		Start: &gcal.EventDateTime{
			DateTime: draft.Slot.Start.Format(time.RFC3339),
			TimeZone: draft.Slot.TimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: draft.Slot.End.Format(time.RFC3339),
			TimeZone: draft.Slot.TimeZone,
		},
		Reminders: &gcal.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
		},
		ConferenceData: &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             draft.ConferenceRequestID,
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
	}

	for _, email := range draft.Attendees {
		event.Attendees = append(event.Attendees, &gcal.EventAttendee{Email: email})
	}

	for _, rem := range draft.Reminders {
		event.Reminders.Overrides = append(event.Reminders.Overrides, &gcal.EventReminder{
			Method:  rem.Method,
			Minutes: rem.Minutes,
		})
	}

	created, err := g.service.Events.Insert(g.calendarID, event).
		SendUpdates("all").
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(op, err)
	}

	return &models.CreatedEvent{
		ID:       created.Id,
		MeetLink: created.HangoutLink,
	}, nil
}

func (g *GoogleCalendar) ListBusy(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error) {
	const op = "calendar.GoogleCalendar.ListBusy"

	events, err := g.service.Events.List(g.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(op, err)
	}

	var busy []models.BusyInterval
	for _, item := range events.Items {
		// all-day events carry Date instead of DateTime and do not block
		// hourly slots
		if item.Start == nil || item.End == nil || item.Start.DateTime == "" {
			continue
		}

		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			continue
		}

		busy = append(busy, models.BusyInterval{Start: start, End: end})
	}

	return busy, nil
}
