package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"lesson-booking/api"
	"lesson-booking/internal/cache"
	"lesson-booking/internal/calendar"
	"lesson-booking/internal/clock"
	"lesson-booking/internal/config"
	"lesson-booking/internal/models"
	"lesson-booking/pkg/response"
	"lesson-booking/pkg/sl"
)

const (
	eventTitle       = "English Trial Lesson"
	eventDescription = "Trial lesson with %s"

	slotCacheTTL = time.Minute
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service struct {
	provider calendar.Provider
	store    Store
	cache    cache.Cache
	clock    clock.Clock
	cfg      config.Calendar
	hours    config.BusinessHours
	log      *slog.Logger
}

type Store interface {
	SaveBooking(ctx context.Context, booking *models.Booking) error
	ListBookings(ctx context.Context, from, to *time.Time) ([]*models.Booking, error)
	SaveContact(ctx context.Context, contact *models.Contact) error
	ListContacts(ctx context.Context) ([]*models.Contact, error)
}

func NewService(provider calendar.Provider, store Store, c cache.Cache, clk clock.Clock,
	cfg config.Calendar, hours config.BusinessHours, log *slog.Logger) *Service {
	return &Service{
		provider: provider,
		store:    store,
		cache:    c,
		clock:    clk,
		cfg:      cfg,
		hours:    hours,
		log:      log,
	}
}

// #### bookings ####

// CreateBooking validates the request, builds the event draft and submits
// it to the calendar provider. No provider call happens on invalid input.
// The attempt is fire-once: provider failures are returned, never retried.
func (s *Service) CreateBooking(ctx context.Context, req *api.BookRequest) (*api.BookResult, error) {
	const op = "service.CreateBooking"

	start, err := s.validateBooking(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slot := models.NewLessonSlot(start, s.cfg.LessonDuration, s.cfg.TimeZone)

	draft := &models.EventDraft{
		Title:       eventTitle,
		Description: fmt.Sprintf(eventDescription, req.StudentName),
		Slot:        slot,
		Attendees:   []string{req.StudentEmail},
		Reminders: []models.EventReminder{
			{Method: "email", Minutes: 24 * 60},
			{Method: "popup", Minutes: 30},
		},
		// the arrival timestamp keeps retried submissions from reusing a
		// still-pending conference allocation
		ConferenceRequestID: fmt.Sprintf("lesson-%d", s.clock.Now().UnixMilli()),
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	created, err := s.provider.CreateEvent(callCtx, draft)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.recordBooking(ctx, req, slot, created)

	return &api.BookResult{
		Success:  true,
		EventID:  created.ID,
		MeetLink: created.MeetLink,
	}, nil
}

func (s *Service) validateBooking(req *api.BookRequest) (time.Time, error) {
	if strings.TrimSpace(req.StudentName) == "" {
		return time.Time{}, &response.ValidationError{Field: "studentName", Reason: "is required"}
	}

	if !emailRe.MatchString(req.StudentEmail) {
		return time.Time{}, &response.ValidationError{Field: "studentEmail", Reason: "must be a valid email address"}
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return time.Time{}, &response.ValidationError{Field: "startTime", Reason: "must be a valid RFC3339 timestamp"}
	}

	if start.Before(s.clock.Now()) {
		return time.Time{}, &response.ValidationError{Field: "startTime", Reason: "must not be in the past"}
	}

	return start, nil
}

// recordBooking mirrors the confirmed lesson into storage for the admin
// listing. The calendar event is the source of truth: a failed insert must
// not turn a confirmed lesson into an error for the student.
func (s *Service) recordBooking(ctx context.Context, req *api.BookRequest, slot models.LessonSlot, created *models.CreatedEvent) {
	const op = "service.recordBooking"

	booking := &models.Booking{
		ID:           uuid.NewString(),
		EventID:      created.ID,
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		StartTime:    slot.Start,
		EndTime:      slot.End,
		MeetLink:     created.MeetLink,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.store.SaveBooking(ctx, booking); err != nil {
		s.log.Error("Failed to record booking", slog.String("op", op), sl.Err(err))
	}
}

func (s *Service) ListBookings(ctx context.Context, from, to *time.Time) ([]*api.BookingResponse, error) {
	const op = "service.ListBookings"

	bookings, err := s.store.ListBookings(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := make([]*api.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = &api.BookingResponse{
			ID:           b.ID,
			EventID:      b.EventID,
			StudentName:  b.StudentName,
			StudentEmail: b.StudentEmail,
			StartTime:    b.StartTime.Format(time.RFC3339),
			EndTime:      b.EndTime.Format(time.RFC3339),
			MeetLink:     b.MeetLink,
			CreatedAt:    b.CreatedAt.Format(time.RFC3339),
		}
	}

	return resp, nil
}

// #### slots ####

// ListSlots returns the bookable start times for one day: the hourly grid
// inside business hours minus intervals already busy on the calendar.
// Display aid only, CreateBooking does not re-check availability.
func (s *Service) ListSlots(ctx context.Context, date string) (*api.SlotList, error) {
	const op = "service.ListSlots"

	loc, err := time.LoadLocation(s.cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%s: load location: %w", op, err)
	}

	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"})
	}

	cacheKey := fmt.Sprintf("slots:%s", date)
	if cached, ok, err := s.cache.Get(ctx, cacheKey); err != nil {
		s.log.Warn("Slot cache read failed", slog.String("op", op), sl.Err(err))
	} else if ok {
		var list api.SlotList
		if err := json.Unmarshal([]byte(cached), &list); err == nil {
			return &list, nil
		}
	}

	dayOpen := time.Date(day.Year(), day.Month(), day.Day(), s.hours.OpenHour, 0, 0, 0, loc)
	dayClose := time.Date(day.Year(), day.Month(), day.Day(), s.hours.CloseHour, 0, 0, 0, loc)

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	busy, err := s.provider.ListBusy(callCtx, dayOpen, dayClose)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock.Now()
	times := []string{}
	for t := dayOpen; t.Before(dayClose); t = t.Add(time.Hour) {
		if t.Before(now) {
			continue
		}
		if overlapsAny(busy, t, t.Add(s.cfg.LessonDuration)) {
			continue
		}
		times = append(times, t.Format(time.RFC3339))
	}

	list := &api.SlotList{Date: date, Times: times}

	if raw, err := json.Marshal(list); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(raw), slotCacheTTL); err != nil {
			s.log.Warn("Slot cache write failed", slog.String("op", op), sl.Err(err))
		}
	}

	return list, nil
}

func overlapsAny(busy []models.BusyInterval, start, end time.Time) bool {
	for _, b := range busy {
		if b.Start.Before(end) && start.Before(b.End) {
			return true
		}
	}
	return false
}

// #### contacts ####

func (s *Service) CreateContact(ctx context.Context, req *api.ContactRequest) (*api.ContactResponse, error) {
	const op = "service.CreateContact"

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{Field: "name", Reason: "is required"})
	}
	if !emailRe.MatchString(req.Email) {
		return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{Field: "email", Reason: "must be a valid email address"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%s: %w", op, &response.ValidationError{Field: "message", Reason: "is required"})
	}

	contact := &models.Contact{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		CreatedAt: s.clock.Now(),
	}

	if err := s.store.SaveContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return contactResponse(contact), nil
}

func (s *Service) ListContacts(ctx context.Context) ([]*api.ContactResponse, error) {
	const op = "service.ListContacts"

	contacts, err := s.store.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := make([]*api.ContactResponse, len(contacts))
	for i, c := range contacts {
		resp[i] = contactResponse(c)
	}

	return resp, nil
}

func contactResponse(c *models.Contact) *api.ContactResponse {
	return &api.ContactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Message:   c.Message,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
