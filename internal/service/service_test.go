package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lesson-booking/api"
	"lesson-booking/internal/config"
	"lesson-booking/internal/models"
	"lesson-booking/pkg/response"
)

type stubProvider struct {
	mu     sync.Mutex
	drafts []*models.EventDraft
	calls  int

	created *models.CreatedEvent
	err     error

	busy     []models.BusyInterval
	busyErr  error
	busyCall int
}

func (p *stubProvider) CreateEvent(_ context.Context, draft *models.EventDraft) (*models.CreatedEvent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.drafts = append(p.drafts, draft)
	if p.err != nil {
		return nil, p.err
	}
	return p.created, nil
}

func (p *stubProvider) ListBusy(_ context.Context, _, _ time.Time) ([]models.BusyInterval, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busyCall++
	if p.busyErr != nil {
		return nil, p.busyErr
	}
	return p.busy, nil
}

type stubStore struct {
	bookings []*models.Booking
	contacts []*models.Contact
	saveErr  error
}

func (s *stubStore) SaveBooking(_ context.Context, b *models.Booking) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.bookings = append(s.bookings, b)
	return nil
}

func (s *stubStore) ListBookings(_ context.Context, _, _ *time.Time) ([]*models.Booking, error) {
	return s.bookings, nil
}

func (s *stubStore) SaveContact(_ context.Context, c *models.Contact) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.contacts = append(s.contacts, c)
	return nil
}

func (s *stubStore) ListContacts(_ context.Context) ([]*models.Contact, error) {
	return s.contacts, nil
}

type memCache struct {
	m map[string]string
}

func (c *memCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.m[key] = value
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func testConfig() config.Calendar {
	return config.Calendar{
		CalendarID:     "primary",
		TimeZone:       "UTC",
		LessonDuration: 60 * time.Minute,
		RequestTimeout: 10 * time.Second,
	}
}

func newTestService(provider *stubProvider, store *stubStore, clk *fakeClock) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(provider, store, &memCache{m: map[string]string{}}, clk,
		testConfig(), config.BusinessHours{OpenHour: 9, CloseHour: 17}, log)
}

func validRequest() *api.BookRequest {
	return &api.BookRequest{
		StartTime:    "2030-01-01T10:00:00Z",
		StudentName:  "Ana",
		StudentEmail: "ana@example.com",
	}
}

func TestCreateBooking_Success(t *testing.T) {
	provider := &stubProvider{created: &models.CreatedEvent{ID: "evt_123", MeetLink: "https://meet.example/x"}}
	store := &stubStore{}
	clk := &fakeClock{now: time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC)}

	svc := newTestService(provider, store, clk)

	result, err := svc.CreateBooking(context.Background(), validRequest())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "evt_123", result.EventID)
	assert.Equal(t, "https://meet.example/x", result.MeetLink)

	require.Len(t, provider.drafts, 1)
	draft := provider.drafts[0]
	assert.Equal(t, "English Trial Lesson", draft.Title)
	assert.Equal(t, "Trial lesson with Ana", draft.Description)
	assert.Equal(t, []string{"ana@example.com"}, draft.Attendees)
	assert.Equal(t, "UTC", draft.Slot.TimeZone)

	require.Len(t, draft.Reminders, 2)
	assert.Equal(t, models.EventReminder{Method: "email", Minutes: 24 * 60}, draft.Reminders[0])
	assert.Equal(t, models.EventReminder{Method: "popup", Minutes: 30}, draft.Reminders[1])
}

func TestCreateBooking_SlotDuration(t *testing.T) {
	provider := &stubProvider{created: &models.CreatedEvent{ID: "evt_1"}}
	clk := &fakeClock{now: time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC)}

	svc := newTestService(provider, &stubStore{}, clk)

	_, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	slot := provider.drafts[0].Slot
	assert.Equal(t, 60*time.Minute, slot.End.Sub(slot.Start))
	assert.True(t, slot.End.After(slot.Start))
	assert.Equal(t, time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC), slot.Start)
}

func TestCreateBooking_StartTimeInPast(t *testing.T) {
	provider := &stubProvider{created: &models.CreatedEvent{ID: "evt_1"}}
	clk := &fakeClock{now: time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)}

	svc := newTestService(provider, &stubStore{}, clk)

	_, err := svc.CreateBooking(context.Background(), validRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, response.ErrValidation)
	assert.Equal(t, 0, provider.calls)
}

func TestCreateBooking_Validation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(req *api.BookRequest)
		message string
	}{
		{"empty name", func(r *api.BookRequest) { r.StudentName = "  " }, "studentName is required"},
		{"bad email", func(r *api.BookRequest) { r.StudentEmail = "not-an-email" }, "studentEmail must be a valid email address"},
		{"no tld", func(r *api.BookRequest) { r.StudentEmail = "ana@example" }, "studentEmail must be a valid email address"},
		{"bad timestamp", func(r *api.BookRequest) { r.StartTime = "tomorrow at noon" }, "startTime must be a valid RFC3339 timestamp"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubProvider{created: &models.CreatedEvent{ID: "evt_1"}}
			clk := &fakeClock{now: time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC)}
			svc := newTestService(provider, &stubStore{}, clk)

			req := validRequest()
			tc.mutate(req)

			_, err := svc.CreateBooking(context.Background(), req)

			require.Error(t, err)
			assert.ErrorIs(t, err, response.ErrValidation)
			assert.Equal(t, tc.message, response.UserMessage(err, ""))
			assert.Equal(t, 0, provider.calls, "provider must not be called on invalid input")
		})
	}
}

func TestCreateBooking_ProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("quota exceeded")}
	clk := &fakeClock{now: time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC)}

	svc := newTestService(provider, &stubStore{}, clk)

	result, err := svc.CreateBooking(context.Background(), validRequest())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, provider.calls, "the attempt is fire-once, no retry")
}

func TestCreateBooking_DistinctConferenceRequestIDs(t *testing.T) {
	provider := &stubProvider{created: &models.CreatedEvent{ID: "evt_1"}}
	clk := &fakeClock{now: time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC)}

	svc := newTestService(provider, &stubStore{}, clk)

	_, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	clk.now = clk.now.Add(5 * time.Millisecond)

	_, err = svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, provider.drafts, 2)
	first := provider.drafts[0].ConferenceRequestID
	second := provider.drafts[1].ConferenceRequestID
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestCreateBooking_RecordFailureIsNotFatal(t *testing.T) {
	provider := &stubProvider{created: &models.CreatedEvent{ID: "evt_1"}}
	store := &stubStore{saveErr: errors.New("db down")}
	clk := &fakeClock{now: time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC)}

	svc := newTestService(provider, store, clk)

	result, err := svc.CreateBooking(context.Background(), validRequest())

	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestCreateBooking_RecordsBooking(t *testing.T) {
	provider := &stubProvider{created: &models.CreatedEvent{ID: "evt_9", MeetLink: "https://meet.example/y"}}
	store := &stubStore{}
	clk := &fakeClock{now: time.Date(2029, 12, 1, 0, 0, 0, 0, time.UTC)}

	svc := newTestService(provider, store, clk)

	_, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, store.bookings, 1)
	b := store.bookings[0]
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "evt_9", b.EventID)
	assert.Equal(t, "Ana", b.StudentName)
	assert.Equal(t, "https://meet.example/y", b.MeetLink)
	assert.Equal(t, 60*time.Minute, b.EndTime.Sub(b.StartTime))
}

func TestListSlots_FiltersBusyAndPast(t *testing.T) {
	provider := &stubProvider{
		busy: []models.BusyInterval{
			{
				Start: time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC),
				End:   time.Date(2030, 1, 2, 11, 0, 0, 0, time.UTC),
			},
		},
	}
	clk := &fakeClock{now: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}

	svc := newTestService(provider, &stubStore{}, clk)

	list, err := svc.ListSlots(context.Background(), "2030-01-02")

	require.NoError(t, err)
	assert.Equal(t, "2030-01-02", list.Date)
	assert.NotContains(t, list.Times, "2030-01-02T10:00:00Z")
	assert.Contains(t, list.Times, "2030-01-02T09:00:00Z")
	assert.Contains(t, list.Times, "2030-01-02T11:00:00Z")
	assert.Contains(t, list.Times, "2030-01-02T16:00:00Z")
	assert.NotContains(t, list.Times, "2030-01-02T17:00:00Z")
	assert.Len(t, list.Times, 7)
}

func TestListSlots_CachesPerDate(t *testing.T) {
	provider := &stubProvider{}
	clk := &fakeClock{now: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}

	svc := newTestService(provider, &stubStore{}, clk)

	first, err := svc.ListSlots(context.Background(), "2030-01-02")
	require.NoError(t, err)

	second, err := svc.ListSlots(context.Background(), "2030-01-02")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.busyCall, "second listing must come from cache")
}

func TestListSlots_BadDate(t *testing.T) {
	provider := &stubProvider{}
	clk := &fakeClock{now: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}

	svc := newTestService(provider, &stubStore{}, clk)

	_, err := svc.ListSlots(context.Background(), "02.01.2030")

	require.Error(t, err)
	assert.ErrorIs(t, err, response.ErrValidation)
	assert.Equal(t, 0, provider.busyCall)
}

func TestCreateContact(t *testing.T) {
	store := &stubStore{}
	clk := &fakeClock{now: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}

	svc := newTestService(&stubProvider{}, store, clk)

	contact, err := svc.CreateContact(context.Background(), &api.ContactRequest{
		Name:    "Jo",
		Email:   "jo@example.com",
		Message: "Do you teach on weekends?",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, contact.ID)
	assert.Equal(t, "Jo", contact.Name)
	require.Len(t, store.contacts, 1)

	_, err = svc.CreateContact(context.Background(), &api.ContactRequest{Name: "Jo", Email: "jo@", Message: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, response.ErrValidation)
}
