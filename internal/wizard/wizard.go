package wizard

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"lesson-booking/api"
	"lesson-booking/internal/clock"
)

// State is the current step of the booking wizard. Steps are strictly
// ordered: a time needs a date, contact info needs a time.
type State string

const (
	StatePickDate         State = "pick_date"
	StatePickTime         State = "pick_time"
	StateEnterContactInfo State = "enter_contact_info"
	StateSubmitting       State = "submitting"
	StateConfirmed        State = "confirmed"
)

var (
	ErrWrongState   = errors.New("operation not allowed in current state")
	ErrDateInPast   = errors.New("date must not be in the past")
	ErrNameRequired = errors.New("name is required")
	ErrEmailInvalid = errors.New("email must look like local@domain.tld")
	ErrSubmitting   = errors.New("submission already in progress")
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Sender issues the one outbound booking request. A transport failure is
// returned as an error; a service-level rejection arrives as an
// unsuccessful BookResult.
type Sender interface {
	Send(ctx context.Context, req *api.BookRequest) (*api.BookResult, error)
}

type Wizard struct {
	mu     sync.Mutex
	state  State
	sender Sender
	clock  clock.Clock

	date  time.Time
	start time.Time
	name  string
	email string

	result  *api.BookResult
	lastErr string
}

func New(sender Sender, clk clock.Clock) *Wizard {
	return &Wizard{
		state:  StatePickDate,
		sender: sender,
		clock:  clk,
	}
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// LastError is the message of the most recent failed submission, kept so
// the contact step can show it while the fields stay editable.
func (w *Wizard) LastError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Wizard) Result() *api.BookResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// SelectDate accepts any date from today onward, compared at day
// granularity in the date's own location.
func (w *Wizard) SelectDate(date time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StatePickDate {
		return ErrWrongState
	}

	day := truncateToDay(date)
	today := truncateToDay(w.clock.Now().In(date.Location()))
	if day.Before(today) {
		return ErrDateInPast
	}

	w.date = day
	w.state = StatePickTime

	return nil
}

func (w *Wizard) SelectTime(hour, minute int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StatePickTime {
		return ErrWrongState
	}

	w.start = time.Date(w.date.Year(), w.date.Month(), w.date.Day(), hour, minute, 0, 0, w.date.Location())
	w.state = StateEnterContactInfo

	return nil
}

// BackToDate returns from the time step to the date step.
func (w *Wizard) BackToDate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StatePickTime {
		return ErrWrongState
	}

	w.state = StatePickDate

	return nil
}

// BackToTime returns from the contact step to the time step.
func (w *Wizard) BackToTime() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateEnterContactInfo {
		return ErrWrongState
	}

	w.state = StatePickTime

	return nil
}

// Submit validates the contact fields and issues exactly one request. A
// second Submit while one is in flight is rejected with ErrSubmitting. On
// any failure the wizard returns to the contact step with fields intact.
func (w *Wizard) Submit(ctx context.Context, name, email string) (*api.BookResult, error) {
	w.mu.Lock()

	if w.state == StateSubmitting {
		w.mu.Unlock()
		return nil, ErrSubmitting
	}
	if w.state != StateEnterContactInfo {
		w.mu.Unlock()
		return nil, ErrWrongState
	}

	if strings.TrimSpace(name) == "" {
		w.mu.Unlock()
		return nil, ErrNameRequired
	}
	if !emailRe.MatchString(email) {
		w.mu.Unlock()
		return nil, ErrEmailInvalid
	}

	w.name = name
	w.email = email
	w.state = StateSubmitting

	req := &api.BookRequest{
		StartTime:    w.start.Format(time.RFC3339),
		StudentName:  name,
		StudentEmail: email,
	}

	w.mu.Unlock()

	result, err := w.sender.Send(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.state = StateEnterContactInfo
		w.lastErr = err.Error()
		return nil, err
	}

	if !result.Success {
		w.state = StateEnterContactInfo
		w.lastErr = result.Error
		return result, nil
	}

	w.state = StateConfirmed
	w.result = result
	w.lastErr = ""

	return result, nil
}

// Name and Email expose the last entered contact fields so a UI can
// prefill them after a failed attempt.
func (w *Wizard) Name() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.name
}

func (w *Wizard) Email() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.email
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
