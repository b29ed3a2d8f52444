package models

import "time"

// LessonSlot is the start/end interval of one trial lesson. End is always
// derived from the start and the configured duration.
type LessonSlot struct {
	Start    time.Time
	End      time.Time
	TimeZone string
}

func NewLessonSlot(start time.Time, duration time.Duration, timeZone string) LessonSlot {
	return LessonSlot{
		Start:    start,
		End:      start.Add(duration),
		TimeZone: timeZone,
	}
}

type EventReminder struct {
	Method  string
	Minutes int64
}

// EventDraft is built once per booking attempt and handed to the calendar
// provider. It is never stored.
type EventDraft struct {
	Title               string
	Description         string
	Slot                LessonSlot
	Attendees           []string
	Reminders           []EventReminder
	ConferenceRequestID string
}

type CreatedEvent struct {
	ID       string
	MeetLink string
}

type BusyInterval struct {
	Start time.Time
	End   time.Time
}

type Booking struct {
	ID           string    `db:"id"`
	EventID      string    `db:"event_id"`
	StudentName  string    `db:"student_name"`
	StudentEmail string    `db:"student_email"`
	StartTime    time.Time `db:"start_time"`
	EndTime      time.Time `db:"end_time"`
	MeetLink     string    `db:"meet_link"`
	CreatedAt    time.Time `db:"created_at"`
}

type Contact struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}
