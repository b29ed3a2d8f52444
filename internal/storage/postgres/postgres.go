package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"lesson-booking/internal/models"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// #### bookings ####

func (s *Storage) SaveBooking(ctx context.Context, booking *models.Booking) error {
	const op = "storage.postgres.SaveBooking"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings (id, event_id, student_name, student_email, start_time, end_time, meet_link, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		booking.ID, booking.EventID, booking.StudentName, booking.StudentEmail,
		booking.StartTime, booking.EndTime, booking.MeetLink, booking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) ListBookings(ctx context.Context, from, to *time.Time) ([]*models.Booking, error) {
	const op = "storage.postgres.ListBookings"

	query := `SELECT id, event_id, student_name, student_email, start_time, end_time, meet_link, created_at FROM bookings`

	var conds []string
	var args []interface{}

	if from != nil {
		args = append(args, *from)
		conds = append(conds, "start_time >= $"+strconv.Itoa(len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conds = append(conds, "start_time < $"+strconv.Itoa(len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY start_time"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.EventID, &b.StudentName, &b.StudentEmail,
			&b.StartTime, &b.EndTime, &b.MeetLink, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

// #### contacts ####

func (s *Storage) SaveContact(ctx context.Context, contact *models.Contact) error {
	const op = "storage.postgres.SaveContact"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, email, message, created_at) VALUES ($1, $2, $3, $4, $5)`,
		contact.ID, contact.Name, contact.Email, contact.Message, contact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) ListContacts(ctx context.Context) ([]*models.Contact, error) {
	const op = "storage.postgres.ListContacts"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, message, created_at FROM contacts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		contacts = append(contacts, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return contacts, nil
}
