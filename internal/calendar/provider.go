package calendar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/api/googleapi"

	"lesson-booking/internal/models"
	"lesson-booking/pkg/response"
)

type Provider interface {
	CreateEvent(ctx context.Context, draft *models.EventDraft) (*models.CreatedEvent, error)
	ListBusy(ctx context.Context, from, to time.Time) ([]models.BusyInterval, error)
}

// classify is the single translation point from provider-specific failures
// to response.ErrProvider. Provider details stay in the wrapped message for
// server-side logs and never reach the client.
func classify(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: api error %d %s: %w", op, apiErr.Code, apiErr.Message, response.ErrProvider)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s: network error: %v: %w", op, netErr, response.ErrProvider)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: call aborted: %v: %w", op, err, response.ErrProvider)
	}

	return fmt.Errorf("%s: %v: %w", op, err, response.ErrProvider)
}
