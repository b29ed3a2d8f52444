package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"lesson-booking/api"
	"lesson-booking/pkg/response"
	"lesson-booking/pkg/sl"
)

type BookingLister interface {
	ListBookings(ctx context.Context, from, to *time.Time) ([]*api.BookingResponse, error)
}

type Response struct {
	response.Response
	Bookings []api.BookingResponse `json:"bookings"`
}

func New(log *slog.Logger, lister BookingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var from, to *time.Time
		if fromStr := r.URL.Query().Get("from"); fromStr != "" {
			if t, err := time.Parse(time.RFC3339, fromStr); err == nil {
				from = &t
			} else if t, err := time.Parse("2006-01-02", fromStr); err == nil {
				from = &t
			}
		}
		if toStr := r.URL.Query().Get("to"); toStr != "" {
			if t, err := time.Parse(time.RFC3339, toStr); err == nil {
				to = &t
			} else if t, err := time.Parse("2006-01-02", toStr); err == nil {
				to = &t
			}
		}

		bookings, err := lister.ListBookings(r.Context(), from, to)

		if err != nil {
			log.Error("Failed to list bookings", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list bookings"))
			return
		}

		log.Info("Bookings retrieved", slog.Int("count", len(bookings)))

		bookingsResponse := make([]api.BookingResponse, len(bookings))
		for i, b := range bookings {
			bookingsResponse[i] = *b
		}

		render.JSON(w, r, Response{
			Bookings: bookingsResponse,
		})
	}
}
