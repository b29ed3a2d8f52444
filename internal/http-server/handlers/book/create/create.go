package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"lesson-booking/api"
	"lesson-booking/pkg/response"
	"lesson-booking/pkg/sl"
)

type BookingCreator interface {
	CreateBooking(ctx context.Context, req *api.BookRequest) (*api.BookResult, error)
}

type Request struct {
	api.BookRequest
}

func New(log *slog.Logger, creator BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.book.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, api.BookResult{Success: false, Error: "failed to decode request"})
			return
		}

		log.Info("Request body decoded",
			slog.String("start_time", req.StartTime),
			slog.String("student_email", req.StudentEmail),
		)

		result, err := creator.CreateBooking(r.Context(), &req.BookRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid booking request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, api.BookResult{
				Success: false,
				Error:   response.UserMessage(err, "invalid booking request"),
			})
			return
		}

		if err != nil {
			// provider details stay in the log, the client sees a category
			log.Error("Failed to create booking", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, api.BookResult{Success: false, Error: "Failed to create booking"})
			return
		}

		log.Info("Booking created",
			slog.String("event_id", result.EventID),
			slog.String("meet_link", result.MeetLink),
		)

		render.JSON(w, r, result)
	}
}
