package get

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

type SlotLister interface {
	ListSlots(ctx context.Context, date string) (*api.SlotList, error)
}

type Response struct {
	response.Response
	api.SlotList
}

func New(log *slog.Logger, lister SlotLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.slots.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		date := r.URL.Query().Get("date")
		if date == "" {
			log.Error("date is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date is required"))
			return
		}

		slots, err := lister.ListSlots(r.Context(), date)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid date", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), response.UserMessage(err, "invalid date")))
			return
		}

		if errors.Is(err, response.ErrProvider) {
			log.Error("Calendar provider failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.PROVIDER_FAILED), "failed to list slots"))
			return
		}

		if err != nil {
			log.Error("Failed to list slots", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list slots"))
			return
		}

		log.Info("Slots listed", slog.String("date", date), slog.Int("count", len(slots.Times)))

		render.JSON(w, r, Response{
			SlotList: *slots,
		})
	}
}
