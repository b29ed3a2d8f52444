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

type ContactCreator interface {
	CreateContact(ctx context.Context, req *api.ContactRequest) (*api.ContactResponse, error)
}

type Request struct {
	api.ContactRequest
}

type Response struct {
	response.Response
	Contact *api.ContactResponse `json:"contact,omitempty"`
}

func New(log *slog.Logger, creator ContactCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contacts.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		contact, err := creator.CreateContact(r.Context(), &req.ContactRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid contact request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION_FAILED), response.UserMessage(err, "invalid contact request")))
			return
		}

		if err != nil {
			log.Error("Failed to create contact", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create contact"))
			return
		}

		log.Info("Contact created", slog.String("id", contact.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Contact: contact,
		})
	}
}
