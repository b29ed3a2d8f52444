package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"lesson-booking/api"
	"lesson-booking/pkg/response"
	"lesson-booking/pkg/sl"
)

type ContactLister interface {
	ListContacts(ctx context.Context) ([]*api.ContactResponse, error)
}

type Response struct {
	response.Response
	Contacts []api.ContactResponse `json:"contacts"`
}

func New(log *slog.Logger, lister ContactLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contacts.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		contacts, err := lister.ListContacts(r.Context())

		if err != nil {
			log.Error("Failed to list contacts", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list contacts"))
			return
		}

		log.Info("Contacts retrieved", slog.Int("count", len(contacts)))

		contactsResponse := make([]api.ContactResponse, len(contacts))
		for i, c := range contacts {
			contactsResponse[i] = *c
		}

		render.JSON(w, r, Response{
			Contacts: contactsResponse,
		})
	}
}
