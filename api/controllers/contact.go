package controllers

import (
	"net/http"

	"github.com/bidagri/bidagri-backend/api/middleware"
	"github.com/bidagri/bidagri-backend/api/responses"
	"github.com/bidagri/bidagri-backend/api/validators"
	"github.com/bidagri/bidagri-backend/internal/contact"
	"github.com/bidagri/bidagri-backend/pkg/logger"
)

// ContactCreate accepts a public contact form message. Returns 201 when the
// message was stored, 200 "queued" when the store was down and the message
// was routed to the ops queue instead.
func ContactCreate(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body contact.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, queued, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if queued {
			responses.WriteJSON(w, http.StatusOK, map[string]any{"status": "queued"})
			return
		}
		responses.WriteOK(w, http.StatusCreated, nil)
	}
}

// ContactList serves the admin inbox, newest first.
func ContactList(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		page, err := svc.List(r.Context(), actor, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, page)
	}
}
