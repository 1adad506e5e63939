package controllers

import (
	"net/http"

	"github.com/bidagri/bidagri-backend/api/middleware"
	"github.com/bidagri/bidagri-backend/api/responses"
	"github.com/bidagri/bidagri-backend/api/validators"
	"github.com/bidagri/bidagri-backend/internal/deliveries"
	"github.com/bidagri/bidagri-backend/pkg/logger"
)

// UpdateDelivery patches a delivery timeline. Caller must be a party to the
// delivery or an admin.
func UpdateDelivery(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(pathParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body deliveries.UpdateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		caller := middleware.IdentityFromContext(r.Context())
		row, err := svc.Update(r.Context(), caller, id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, deliveries.ToDTO(*row))
	}
}

// GetDelivery serves a single delivery to its parties.
func GetDelivery(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(pathParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		caller := middleware.IdentityFromContext(r.Context())
		row, err := svc.Get(r.Context(), caller, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, deliveries.ToDTO(*row))
	}
}

// ListDeliveries serves the caller's deliveries, newest first. Admins may pass
// uid to read another party's list.
func ListDeliveries(svc deliveries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		caller := middleware.IdentityFromContext(r.Context())
		page, err := svc.ListForParty(r.Context(), caller, r.URL.Query().Get("uid"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, page)
	}
}
