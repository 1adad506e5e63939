package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bidagri/bidagri-backend/api/middleware"
	"github.com/bidagri/bidagri-backend/api/responses"
	"github.com/bidagri/bidagri-backend/api/validators"
	"github.com/bidagri/bidagri-backend/internal/listings"
	"github.com/bidagri/bidagri-backend/pkg/logger"
)

type publishRequest struct {
	ID         uuid.UUID       `json:"id"`
	PricePerKg decimal.Decimal `json:"pricePerKg"`
	Status     string          `json:"status,omitempty"`
}

// AdminPublish promotes a reviewed submission into a live listing.
func AdminPublish(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body publishRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		listing, err := svc.Publish(r.Context(), actor, listings.PublishInput{
			SubmissionID: body.ID,
			PricePerKg:   body.PricePerKg,
			Status:       body.Status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, http.StatusOK, map[string]any{"productId": listing.ID})
	}
}

// GetListing serves one public listing.
func GetListing(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(pathParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listings.ToDTO(*listing))
	}
}

// ListListings serves the public marketplace browse feed.
func ListListings(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), r.URL.Query().Get("status"), r.URL.Query().Get("cursor"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, page)
	}
}
