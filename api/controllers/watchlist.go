package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bidagri/bidagri-backend/api/middleware"
	"github.com/bidagri/bidagri-backend/api/responses"
	"github.com/bidagri/bidagri-backend/api/validators"
	"github.com/bidagri/bidagri-backend/internal/watchlist"
	"github.com/bidagri/bidagri-backend/pkg/logger"
)

type watchlistAddRequest struct {
	ProductID uuid.UUID `json:"productId"`
}

// WatchlistAdd puts a listing on the buyer's watchlist. Idempotent.
func WatchlistAdd(svc watchlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body watchlistAddRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		if err := svc.Add(r.Context(), actor, body.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, http.StatusOK, nil)
	}
}

// WatchlistRemove takes a listing off the buyer's watchlist.
func WatchlistRemove(svc watchlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, err := validators.ParsePathUUID(pathParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		if err := svc.Remove(r.Context(), actor, listingID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, http.StatusOK, nil)
	}
}

// WatchlistList serves the buyer's watched listings, newest first.
func WatchlistList(svc watchlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middleware.IdentityFromContext(r.Context())
		page, err := svc.List(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, page)
	}
}
