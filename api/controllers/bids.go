package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bidagri/bidagri-backend/api/middleware"
	"github.com/bidagri/bidagri-backend/api/responses"
	"github.com/bidagri/bidagri-backend/api/validators"
	"github.com/bidagri/bidagri-backend/internal/bids"
	"github.com/bidagri/bidagri-backend/pkg/logger"
)

type placeBidRequest struct {
	ProductID      uuid.UUID       `json:"productId"`
	PricePerKg     decimal.Decimal `json:"pricePerKg"`
	Quantity       decimal.Decimal `json:"quantity"`
	DeliveryOption string          `json:"deliveryOption,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	BidderName     string          `json:"bidderName,omitempty"`
	Phone          string          `json:"phone" validate:"required,pk_mobile"`
}

// PlaceBid submits a bid on a published listing.
func PlaceBid(svc bids.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body placeBidRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		row, err := svc.Place(r.Context(), actor, bids.PlaceBidInput{
			ListingID:      body.ProductID,
			PricePerKg:     body.PricePerKg,
			Quantity:       body.Quantity,
			DeliveryOption: body.DeliveryOption,
			Notes:          body.Notes,
			BidderName:     body.BidderName,
			Phone:          body.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, http.StatusOK, map[string]any{"bid": bids.ToDTO(*row)})
	}
}

// ListBids serves a listing's bids, top bid first. Public.
func ListBids(svc bids.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listingID, err := validators.ParseQueryUUID(r, "productId", true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), listingID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, page)
	}
}
