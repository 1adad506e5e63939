package bids

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bidagri/bidagri-backend/pkg/enums"
)

// PlaceBidInput is the request to bid on a listing.
type PlaceBidInput struct {
	ListingID      uuid.UUID
	PricePerKg     decimal.Decimal
	Quantity       decimal.Decimal
	DeliveryOption string
	Notes          string
	BidderName     string
	Phone          string
}

// BidDTO is the public projection of a bid.
type BidDTO struct {
	ID             uuid.UUID            `json:"id"`
	ListingID      uuid.UUID            `json:"productId"`
	BidPerKg       decimal.Decimal      `json:"bidPerKg"`
	Quantity       decimal.Decimal      `json:"quantity"`
	Total          decimal.Decimal      `json:"total"`
	DeliveryOption enums.DeliveryOption `json:"deliveryOption"`
	Notes          string               `json:"notes,omitempty"`
	BidderUID      string               `json:"bidderUid"`
	BidderName     string               `json:"bidderName,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// BidsPageDTO is the read contract for a listing's bids, top bid first.
type BidsPageDTO struct {
	Items []BidDTO `json:"items"`
}
