package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bidagri/bidagri-backend/pkg/enums"
)

// Bid is an append-only offer against a listing. No update or delete path
// exists once a row is written.
type Bid struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	ListingID      uuid.UUID            `gorm:"column:listing_id;type:uuid;not null;index"`
	BidPerKg       decimal.Decimal      `gorm:"column:bid_per_kg;type:numeric(12,2);not null"`
	Quantity       decimal.Decimal      `gorm:"column:quantity;type:numeric(12,2);not null"`
	Total          decimal.Decimal      `gorm:"column:total;type:numeric(14,2);not null"`
	DeliveryOption enums.DeliveryOption `gorm:"column:delivery_option;type:text;not null;default:'pickup'"`
	Notes          string               `gorm:"column:notes"`
	BidderUID      string               `gorm:"column:bidder_uid;not null"`
	BidderName     string               `gorm:"column:bidder_name"`
	BidderPhone    string               `gorm:"column:bidder_phone;not null"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
}
