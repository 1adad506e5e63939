package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bidagri/bidagri-backend/pkg/enums"
	"github.com/bidagri/bidagri-backend/pkg/types"
)

// Delivery is a step-indexed fulfillment timeline created once per accepted
// bid. CurrentStep points at the furthest completed milestone.
type Delivery struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	BidID          uuid.UUID            `gorm:"column:bid_id;type:uuid;not null;index"`
	ListingID      uuid.UUID            `gorm:"column:listing_id;type:uuid;not null;index"`
	ListingTitle   string               `gorm:"column:listing_title"`
	FarmerUID      string               `gorm:"column:farmer_uid;not null;index"`
	FarmerName     string               `gorm:"column:farmer_name"`
	FarmerEmail    string               `gorm:"column:farmer_email"`
	BuyerUID       string               `gorm:"column:buyer_uid;not null;index"`
	BuyerName      string               `gorm:"column:buyer_name"`
	BuyerEmail     string               `gorm:"column:buyer_email"`
	DeliveryOption enums.DeliveryOption `gorm:"column:delivery_option;type:text;not null"`
	Quantity       decimal.Decimal      `gorm:"column:quantity;type:numeric(12,2);not null"`
	PricePerKg     decimal.Decimal      `gorm:"column:price_per_kg;type:numeric(12,2);not null"`
	Status         enums.DeliveryStatus `gorm:"column:status;type:text;not null;default:'Pending'"`
	CurrentStep    int                  `gorm:"column:current_step;not null;default:0"`
	Events         types.TimelineEvents `gorm:"column:events;type:jsonb;not null"`
	ETA            *string              `gorm:"column:eta"`
	Window         *string              `gorm:"column:delivery_window"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
