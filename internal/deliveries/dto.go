package deliveries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bidagri/bidagri-backend/pkg/enums"
	"github.com/bidagri/bidagri-backend/pkg/types"
)

// UpdateInput patches a delivery timeline. Every field is optional but at
// least one must be set.
type UpdateInput struct {
	StepIndex   *int    `json:"stepIndex,omitempty"`
	EventStatus string  `json:"eventStatus,omitempty"`
	Detail      string  `json:"detail,omitempty"`
	ETA         *string `json:"eta,omitempty"`
	Window      *string `json:"window,omitempty"`
	Status      string  `json:"status,omitempty"`
	CurrentStep *int    `json:"currentStep,omitempty"`
}

// IsEmpty reports whether the patch carries no changes at all.
func (in UpdateInput) IsEmpty() bool {
	return in.StepIndex == nil &&
		in.EventStatus == "" &&
		in.Detail == "" &&
		in.ETA == nil &&
		in.Window == nil &&
		in.Status == "" &&
		in.CurrentStep == nil
}

// DeliveryDTO is the public projection of a fulfillment timeline.
type DeliveryDTO struct {
	ID             uuid.UUID            `json:"id"`
	BidID          uuid.UUID            `json:"bidId"`
	ListingID      uuid.UUID            `json:"productId"`
	ListingTitle   string               `json:"title"`
	FarmerUID      string               `json:"farmerUid"`
	FarmerName     string               `json:"farmerName,omitempty"`
	BuyerUID       string               `json:"buyerUid"`
	BuyerName      string               `json:"buyerName,omitempty"`
	DeliveryOption enums.DeliveryOption `json:"deliveryOption"`
	Quantity       decimal.Decimal      `json:"quantity"`
	PricePerKg     decimal.Decimal      `json:"pricePerKg"`
	Status         enums.DeliveryStatus `json:"status"`
	CurrentStep    int                  `json:"currentStep"`
	Events         types.TimelineEvents `json:"events"`
	ETA            *string              `json:"eta,omitempty"`
	Window         *string              `json:"window,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// DeliveriesPageDTO is the list contract for a party's deliveries.
type DeliveriesPageDTO struct {
	Items []DeliveryDTO `json:"items"`
}
