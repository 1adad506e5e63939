package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bidagri/bidagri-backend/pkg/enums"
)

// ListingPublishedEvent signals that an admin promoted a submission to the marketplace.
type ListingPublishedEvent struct {
	ListingID    uuid.UUID            `json:"listing_id"`
	SubmissionID uuid.UUID            `json:"submission_id"`
	Title        string               `json:"title"`
	Category     string               `json:"category"`
	FarmerUID    string               `json:"farmer_uid"`
	FarmerEmail  string               `json:"farmer_email,omitempty"`
	Source       enums.SubmissionType `json:"source"`
	PublishedAt  time.Time            `json:"published_at"`
}

// BidPlacedEvent is emitted inside the bid transaction once the listing counters advance.
type BidPlacedEvent struct {
	BidID       uuid.UUID       `json:"bid_id"`
	ListingID   uuid.UUID       `json:"listing_id"`
	Title       string          `json:"title"`
	BidPerKg    decimal.Decimal `json:"bid_per_kg"`
	Quantity    decimal.Decimal `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	BidderUID   string          `json:"bidder_uid"`
	BidderName  string          `json:"bidder_name,omitempty"`
	FarmerUID   string          `json:"farmer_uid"`
	FarmerEmail string          `json:"farmer_email,omitempty"`
	HighestBid  decimal.Decimal `json:"highest_bid"`
	BidsCount   int             `json:"bids_count"`
}

// DeliveryUpdatedEvent surfaces a fulfillment change to both parties.
type DeliveryUpdatedEvent struct {
	DeliveryID  uuid.UUID            `json:"delivery_id"`
	ListingID   uuid.UUID            `json:"listing_id"`
	Title       string               `json:"title"`
	Status      enums.DeliveryStatus `json:"status"`
	CurrentStep int                  `json:"current_step"`
	FarmerUID   string               `json:"farmer_uid"`
	FarmerEmail string               `json:"farmer_email,omitempty"`
	BuyerUID    string               `json:"buyer_uid"`
	BuyerEmail  string               `json:"buyer_email,omitempty"`
}

// DashboardStaleEvent asks the dispatcher to rebuild a cached dashboard payload.
type DashboardStaleEvent struct {
	UserUID string              `json:"user_uid"`
	Side    enums.DashboardSide `json:"side"`
	Reason  string              `json:"reason,omitempty"`
}

// ContactReceivedEvent notifies operators about a new contact form message.
type ContactReceivedEvent struct {
	MessageID uuid.UUID `json:"message_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Preview   string    `json:"preview"`
}
