package listings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bidagri/bidagri-backend/pkg/enums"
)

// PublishInput is the admin request to promote a submission.
type PublishInput struct {
	SubmissionID uuid.UUID
	PricePerKg   decimal.Decimal
	Status       string
}

// PublishResultDTO is the publish response body.
type PublishResultDTO struct {
	Status    string    `json:"status"`
	ProductID uuid.UUID `json:"productId"`
}

// FarmerDTO is the embedded seller contact block.
type FarmerDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// ListingDTO is the public projection of a listing.
type ListingDTO struct {
	ID               uuid.UUID           `json:"id"`
	Title            string              `json:"title"`
	Category         string              `json:"category"`
	Subcategory      string              `json:"subcategory,omitempty"`
	Status           enums.ListingStatus `json:"status"`
	PricePerKg       decimal.Decimal     `json:"pricePerKg"`
	Unit             string              `json:"unit"`
	Location         string              `json:"location,omitempty"`
	Image            string              `json:"image,omitempty"`
	Gallery          []string            `json:"gallery,omitempty"`
	FarmerUID        string              `json:"farmerUid"`
	Farmer           FarmerDTO           `json:"farmer"`
	BidsCount        int                 `json:"bidsCount"`
	HighestBid       decimal.Decimal     `json:"highestBid"`
	MinimumIncrement decimal.Decimal     `json:"minimumIncrement"`
	CreatedAt        time.Time           `json:"createdAt"`
	PublishedAt      time.Time           `json:"publishedAt"`
}

// ListingsPageDTO is a cursor-paginated browse result.
type ListingsPageDTO struct {
	Items      []ListingDTO `json:"items"`
	NextCursor string       `json:"nextCursor,omitempty"`
}
