package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/bidagri/bidagri-backend/pkg/enums"
)

// Listing is a published, biddable unit of farm produce. HighestBid and
// BidsCount are mutated only inside the bid-placement transaction.
type Listing struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	SubmissionID     uuid.UUID           `gorm:"column:submission_id;type:uuid;not null"`
	Title            string              `gorm:"column:title;not null"`
	Category         string              `gorm:"column:category;not null"`
	Subcategory      string              `gorm:"column:subcategory"`
	Status           enums.ListingStatus `gorm:"column:status;type:text;not null;default:'Available'"`
	PricePerKg       decimal.Decimal     `gorm:"column:price_per_kg;type:numeric(12,2);not null"`
	Unit             string              `gorm:"column:unit;not null;default:'kg'"`
	Location         string              `gorm:"column:location"`
	Image            string              `gorm:"column:image"`
	Gallery          pq.StringArray      `gorm:"column:gallery;type:text[]"`
	FarmerUID        string              `gorm:"column:farmer_uid;not null"`
	FarmerName       string              `gorm:"column:farmer_name"`
	FarmerPhone      string              `gorm:"column:farmer_phone"`
	FarmerEmail      string              `gorm:"column:farmer_email"`
	BidsCount        int                 `gorm:"column:bids_count;not null;default:0"`
	HighestBid       decimal.Decimal     `gorm:"column:highest_bid;type:numeric(12,2);not null"`
	MinimumIncrement decimal.Decimal     `gorm:"column:minimum_increment;type:numeric(12,2);not null"`
	Documents        json.RawMessage     `gorm:"column:documents;type:jsonb"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
	PublishedAt      time.Time           `gorm:"column:published_at"`
}
