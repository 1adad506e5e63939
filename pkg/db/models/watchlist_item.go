package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchlistItem marks a listing a buyer is tracking.
type WatchlistItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	BuyerUID  string    `gorm:"column:buyer_uid;not null;uniqueIndex:ux_watchlist_items_buyer_listing"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;uniqueIndex:ux_watchlist_items_buyer_listing"`
	AddedAt   time.Time `gorm:"column:added_at;autoCreateTime"`
}
