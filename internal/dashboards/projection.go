package dashboards

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
)

// Placeholder shown for a watched listing that no longer exists.
const missingListingTitle = "Listing no longer available"

// Checklist pools. Which pool applies depends on whether the buyer watches
// anything yet; the starting item rotates with the watchlist size so repeat
// visitors see fresh suggestions without the projection losing determinism.
var (
	emptyWatchlistChecklist = []string{
		"Browse the marketplace and watch a listing you like",
		"Set up your delivery address for faster checkout",
		"Complete your buyer profile",
	}
	activeWatchlistChecklist = []string{
		"Place a bid on a watched listing before it sells",
		"Review new bids on listings you watch",
		"Check delivery timelines for your accepted bids",
		"Watch similar listings to compare prices",
	}
)

// BuyerSource is the authoritative state a buyer dashboard is projected from.
type BuyerSource struct {
	BuyerUID  string
	Watchlist []models.WatchlistItem
	Listings  map[uuid.UUID]models.Listing
}

// WatchedListing is a watchlist entry enriched with live listing fields.
type WatchedListing struct {
	ListingID  uuid.UUID       `json:"productId"`
	Title      string          `json:"title"`
	Status     string          `json:"status"`
	PricePerKg decimal.Decimal `json:"pricePerKg"`
	HighestBid decimal.Decimal `json:"highestBid"`
	FarmerName string          `json:"farmerName,omitempty"`
	Missing    bool            `json:"missing,omitempty"`
}

// BuyerPayload is the cached buyer dashboard projection.
type BuyerPayload struct {
	BuyerUID       string           `json:"buyerUid"`
	WatchlistCount int              `json:"watchlistCount"`
	InBiddingCount int              `json:"inBiddingCount"`
	AvailableCount int              `json:"availableCount"`
	Checklist      []string         `json:"checklist"`
	Watchlist      []WatchedListing `json:"watchlist"`
}

// BuildBuyerDashboard projects the buyer payload from source state. Pure:
// same source, same payload.
func BuildBuyerDashboard(source BuyerSource) BuyerPayload {
	payload := BuyerPayload{
		BuyerUID:       source.BuyerUID,
		WatchlistCount: len(source.Watchlist),
		Watchlist:      make([]WatchedListing, 0, len(source.Watchlist)),
	}

	for _, item := range source.Watchlist {
		listing, ok := source.Listings[item.ListingID]
		if !ok {
			// a deleted listing degrades to a placeholder entry rather than
			// failing the whole refresh
			payload.Watchlist = append(payload.Watchlist, WatchedListing{
				ListingID: item.ListingID,
				Title:     missingListingTitle,
				Missing:   true,
			})
			continue
		}
		switch listing.Status {
		case enums.ListingStatusInBidding:
			payload.InBiddingCount++
		case enums.ListingStatusAvailable:
			payload.AvailableCount++
		}
		payload.Watchlist = append(payload.Watchlist, WatchedListing{
			ListingID:  listing.ID,
			Title:      listing.Title,
			Status:     listing.Status.String(),
			PricePerKg: listing.PricePerKg,
			HighestBid: listing.HighestBid,
			FarmerName: listing.FarmerName,
		})
	}

	payload.Checklist = rotateChecklist(len(source.Watchlist))
	return payload
}

func rotateChecklist(watchlistSize int) []string {
	pool := activeWatchlistChecklist
	if watchlistSize == 0 {
		pool = emptyWatchlistChecklist
	}
	start := watchlistSize % len(pool)
	rotated := make([]string, 0, len(pool))
	rotated = append(rotated, pool[start:]...)
	rotated = append(rotated, pool[:start]...)
	return rotated
}

// FarmerSource is the authoritative state a farmer dashboard is projected from.
type FarmerSource struct {
	FarmerUID string
	Listings  []models.Listing
}

// ListingProgress is one row of the farmer's progress table.
type ListingProgress struct {
	ListingID     uuid.UUID       `json:"productId"`
	Title         string          `json:"title"`
	Status        string          `json:"status"`
	HighestBid    decimal.Decimal `json:"highestBid"`
	BidsCount     int             `json:"bidsCount"`
	CompletionPct int             `json:"completionPct"`
}

// FarmerPayload is the cached farmer dashboard projection.
type FarmerPayload struct {
	FarmerUID       string            `json:"farmerUid"`
	ActiveCount     int               `json:"activeCount"`
	BiddingCount    int               `json:"biddingCount"`
	AvgReservePrice decimal.Decimal   `json:"avgReservePrice"`
	AcceptancePct   int               `json:"acceptancePct"`
	Progress        []ListingProgress `json:"progress"`
}

// BuildFarmerDashboard projects the farmer payload from source state. The
// progress table covers the five most recent listings; listings arrive newest
// first from the repository.
func BuildFarmerDashboard(source FarmerSource) FarmerPayload {
	payload := FarmerPayload{
		FarmerUID:       source.FarmerUID,
		AvgReservePrice: decimal.Zero,
		Progress:        make([]ListingProgress, 0, 5),
	}

	activeTotal := decimal.Zero
	for _, listing := range source.Listings {
		switch listing.Status {
		case enums.ListingStatusAvailable, enums.ListingStatusInBidding:
			payload.ActiveCount++
			activeTotal = activeTotal.Add(listing.PricePerKg)
		}
		if listing.Status == enums.ListingStatusInBidding {
			payload.BiddingCount++
		}
	}
	if payload.ActiveCount > 0 {
		payload.AvgReservePrice = activeTotal.
			Div(decimal.NewFromInt(int64(payload.ActiveCount))).
			Round(2)
	}
	if total := len(source.Listings); total > 0 {
		pct := payload.BiddingCount * 100 / total
		if pct > 100 {
			pct = 100
		}
		payload.AcceptancePct = pct
	}

	for _, listing := range source.Listings {
		if len(payload.Progress) == 5 {
			break
		}
		payload.Progress = append(payload.Progress, ListingProgress{
			ListingID:     listing.ID,
			Title:         listing.Title,
			Status:        listing.Status.String(),
			HighestBid:    listing.HighestBid,
			BidsCount:     listing.BidsCount,
			CompletionPct: completionFor(listing.Status),
		})
	}
	return payload
}

func completionFor(status enums.ListingStatus) int {
	switch status {
	case enums.ListingStatusInBidding:
		return 70
	case enums.ListingStatusSold, enums.ListingStatusCompleted:
		return 100
	case enums.ListingStatusAvailable:
		return 45
	default:
		return 25
	}
}
