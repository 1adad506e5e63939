package dashboards

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
)

func listingWithStatus(status enums.ListingStatus, price int64) models.Listing {
	return models.Listing{
		ID:         uuid.New(),
		Title:      "Wheat",
		Status:     status,
		PricePerKg: decimal.NewFromInt(price),
		HighestBid: decimal.NewFromInt(price),
		FarmerUID:  "farmer-1",
		FarmerName: "Ali",
	}
}

func TestBuildBuyerDashboardCounts(t *testing.T) {
	inBidding := listingWithStatus(enums.ListingStatusInBidding, 1000)
	available := listingWithStatus(enums.ListingStatusAvailable, 800)
	sold := listingWithStatus(enums.ListingStatusSold, 900)

	source := BuyerSource{
		BuyerUID: "buyer-1",
		Watchlist: []models.WatchlistItem{
			{ListingID: inBidding.ID},
			{ListingID: available.ID},
			{ListingID: sold.ID},
		},
		Listings: map[uuid.UUID]models.Listing{
			inBidding.ID: inBidding,
			available.ID: available,
			sold.ID:      sold,
		},
	}

	payload := BuildBuyerDashboard(source)
	if payload.WatchlistCount != 3 {
		t.Fatalf("watchlist count %d", payload.WatchlistCount)
	}
	if payload.InBiddingCount != 1 || payload.AvailableCount != 1 {
		t.Fatalf("status counts wrong: bidding=%d available=%d", payload.InBiddingCount, payload.AvailableCount)
	}
	if len(payload.Watchlist) != 3 {
		t.Fatalf("expected 3 enriched entries, got %d", len(payload.Watchlist))
	}
}

func TestBuildBuyerDashboardToleratesDeletedListing(t *testing.T) {
	live := listingWithStatus(enums.ListingStatusAvailable, 500)
	deleted := uuid.New()

	payload := BuildBuyerDashboard(BuyerSource{
		BuyerUID: "buyer-1",
		Watchlist: []models.WatchlistItem{
			{ListingID: deleted},
			{ListingID: live.ID},
		},
		Listings: map[uuid.UUID]models.Listing{live.ID: live},
	})

	if len(payload.Watchlist) != 2 {
		t.Fatalf("one dead entry must not drop the rest, got %d entries", len(payload.Watchlist))
	}
	if !payload.Watchlist[0].Missing {
		t.Fatalf("dead entry should be flagged missing")
	}
	if payload.Watchlist[0].Title != missingListingTitle {
		t.Fatalf("dead entry should carry placeholder title, got %q", payload.Watchlist[0].Title)
	}
	if payload.Watchlist[1].Title != "Wheat" {
		t.Fatalf("live entry lost: %q", payload.Watchlist[1].Title)
	}
}

func TestBuildBuyerDashboardChecklistDependsOnWatchlist(t *testing.T) {
	empty := BuildBuyerDashboard(BuyerSource{BuyerUID: "buyer-1"})
	if len(empty.Checklist) != len(emptyWatchlistChecklist) {
		t.Fatalf("empty watchlist should use the starter checklist")
	}

	live := listingWithStatus(enums.ListingStatusAvailable, 500)
	active := BuildBuyerDashboard(BuyerSource{
		BuyerUID:  "buyer-1",
		Watchlist: []models.WatchlistItem{{ListingID: live.ID}},
		Listings:  map[uuid.UUID]models.Listing{live.ID: live},
	})
	if len(active.Checklist) != len(activeWatchlistChecklist) {
		t.Fatalf("active watchlist should use the bidding checklist")
	}
	if active.Checklist[0] != activeWatchlistChecklist[1] {
		t.Fatalf("checklist should rotate with watchlist size, got %q first", active.Checklist[0])
	}
}

func TestBuildBuyerDashboardIsDeterministic(t *testing.T) {
	live := listingWithStatus(enums.ListingStatusInBidding, 1200)
	source := BuyerSource{
		BuyerUID:  "buyer-1",
		Watchlist: []models.WatchlistItem{{ListingID: live.ID}},
		Listings:  map[uuid.UUID]models.Listing{live.ID: live},
	}

	first, err := json.Marshal(BuildBuyerDashboard(source))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(BuildBuyerDashboard(source))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("projection not idempotent:\n%s\n%s", first, second)
	}
}

func TestBuildFarmerDashboardAggregations(t *testing.T) {
	source := FarmerSource{
		FarmerUID: "farmer-1",
		Listings: []models.Listing{
			listingWithStatus(enums.ListingStatusInBidding, 1000),
			listingWithStatus(enums.ListingStatusAvailable, 500),
			listingWithStatus(enums.ListingStatusSold, 700),
			listingWithStatus(enums.ListingStatusCompleted, 900),
		},
	}

	payload := BuildFarmerDashboard(source)
	if payload.ActiveCount != 2 {
		t.Fatalf("active count %d", payload.ActiveCount)
	}
	if payload.BiddingCount != 1 {
		t.Fatalf("bidding count %d", payload.BiddingCount)
	}
	if !payload.AvgReservePrice.Equal(decimal.NewFromInt(750)) {
		t.Fatalf("avg reserve price %s", payload.AvgReservePrice)
	}
	// 1 bidding lot of 4 total
	if payload.AcceptancePct != 25 {
		t.Fatalf("acceptance pct %d", payload.AcceptancePct)
	}
}

func TestBuildFarmerDashboardCompletionTable(t *testing.T) {
	source := FarmerSource{
		FarmerUID: "farmer-1",
		Listings: []models.Listing{
			listingWithStatus(enums.ListingStatusInBidding, 1000),
			listingWithStatus(enums.ListingStatusSold, 700),
			listingWithStatus(enums.ListingStatusCompleted, 900),
			listingWithStatus(enums.ListingStatusAvailable, 500),
			listingWithStatus("Archived", 100),
			listingWithStatus(enums.ListingStatusAvailable, 600),
		},
	}

	payload := BuildFarmerDashboard(source)
	if len(payload.Progress) != 5 {
		t.Fatalf("progress table must hold 5 rows, got %d", len(payload.Progress))
	}
	want := []int{70, 100, 100, 45, 25}
	for i, row := range payload.Progress {
		if row.CompletionPct != want[i] {
			t.Fatalf("row %d completion %d, want %d", i, row.CompletionPct, want[i])
		}
	}
}

func TestBuildFarmerDashboardAcceptanceCapped(t *testing.T) {
	source := FarmerSource{
		FarmerUID: "farmer-1",
		Listings: []models.Listing{
			listingWithStatus(enums.ListingStatusInBidding, 1000),
			listingWithStatus(enums.ListingStatusInBidding, 1100),
		},
	}

	payload := BuildFarmerDashboard(source)
	if payload.AcceptancePct != 100 {
		t.Fatalf("acceptance pct must cap at 100, got %d", payload.AcceptancePct)
	}
}

func TestBuildFarmerDashboardEmpty(t *testing.T) {
	payload := BuildFarmerDashboard(FarmerSource{FarmerUID: "farmer-1"})
	if payload.ActiveCount != 0 || payload.AcceptancePct != 0 {
		t.Fatalf("empty source should produce zero aggregates")
	}
	if !payload.AvgReservePrice.Equal(decimal.Zero) {
		t.Fatalf("avg reserve price should be zero, got %s", payload.AvgReservePrice)
	}
	if len(payload.Progress) != 0 {
		t.Fatalf("no listings, no progress rows")
	}
}
