package notify

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bidagri/bidagri-backend/pkg/enums"
	"github.com/bidagri/bidagri-backend/pkg/outbox"
	"github.com/bidagri/bidagri-backend/pkg/outbox/payloads"
)

func envelopeFor(t *testing.T, data any) outbox.PayloadEnvelope {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return outbox.PayloadEnvelope{EventID: uuid.NewString(), Data: raw}
}

func TestBidPlacedNotifiesFarmer(t *testing.T) {
	planner := NewPlanner("ops@bidagri.pk")
	event := payloads.BidPlacedEvent{
		BidID:       uuid.New(),
		ListingID:   uuid.New(),
		Title:       "Wheat",
		BidPerKg:    decimal.NewFromInt(1010),
		Quantity:    decimal.NewFromInt(50),
		Total:       decimal.NewFromInt(50500),
		BidderName:  "Bilal",
		FarmerUID:   "farmer-1",
		FarmerEmail: "ali@x.com",
		BidsCount:   3,
	}

	plan, err := planner.BuildPlan(enums.EventBidPlaced, envelopeFor(t, event))
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	if len(plan.Emails) != 1 || plan.Emails[0].To != "ali@x.com" {
		t.Fatalf("farmer email missing: %+v", plan.Emails)
	}
	if !strings.Contains(plan.Emails[0].HTMLBody, "Bilal") {
		t.Fatalf("bidder name missing from email body")
	}
	if len(plan.Pushes) != 1 || plan.Pushes[0].UserUID != "farmer-1" {
		t.Fatalf("farmer push missing: %+v", plan.Pushes)
	}
}

func TestBidPlacedWithoutFarmerEmailSkipsMail(t *testing.T) {
	planner := NewPlanner("ops@bidagri.pk")
	event := payloads.BidPlacedEvent{
		ListingID: uuid.New(),
		Title:     "Rice",
		BidPerKg:  decimal.NewFromInt(200),
		FarmerUID: "farmer-1",
	}

	plan, err := planner.BuildPlan(enums.EventBidPlaced, envelopeFor(t, event))
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	if len(plan.Emails) != 0 {
		t.Fatalf("no email address, no email: %+v", plan.Emails)
	}
	if len(plan.Pushes) != 1 {
		t.Fatalf("push should still go out")
	}
}

func TestDeliveryUpdatedNotifiesBothParties(t *testing.T) {
	planner := NewPlanner("ops@bidagri.pk")
	event := payloads.DeliveryUpdatedEvent{
		DeliveryID:  uuid.New(),
		ListingID:   uuid.New(),
		Title:       "Mangoes",
		Status:      enums.DeliveryStatusInTransit,
		CurrentStep: 3,
		FarmerUID:   "farmer-1",
		FarmerEmail: "ali@x.com",
		BuyerUID:    "buyer-1",
		BuyerEmail:  "bilal@x.com",
	}

	plan, err := planner.BuildPlan(enums.EventDeliveryUpdated, envelopeFor(t, event))
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	if len(plan.Emails) != 2 {
		t.Fatalf("both parties should get mail, got %d", len(plan.Emails))
	}
	if len(plan.Pushes) != 2 {
		t.Fatalf("both parties should get a push, got %d", len(plan.Pushes))
	}
}

func TestContactReceivedGoesToOps(t *testing.T) {
	planner := NewPlanner("ops@bidagri.pk")
	event := payloads.ContactReceivedEvent{
		MessageID: uuid.New(),
		Name:      "Sana",
		Email:     "sana@x.com",
		Preview:   "Bulk wheat order inquiry",
	}

	plan, err := planner.BuildPlan(enums.EventContactReceived, envelopeFor(t, event))
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	if len(plan.Emails) != 1 || plan.Emails[0].To != "ops@bidagri.pk" {
		t.Fatalf("ops email missing: %+v", plan.Emails)
	}
	if len(plan.Pushes) != 0 {
		t.Fatalf("contact messages do not push")
	}
}

func TestDashboardStaleIsSilent(t *testing.T) {
	planner := NewPlanner("ops@bidagri.pk")
	event := payloads.DashboardStaleEvent{UserUID: "buyer-1", Side: enums.DashboardSideBuyer}

	plan, err := planner.BuildPlan(enums.EventDashboardStale, envelopeFor(t, event))
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	if len(plan.Emails) != 0 || len(plan.Pushes) != 0 {
		t.Fatalf("dashboard refresh should notify nobody")
	}
}

func TestUnknownEventTypeRejected(t *testing.T) {
	planner := NewPlanner("ops@bidagri.pk")
	if _, err := planner.BuildPlan("listing_exploded", outbox.PayloadEnvelope{}); err == nil {
		t.Fatalf("unknown event type must error")
	}
}
