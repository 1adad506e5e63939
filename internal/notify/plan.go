package notify

import (
	"encoding/json"
	"fmt"

	"github.com/bidagri/bidagri-backend/pkg/enums"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/mailer"
	"github.com/bidagri/bidagri-backend/pkg/outbox"
	"github.com/bidagri/bidagri-backend/pkg/outbox/payloads"
)

// Push is one push notification addressed to a user's registered devices.
type Push struct {
	UserUID string `json:"userUid"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Link    string `json:"link,omitempty"`
}

// Plan is the fan-out for a single domain event: who gets mail, who gets a
// push. An empty plan is valid; dashboard refreshes for example notify nobody.
type Plan struct {
	Emails []mailer.Message
	Pushes []Push
}

// Planner turns outbox envelopes into notification plans.
type Planner struct {
	opsEmail string
}

// NewPlanner builds a planner. opsEmail receives contact form alerts.
func NewPlanner(opsEmail string) *Planner {
	return &Planner{opsEmail: opsEmail}
}

// BuildPlan decodes the envelope payload for the event type and produces the
// recipient fan-out.
func (p *Planner) BuildPlan(eventType enums.OutboxEventType, envelope outbox.PayloadEnvelope) (Plan, error) {
	switch eventType {
	case enums.EventListingPublished:
		var event payloads.ListingPublishedEvent
		if err := json.Unmarshal(envelope.Data, &event); err != nil {
			return Plan{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode listing_published payload")
		}
		return p.listingPublished(event), nil
	case enums.EventBidPlaced:
		var event payloads.BidPlacedEvent
		if err := json.Unmarshal(envelope.Data, &event); err != nil {
			return Plan{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode bid_placed payload")
		}
		return p.bidPlaced(event), nil
	case enums.EventDeliveryUpdated:
		var event payloads.DeliveryUpdatedEvent
		if err := json.Unmarshal(envelope.Data, &event); err != nil {
			return Plan{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode delivery_updated payload")
		}
		return p.deliveryUpdated(event), nil
	case enums.EventContactReceived:
		var event payloads.ContactReceivedEvent
		if err := json.Unmarshal(envelope.Data, &event); err != nil {
			return Plan{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode contact_received payload")
		}
		return p.contactReceived(event), nil
	case enums.EventDashboardStale:
		// handled by the dispatcher directly, nobody to notify
		return Plan{}, nil
	default:
		return Plan{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown event type %q", eventType))
	}
}

func (p *Planner) listingPublished(event payloads.ListingPublishedEvent) Plan {
	plan := Plan{
		Pushes: []Push{{
			UserUID: event.FarmerUID,
			Title:   "Your listing is live",
			Body:    fmt.Sprintf("%s is now open for bids on BidAgri.", event.Title),
			Link:    fmt.Sprintf("/marketplace/%s", event.ListingID),
		}},
	}
	if event.FarmerEmail != "" {
		plan.Emails = append(plan.Emails, mailer.Message{
			To:      event.FarmerEmail,
			Subject: fmt.Sprintf("Your listing %q is live", event.Title),
			HTMLBody: fmt.Sprintf(
				"<p>Good news! Your listing <strong>%s</strong> has been published and buyers can now place bids.</p>",
				event.Title,
			),
		})
	}
	return plan
}

func (p *Planner) bidPlaced(event payloads.BidPlacedEvent) Plan {
	bidder := event.BidderName
	if bidder == "" {
		bidder = "A buyer"
	}
	plan := Plan{
		Pushes: []Push{{
			UserUID: event.FarmerUID,
			Title:   "New bid received",
			Body:    fmt.Sprintf("%s bid %s per kg on %s.", bidder, event.BidPerKg, event.Title),
			Link:    fmt.Sprintf("/marketplace/%s", event.ListingID),
		}},
	}
	if event.FarmerEmail != "" {
		plan.Emails = append(plan.Emails, mailer.Message{
			To:      event.FarmerEmail,
			Subject: fmt.Sprintf("New bid on %q", event.Title),
			HTMLBody: fmt.Sprintf(
				"<p>%s placed a bid of <strong>%s per kg</strong> (%s kg, total %s) on your listing <strong>%s</strong>. The listing now has %d bids.</p>",
				bidder, event.BidPerKg, event.Quantity, event.Total, event.Title, event.BidsCount,
			),
		})
	}
	return plan
}

func (p *Planner) deliveryUpdated(event payloads.DeliveryUpdatedEvent) Plan {
	body := fmt.Sprintf("Delivery for %s is now %s.", event.Title, event.Status)
	plan := Plan{
		Pushes: []Push{
			{UserUID: event.BuyerUID, Title: "Delivery update", Body: body},
			{UserUID: event.FarmerUID, Title: "Delivery update", Body: body},
		},
	}
	html := fmt.Sprintf(
		"<p>The delivery for <strong>%s</strong> moved to <strong>%s</strong> (step %d).</p>",
		event.Title, event.Status, event.CurrentStep,
	)
	for _, to := range []string{event.BuyerEmail, event.FarmerEmail} {
		if to == "" {
			continue
		}
		plan.Emails = append(plan.Emails, mailer.Message{
			To:       to,
			Subject:  fmt.Sprintf("Delivery update for %q", event.Title),
			HTMLBody: html,
		})
	}
	return plan
}

func (p *Planner) contactReceived(event payloads.ContactReceivedEvent) Plan {
	if p.opsEmail == "" {
		return Plan{}
	}
	return Plan{
		Emails: []mailer.Message{{
			To:      p.opsEmail,
			Subject: fmt.Sprintf("Contact form: %s", event.Name),
			HTMLBody: fmt.Sprintf(
				"<p>From: %s (%s)</p><p>%s</p>",
				event.Name, event.Email, event.Preview,
			),
		}},
	}
}
