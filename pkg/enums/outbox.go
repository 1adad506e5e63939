package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type column on outbox_events.
type OutboxAggregateType string

const (
	AggregateListing   OutboxAggregateType = "listing"
	AggregateBid       OutboxAggregateType = "bid"
	AggregateDelivery  OutboxAggregateType = "delivery"
	AggregateDashboard OutboxAggregateType = "dashboard"
	AggregateContact   OutboxAggregateType = "contact_message"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateListing,
	AggregateBid,
	AggregateDelivery,
	AggregateDashboard,
	AggregateContact,
}

// IsValid reports whether the value matches a known aggregate type.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into an OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type column on outbox_events.
type OutboxEventType string

const (
	EventListingPublished OutboxEventType = "listing_published"
	EventBidPlaced        OutboxEventType = "bid_placed"
	EventDeliveryUpdated  OutboxEventType = "delivery_updated"
	EventDashboardStale   OutboxEventType = "dashboard_stale"
	EventContactReceived  OutboxEventType = "contact_received"
)

var validOutboxEventTypes = []OutboxEventType{
	EventListingPublished,
	EventBidPlaced,
	EventDeliveryUpdated,
	EventDashboardStale,
	EventContactReceived,
}

// IsValid reports whether the value matches a known event type.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into an OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}
