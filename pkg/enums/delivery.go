package enums

import "fmt"

// DeliveryStatus summarizes where a fulfillment timeline currently stands.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "Pending"
	DeliveryStatusInTransit DeliveryStatus = "In Transit"
	DeliveryStatusDelivered DeliveryStatus = "Delivered"
	DeliveryStatusCancelled DeliveryStatus = "Cancelled"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusPending,
	DeliveryStatusInTransit,
	DeliveryStatusDelivered,
	DeliveryStatusCancelled,
}

// String implements fmt.Stringer.
func (s DeliveryStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DeliveryStatus.
func (s DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus converts raw input into a DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}

// TimelineEventStatus marks a single milestone within a delivery timeline.
type TimelineEventStatus string

const (
	TimelineEventPending   TimelineEventStatus = "pending"
	TimelineEventCompleted TimelineEventStatus = "completed"
)

// IsValid reports whether the value is a known TimelineEventStatus.
func (s TimelineEventStatus) IsValid() bool {
	return s == TimelineEventPending || s == TimelineEventCompleted
}

// DeliveryOption captures how the buyer wants the produce moved.
type DeliveryOption string

const (
	DeliveryOptionPickup    DeliveryOption = "pickup"
	DeliveryOptionDelivered DeliveryOption = "delivered"
)

// IsValid reports whether the value is a known DeliveryOption.
func (o DeliveryOption) IsValid() bool {
	return o == DeliveryOptionPickup || o == DeliveryOptionDelivered
}
