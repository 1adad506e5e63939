package enums

import "fmt"

// ListingStatus represents the lifecycle of a published produce listing.
type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "Available"
	ListingStatusInBidding ListingStatus = "In Bidding"
	ListingStatusSold      ListingStatus = "Sold"
	ListingStatusCompleted ListingStatus = "Completed"
)

var validListingStatuses = []ListingStatus{
	ListingStatusAvailable,
	ListingStatusInBidding,
	ListingStatusSold,
	ListingStatusCompleted,
}

// String implements fmt.Stringer.
func (s ListingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ListingStatus.
func (s ListingStatus) IsValid() bool {
	for _, candidate := range validListingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseListingStatus converts raw input into a ListingStatus.
func ParseListingStatus(value string) (ListingStatus, error) {
	for _, candidate := range validListingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing status %q", value)
}
