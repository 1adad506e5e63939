package enums

import "fmt"

// DashboardSide distinguishes the buyer and farmer read models.
type DashboardSide string

const (
	DashboardSideBuyer  DashboardSide = "buyer"
	DashboardSideFarmer DashboardSide = "farmer"
)

// IsValid reports whether the value is a known DashboardSide.
func (s DashboardSide) IsValid() bool {
	return s == DashboardSideBuyer || s == DashboardSideFarmer
}

// ParseDashboardSide converts raw input into a DashboardSide.
func ParseDashboardSide(value string) (DashboardSide, error) {
	switch DashboardSide(value) {
	case DashboardSideBuyer:
		return DashboardSideBuyer, nil
	case DashboardSideFarmer:
		return DashboardSideFarmer, nil
	}
	return "", fmt.Errorf("invalid dashboard side %q", value)
}
