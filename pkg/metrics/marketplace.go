package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MarketplaceMetrics records the high-level business counters.
type MarketplaceMetrics struct {
	bidsPlaced         prometheus.Counter
	bidsRejected       *prometheus.CounterVec
	listingsPublished  prometheus.Counter
	dashboardRefreshes *prometheus.CounterVec
}

// NewMarketplaceMetrics registers the marketplace metrics on the provided registerer.
func NewMarketplaceMetrics(reg prometheus.Registerer) *MarketplaceMetrics {
	if reg == nil {
		return &MarketplaceMetrics{}
	}
	bidsPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bids_placed_total",
		Help: "Bids accepted by the auction engine.",
	})
	bidsRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bids_rejected_total",
		Help: "Bids rejected before commit.",
	}, []string{"reason"})
	listingsPublished := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "listings_published_total",
		Help: "Submissions promoted to marketplace listings.",
	})
	dashboardRefreshes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_refreshes_total",
		Help: "Dashboard snapshot rebuilds.",
	}, []string{"side"})
	reg.MustRegister(bidsPlaced, bidsRejected, listingsPublished, dashboardRefreshes)
	return &MarketplaceMetrics{
		bidsPlaced:         bidsPlaced,
		bidsRejected:       bidsRejected,
		listingsPublished:  listingsPublished,
		dashboardRefreshes: dashboardRefreshes,
	}
}

// IncBidPlaced increments the accepted-bid counter.
func (m *MarketplaceMetrics) IncBidPlaced() {
	if m == nil || m.bidsPlaced == nil {
		return
	}
	m.bidsPlaced.Inc()
}

// IncBidRejected increments the rejected-bid counter for the given reason.
func (m *MarketplaceMetrics) IncBidRejected(reason string) {
	if m == nil || m.bidsRejected == nil {
		return
	}
	m.bidsRejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncListingPublished increments the publish counter.
func (m *MarketplaceMetrics) IncListingPublished() {
	if m == nil || m.listingsPublished == nil {
		return
	}
	m.listingsPublished.Inc()
}

// IncDashboardRefresh increments the refresh counter for a dashboard side.
func (m *MarketplaceMetrics) IncDashboardRefresh(side string) {
	if m == nil || m.dashboardRefreshes == nil {
		return
	}
	m.dashboardRefreshes.WithLabelValues(normalizeLabel(side)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
