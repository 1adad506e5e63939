package dashboards

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/bidagri/bidagri-backend/internal/listings"
	"github.com/bidagri/bidagri-backend/internal/watchlist"
	"github.com/bidagri/bidagri-backend/pkg/auth"
	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/logger"
	"github.com/bidagri/bidagri-backend/pkg/metrics"
)

const fallbackListingCount = 10

// ServiceParams groups dependencies for the dashboards service.
type ServiceParams struct {
	SnapshotRepo  SnapshotRepository
	ListingRepo   listings.Repository
	WatchlistRepo watchlist.Repository
	Metrics       *metrics.MarketplaceMetrics
	Logger        *logger.Logger
}

// Service renders and caches per-user dashboard projections.
type Service interface {
	RefreshBuyer(ctx context.Context, buyerUID string) (BuyerPayload, error)
	RefreshFarmer(ctx context.Context, farmerUID string) (FarmerPayload, error)
	Refresh(ctx context.Context, userUID string, side enums.DashboardSide) error
	Get(ctx context.Context, caller auth.Identity, userUID string, side enums.DashboardSide) (json.RawMessage, error)
}

type service struct {
	snapshotRepo  SnapshotRepository
	listingRepo   listings.Repository
	watchlistRepo watchlist.Repository
	metrics       *metrics.MarketplaceMetrics
	logg          *logger.Logger
}

// NewService builds a dashboards service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.SnapshotRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot repo is required")
	}
	if params.ListingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing repo is required")
	}
	if params.WatchlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "watchlist repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		snapshotRepo:  params.SnapshotRepo,
		listingRepo:   params.ListingRepo,
		watchlistRepo: params.WatchlistRepo,
		metrics:       params.Metrics,
		logg:          params.Logger,
	}, nil
}

// RefreshBuyer rebuilds the buyer projection from authoritative state and
// overwrites the cached snapshot.
func (s *service) RefreshBuyer(ctx context.Context, buyerUID string) (BuyerPayload, error) {
	if buyerUID == "" {
		return BuyerPayload{}, pkgerrors.New(pkgerrors.CodeValidation, "buyer uid is required")
	}

	items, err := s.watchlistRepo.ListByBuyer(ctx, buyerUID)
	if err != nil {
		return BuyerPayload{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load watchlist")
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ListingID)
	}
	rows, err := s.listingRepo.FindByIDs(ctx, ids)
	if err != nil {
		return BuyerPayload{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load watched listings")
	}
	index := make(map[uuid.UUID]models.Listing, len(rows))
	for _, row := range rows {
		index[row.ID] = row
	}

	payload := BuildBuyerDashboard(BuyerSource{
		BuyerUID:  buyerUID,
		Watchlist: items,
		Listings:  index,
	})
	if err := s.store(ctx, buyerUID, enums.DashboardSideBuyer, payload); err != nil {
		return BuyerPayload{}, err
	}
	s.metrics.IncDashboardRefresh(string(enums.DashboardSideBuyer))
	return payload, nil
}

// RefreshFarmer rebuilds the farmer projection and overwrites the cached
// snapshot.
func (s *service) RefreshFarmer(ctx context.Context, farmerUID string) (FarmerPayload, error) {
	if farmerUID == "" {
		return FarmerPayload{}, pkgerrors.New(pkgerrors.CodeValidation, "farmer uid is required")
	}

	rows, err := s.listingRepo.ListByFarmer(ctx, farmerUID)
	if err != nil {
		return FarmerPayload{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farmer listings")
	}
	payload := BuildFarmerDashboard(FarmerSource{FarmerUID: farmerUID, Listings: rows})
	if err := s.store(ctx, farmerUID, enums.DashboardSideFarmer, payload); err != nil {
		return FarmerPayload{}, err
	}
	s.metrics.IncDashboardRefresh(string(enums.DashboardSideFarmer))
	return payload, nil
}

// Refresh regenerates whichever side is named. Used by the outbox dispatcher
// when a stale-dashboard event arrives.
func (s *service) Refresh(ctx context.Context, userUID string, side enums.DashboardSide) error {
	switch side {
	case enums.DashboardSideBuyer:
		_, err := s.RefreshBuyer(ctx, userUID)
		return err
	case enums.DashboardSideFarmer:
		_, err := s.RefreshFarmer(ctx, userUID)
		return err
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown dashboard side")
	}
}

// Get serves the cached snapshot, refreshing synchronously when none exists
// yet. When even the refresh fails it degrades to a marketplace-wide payload
// so a first-time user never sees a hard failure.
func (s *service) Get(ctx context.Context, caller auth.Identity, userUID string, side enums.DashboardSide) (json.RawMessage, error) {
	if caller.UID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if userUID == "" {
		userUID = caller.UID
	}
	if userUID != caller.UID && caller.Role != enums.ActorRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot view another user's dashboard")
	}
	if !side.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown dashboard side")
	}

	snapshot, err := s.snapshotRepo.Find(ctx, userUID, side)
	if err == nil {
		return snapshot.Payload, nil
	}

	if refreshErr := s.Refresh(ctx, userUID, side); refreshErr == nil {
		if snapshot, err = s.snapshotRepo.Find(ctx, userUID, side); err == nil {
			return snapshot.Payload, nil
		}
	} else {
		logCtx := s.logg.WithFields(ctx, map[string]any{"user_uid": userUID, "side": string(side)})
		s.logg.Warn(logCtx, "dashboard refresh failed, serving marketplace fallback")
	}

	return s.fallbackPayload(ctx)
}

// fallbackPayload is the generic marketplace snapshot served when no per-user
// projection can be produced.
func (s *service) fallbackPayload(ctx context.Context) (json.RawMessage, error) {
	rows, err := s.listingRepo.ListLatest(ctx, fallbackListingCount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fallback listings")
	}
	items := make([]listings.ListingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, listings.ToDTO(row))
	}
	raw, err := json.Marshal(map[string]any{
		"fallback": true,
		"listings": items,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode fallback payload")
	}
	return raw, nil
}

func (s *service) store(ctx context.Context, userUID string, side enums.DashboardSide, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode dashboard payload")
	}
	if err := s.snapshotRepo.Upsert(ctx, userUID, side, raw); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store dashboard snapshot")
	}
	return nil
}
