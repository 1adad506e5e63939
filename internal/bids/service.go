package bids

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bidagri/bidagri-backend/internal/listings"
	"github.com/bidagri/bidagri-backend/pkg/auth"
	"github.com/bidagri/bidagri-backend/pkg/config"
	"github.com/bidagri/bidagri-backend/pkg/db"
	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/logger"
	"github.com/bidagri/bidagri-backend/pkg/metrics"
	"github.com/bidagri/bidagri-backend/pkg/outbox"
	"github.com/bidagri/bidagri-backend/pkg/outbox/payloads"
	"github.com/bidagri/bidagri-backend/pkg/types"
)

// DeliveryCreator seeds a fulfillment timeline once a bid lands. Failures are
// logged and swallowed; the bid stands regardless.
type DeliveryCreator interface {
	CreateForBid(ctx context.Context, bid *models.Bid, listing *models.Listing, buyerEmail string) (*models.Delivery, error)
}

// ServiceParams groups dependencies for the bids service.
type ServiceParams struct {
	DB          *db.Client
	BidRepo     Repository
	ListingRepo listings.Repository
	Deliveries  DeliveryCreator
	Outbox      *outbox.Service
	Auction     config.AuctionConfig
	Metrics     *metrics.MarketplaceMetrics
	Logger      *logger.Logger
}

// Service is the auction engine surface.
type Service interface {
	Place(ctx context.Context, actor auth.Identity, input PlaceBidInput) (*models.Bid, error)
	List(ctx context.Context, listingID uuid.UUID, limit int) (BidsPageDTO, error)
}

type service struct {
	db          *db.Client
	bidRepo     Repository
	listingRepo listings.Repository
	deliveries  DeliveryCreator
	outbox      *outbox.Service
	auction     config.AuctionConfig
	metrics     *metrics.MarketplaceMetrics
	logg        *logger.Logger
}

// NewService builds a bids service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.BidRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bid repo is required")
	}
	if params.ListingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing repo is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox service is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		db:          params.DB,
		bidRepo:     params.BidRepo,
		listingRepo: params.ListingRepo,
		deliveries:  params.Deliveries,
		outbox:      params.Outbox,
		auction:     params.Auction,
		metrics:     params.Metrics,
		logg:        params.Logger,
	}, nil
}

// Place runs the minimum-increment auction rule inside a single transaction.
// The locked listing read, the bid insert, and the aggregate update commit or
// roll back together so two concurrent bidders cannot both win against a
// stale highest bid.
func (s *service) Place(ctx context.Context, actor auth.Identity, input PlaceBidInput) (*models.Bid, error) {
	if actor.UID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actor.Role != enums.ActorRoleBuyer && actor.Role != enums.ActorRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only buyers may place bids")
	}
	if input.ListingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !input.PricePerKg.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per kg must be greater than zero")
	}
	if !input.Quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	if !types.IsPKMobile(input.Phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone must match 03XXXXXXXXX")
	}

	option := enums.DeliveryOptionPickup
	if input.DeliveryOption != "" {
		option = enums.DeliveryOption(input.DeliveryOption)
		if !option.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery option must be pickup or delivered")
		}
	}

	var (
		bid     *models.Bid
		listing *models.Listing
	)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		row, txErr := s.listingRepo.WithTx(tx).FindByIDForUpdate(ctx, input.ListingID)
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, txErr, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "load listing")
		}
		listing = row

		requiredBid := listing.PricePerKg
		if listing.HighestBid.IsPositive() {
			requiredBid = listing.HighestBid.Add(listing.MinimumIncrement)
		}
		if actor.Role != enums.ActorRoleAdmin && input.PricePerKg.LessThan(requiredBid) {
			s.metrics.IncBidRejected("below_minimum")
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("bid must be at least %s per kg", requiredBid.StringFixed(2)),
			).WithDetails(map[string]any{"requiredBid": requiredBid})
		}

		bid = &models.Bid{
			ListingID:      listing.ID,
			BidPerKg:       input.PricePerKg,
			Quantity:       input.Quantity,
			Total:          input.PricePerKg.Mul(input.Quantity),
			DeliveryOption: option,
			Notes:          input.Notes,
			BidderUID:      actor.UID,
			BidderName:     input.BidderName,
			BidderPhone:    input.Phone,
		}
		if _, txErr := s.bidRepo.WithTx(tx).Create(ctx, bid); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "persist bid")
		}

		// highest_bid never decreases, even for admin bids below the floor
		newHighest := decimal.Max(listing.HighestBid, input.PricePerKg)
		status := listing.Status
		if status == enums.ListingStatusAvailable {
			status = enums.ListingStatusInBidding
		}
		if txErr := s.listingRepo.WithTx(tx).ApplyBidPlacement(ctx, listing.ID, newHighest, status); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "update listing aggregates")
		}
		listing.HighestBid = newHighest
		listing.BidsCount++
		listing.Status = status

		actorRef := &outbox.ActorRef{UserUID: actor.UID, Email: actor.Email, Role: actor.Role.String()}
		if txErr := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBidPlaced,
			AggregateType: enums.AggregateBid,
			AggregateID:   bid.ID,
			Actor:         actorRef,
			Version:       1,
			Data: payloads.BidPlacedEvent{
				BidID:       bid.ID,
				ListingID:   listing.ID,
				Title:       listing.Title,
				BidPerKg:    bid.BidPerKg,
				Quantity:    bid.Quantity,
				Total:       bid.Total,
				BidderUID:   bid.BidderUID,
				BidderName:  bid.BidderName,
				FarmerUID:   listing.FarmerUID,
				FarmerEmail: listing.FarmerEmail,
				HighestBid:  listing.HighestBid,
				BidsCount:   listing.BidsCount,
			},
		}); txErr != nil {
			return txErr
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDashboardStale,
			AggregateType: enums.AggregateDashboard,
			AggregateID:   listing.ID,
			Actor:         actorRef,
			Version:       1,
			Data: payloads.DashboardStaleEvent{
				UserUID: actor.UID,
				Side:    enums.DashboardSideBuyer,
				Reason:  "bid_placed",
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncBidPlaced()
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"bid_id":     bid.ID.String(),
		"listing_id": listing.ID.String(),
		"bid_per_kg": bid.BidPerKg.String(),
	})
	s.logg.Info(logCtx, "bid placed")

	// best effort: the bid stands even if the timeline seed fails
	if s.deliveries != nil {
		if _, derr := s.deliveries.CreateForBid(ctx, bid, listing, actor.Email); derr != nil {
			s.logg.Warn(logCtx, fmt.Sprintf("delivery creation failed: %v", derr))
		}
	}

	return bid, nil
}

// List returns up to limit bids for a listing, highest price first.
func (s *service) List(ctx context.Context, listingID uuid.UUID, limit int) (BidsPageDTO, error) {
	if listingID == uuid.Nil {
		return BidsPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	maxLimit := s.auction.MaxBidListLimit
	if maxLimit <= 0 {
		maxLimit = 100
	}
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	rows, err := s.bidRepo.ListByListing(ctx, listingID, limit)
	if err != nil {
		return BidsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bids")
	}
	items := make([]BidDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	return BidsPageDTO{Items: items}, nil
}

// ToDTO maps a bid row to its public shape.
func ToDTO(row models.Bid) BidDTO {
	return toDTO(row)
}

func toDTO(row models.Bid) BidDTO {
	return BidDTO{
		ID:             row.ID,
		ListingID:      row.ListingID,
		BidPerKg:       row.BidPerKg,
		Quantity:       row.Quantity,
		Total:          row.Total,
		DeliveryOption: row.DeliveryOption,
		Notes:          row.Notes,
		BidderUID:      row.BidderUID,
		BidderName:     row.BidderName,
		CreatedAt:      row.CreatedAt,
	}
}
