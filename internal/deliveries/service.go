package deliveries

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidagri/bidagri-backend/pkg/auth"
	"github.com/bidagri/bidagri-backend/pkg/db"
	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/logger"
	"github.com/bidagri/bidagri-backend/pkg/outbox"
	"github.com/bidagri/bidagri-backend/pkg/outbox/payloads"
	"github.com/bidagri/bidagri-backend/pkg/types"
)

// defaultTimeline is the milestone sequence every delivery starts with.
var defaultTimeline = []string{
	"Order Confirmed",
	"Preparing Produce",
	"Picked Up",
	"In Transit",
	"Delivered",
}

// ServiceParams groups dependencies for the deliveries service.
type ServiceParams struct {
	DB           *db.Client
	DeliveryRepo Repository
	Outbox       *outbox.Service
	Logger       *logger.Logger
}

// Service manages fulfillment timelines between a buyer and a farmer.
type Service interface {
	CreateForBid(ctx context.Context, bid *models.Bid, listing *models.Listing, buyerEmail string) (*models.Delivery, error)
	Get(ctx context.Context, caller auth.Identity, id uuid.UUID) (*models.Delivery, error)
	Update(ctx context.Context, caller auth.Identity, id uuid.UUID, input UpdateInput) (*models.Delivery, error)
	ListForParty(ctx context.Context, caller auth.Identity, uid string, limit int) (DeliveriesPageDTO, error)
}

type service struct {
	db           *db.Client
	deliveryRepo Repository
	outbox       *outbox.Service
	logg         *logger.Logger
}

// NewService builds a deliveries service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.DeliveryRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery repo is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox service is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		db:           params.DB,
		deliveryRepo: params.DeliveryRepo,
		outbox:       params.Outbox,
		logg:         params.Logger,
	}, nil
}

// CreateForBid seeds the pending timeline for a freshly accepted bid. Every
// milestone starts pending and current_step points at the first one.
func (s *service) CreateForBid(ctx context.Context, bid *models.Bid, listing *models.Listing, buyerEmail string) (*models.Delivery, error) {
	if bid == nil || listing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bid and listing are required")
	}

	events := make(types.TimelineEvents, 0, len(defaultTimeline))
	for _, label := range defaultTimeline {
		events = append(events, types.TimelineEvent{
			Label:  label,
			Status: string(enums.TimelineEventPending),
		})
	}

	row := &models.Delivery{
		BidID:          bid.ID,
		ListingID:      listing.ID,
		ListingTitle:   listing.Title,
		FarmerUID:      listing.FarmerUID,
		FarmerName:     listing.FarmerName,
		FarmerEmail:    listing.FarmerEmail,
		BuyerUID:       bid.BidderUID,
		BuyerName:      bid.BidderName,
		BuyerEmail:     buyerEmail,
		DeliveryOption: bid.DeliveryOption,
		Quantity:       bid.Quantity,
		PricePerKg:     bid.BidPerKg,
		Status:         enums.DeliveryStatusPending,
		CurrentStep:    0,
		Events:         events,
	}
	if err := s.deliveryRepo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"delivery_id": row.ID.String(),
		"listing_id":  listing.ID.String(),
		"bid_id":      bid.ID.String(),
	})
	s.logg.Info(logCtx, "delivery timeline seeded")
	return row, nil
}

// Get loads one delivery. Only the two parties and admins may read it.
func (s *service) Get(ctx context.Context, caller auth.Identity, id uuid.UUID) (*models.Delivery, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(caller, row); err != nil {
		return nil, err
	}
	return row, nil
}

// Update applies a timeline patch. At least one patch field must be present.
// current_step only moves forward when a step completes, unless the caller
// supplies an explicit override, which is taken verbatim.
func (s *service) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, input UpdateInput) (*models.Delivery, error) {
	if input.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patch must contain at least one field")
	}
	if input.Status != "" {
		if _, err := enums.ParseDeliveryStatus(input.Status); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery status")
		}
	}
	if input.EventStatus != "" && !enums.TimelineEventStatus(input.EventStatus).IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event status must be pending or completed")
	}

	var updated *models.Delivery
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.deliveryRepo.WithTx(tx)
		row, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "delivery not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery")
		}
		if err := s.authorize(caller, row); err != nil {
			return err
		}

		if input.StepIndex != nil {
			step := *input.StepIndex
			if step < 0 || step >= len(row.Events) {
				return pkgerrors.New(pkgerrors.CodeValidation, "step index out of range").
					WithDetails(map[string]any{"steps": len(row.Events)})
			}
			event := row.Events[step]
			if input.Detail != "" {
				event.Detail = input.Detail
			}
			if input.EventStatus != "" {
				event.Status = input.EventStatus
				if input.EventStatus == string(enums.TimelineEventCompleted) {
					now := time.Now()
					event.Timestamp = &now
					if step > row.CurrentStep {
						row.CurrentStep = step
					}
				}
			}
			row.Events[step] = event
		}
		if input.CurrentStep != nil {
			row.CurrentStep = *input.CurrentStep
		}
		if input.Status != "" {
			row.Status = enums.DeliveryStatus(input.Status)
		}
		if input.ETA != nil {
			row.ETA = input.ETA
		}
		if input.Window != nil {
			row.Window = input.Window
		}
		row.UpdatedAt = time.Now()

		if err := repo.Save(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save delivery")
		}

		event := payloads.DeliveryUpdatedEvent{
			DeliveryID:  row.ID,
			ListingID:   row.ListingID,
			Title:       row.ListingTitle,
			Status:      row.Status,
			CurrentStep: row.CurrentStep,
			FarmerUID:   row.FarmerUID,
			FarmerEmail: row.FarmerEmail,
			BuyerUID:    row.BuyerUID,
			BuyerEmail:  row.BuyerEmail,
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDeliveryUpdated,
			AggregateType: enums.AggregateDelivery,
			AggregateID:   row.ID,
			Actor:         &outbox.ActorRef{UserUID: caller.UID, Email: caller.Email, Role: caller.Role.String()},
			Data:          event,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue delivery notification")
		}

		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"delivery_id":  updated.ID.String(),
		"current_step": updated.CurrentStep,
		"status":       updated.Status,
	})
	s.logg.Info(logCtx, "delivery updated")
	return updated, nil
}

// ListForParty returns the caller's deliveries. Admins may list on behalf of
// any uid.
func (s *service) ListForParty(ctx context.Context, caller auth.Identity, uid string, limit int) (DeliveriesPageDTO, error) {
	if caller.UID == "" {
		return DeliveriesPageDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if uid == "" {
		uid = caller.UID
	}
	if uid != caller.UID && caller.Role != enums.ActorRoleAdmin {
		return DeliveriesPageDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "cannot view another user's deliveries")
	}

	rows, err := s.deliveryRepo.ListByParty(ctx, uid, limit)
	if err != nil {
		return DeliveriesPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deliveries")
	}
	page := DeliveriesPageDTO{Items: make([]DeliveryDTO, 0, len(rows))}
	for _, row := range rows {
		page.Items = append(page.Items, toDTO(row))
	}
	return page, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Delivery, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery id is required")
	}
	row, err := s.deliveryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "delivery not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery")
	}
	return row, nil
}

func (s *service) authorize(caller auth.Identity, row *models.Delivery) error {
	if caller.UID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if caller.Role == enums.ActorRoleAdmin {
		return nil
	}
	if caller.UID == row.BuyerUID || caller.UID == row.FarmerUID {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not a party to this delivery")
}

// ToDTO maps a delivery row to its public shape.
func ToDTO(row models.Delivery) DeliveryDTO {
	return toDTO(row)
}

func toDTO(row models.Delivery) DeliveryDTO {
	return DeliveryDTO{
		ID:             row.ID,
		BidID:          row.BidID,
		ListingID:      row.ListingID,
		ListingTitle:   row.ListingTitle,
		FarmerUID:      row.FarmerUID,
		FarmerName:     row.FarmerName,
		BuyerUID:       row.BuyerUID,
		BuyerName:      row.BuyerName,
		DeliveryOption: row.DeliveryOption,
		Quantity:       row.Quantity,
		PricePerKg:     row.PricePerKg,
		Status:         row.Status,
		CurrentStep:    row.CurrentStep,
		Events:         row.Events,
		ETA:            row.ETA,
		Window:         row.Window,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
