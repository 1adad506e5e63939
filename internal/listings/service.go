package listings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bidagri/bidagri-backend/internal/submissions"
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
)

// ServiceParams groups dependencies for the listings service.
type ServiceParams struct {
	DB             *db.Client
	ListingRepo    Repository
	SubmissionRepo submissions.Repository
	Outbox         *outbox.Service
	AdminPolicy    auth.AuthorizationPolicy
	Auction        config.AuctionConfig
	Metrics        *metrics.MarketplaceMetrics
	Logger         *logger.Logger
}

// Service exposes the publish workflow and public browse reads.
type Service interface {
	Publish(ctx context.Context, actor auth.Identity, input PublishInput) (*models.Listing, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	List(ctx context.Context, status string, cursor string, limit int) (ListingsPageDTO, error)
}

type service struct {
	db             *db.Client
	listingRepo    Repository
	submissionRepo submissions.Repository
	outbox         *outbox.Service
	adminPolicy    auth.AuthorizationPolicy
	auction        config.AuctionConfig
	metrics        *metrics.MarketplaceMetrics
	logg           *logger.Logger
}

// NewService builds a listings service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.ListingRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing repo is required")
	}
	if params.SubmissionRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission repo is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox service is required")
	}
	if params.AdminPolicy == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin policy is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		db:             params.DB,
		listingRepo:    params.ListingRepo,
		submissionRepo: params.SubmissionRepo,
		outbox:         params.Outbox,
		adminPolicy:    params.AdminPolicy,
		auction:        params.Auction,
		metrics:        params.Metrics,
		logg:           params.Logger,
	}, nil
}

// Publish promotes a pending submission into a live listing. Only admins may
// call it, authorized either by role claim or by the email allow-list.
func (s *service) Publish(ctx context.Context, actor auth.Identity, input PublishInput) (*models.Listing, error) {
	if !s.adminPolicy.IsAdmin(actor) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}
	if input.SubmissionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submission id is required")
	}
	if input.PricePerKg.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per kg must not be negative")
	}

	submission, err := s.submissionRepo.FindByID(ctx, input.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "submission not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load submission")
	}
	if submission.Status == enums.SubmissionStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "submission already published")
	}

	listing, err := s.mapSubmission(submission, input)
	if err != nil {
		return nil, err
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		created, txErr := s.listingRepo.WithTx(tx).Create(ctx, listing)
		if txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "create listing")
		}
		if txErr := s.submissionRepo.WithTx(tx).MarkPublished(ctx, submission.ID, created.ID); txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "mark submission published")
		}

		actorRef := &outbox.ActorRef{UserUID: actor.UID, Email: actor.Email, Role: actor.Role.String()}
		if txErr := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventListingPublished,
			AggregateType: enums.AggregateListing,
			AggregateID:   created.ID,
			Actor:         actorRef,
			Version:       1,
			Data: payloads.ListingPublishedEvent{
				ListingID:    created.ID,
				SubmissionID: submission.ID,
				Title:        created.Title,
				Category:     created.Category,
				FarmerUID:    created.FarmerUID,
				FarmerEmail:  created.FarmerEmail,
				Source:       submission.Type,
				PublishedAt:  created.PublishedAt,
			},
		}); txErr != nil {
			return txErr
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDashboardStale,
			AggregateType: enums.AggregateDashboard,
			AggregateID:   created.ID,
			Actor:         actorRef,
			Version:       1,
			Data: payloads.DashboardStaleEvent{
				UserUID: created.FarmerUID,
				Side:    enums.DashboardSideFarmer,
				Reason:  "listing_published",
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncListingPublished()
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"listing_id":    listing.ID.String(),
		"submission_id": submission.ID.String(),
	})
	s.logg.Info(logCtx, "submission published")
	return listing, nil
}

// Get returns a single listing by ID.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id is required")
	}
	row, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	return row, nil
}

// List returns the public marketplace browse page.
func (s *service) List(ctx context.Context, status string, cursor string, limit int) (ListingsPageDTO, error) {
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		if _, err := enums.ParseListingStatus(trimmed); err != nil {
			return ListingsPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown listing status")
		}
	}
	rows, nextCursor, err := s.listingRepo.List(ctx, strings.TrimSpace(status), cursor, limit)
	if err != nil {
		return ListingsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings")
	}
	items := make([]ListingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToDTO(row))
	}
	return ListingsPageDTO{Items: items, NextCursor: nextCursor}, nil
}

// ToDTO converts a listing row into its public projection.
func ToDTO(row models.Listing) ListingDTO {
	return ListingDTO{
		ID:          row.ID,
		Title:       row.Title,
		Category:    row.Category,
		Subcategory: row.Subcategory,
		Status:      row.Status,
		PricePerKg:  row.PricePerKg,
		Unit:        row.Unit,
		Location:    row.Location,
		Image:       row.Image,
		Gallery:     row.Gallery,
		FarmerUID:   row.FarmerUID,
		Farmer: FarmerDTO{
			Name:  row.FarmerName,
			Phone: row.FarmerPhone,
			Email: row.FarmerEmail,
		},
		BidsCount:        row.BidsCount,
		HighestBid:       row.HighestBid,
		MinimumIncrement: row.MinimumIncrement,
		CreatedAt:        row.CreatedAt,
		PublishedAt:      row.PublishedAt,
	}
}

func (s *service) mapSubmission(submission *models.Submission, input PublishInput) (*models.Listing, error) {
	status := enums.ListingStatusAvailable
	if trimmed := strings.TrimSpace(input.Status); trimmed != "" {
		parsed, err := enums.ParseListingStatus(trimmed)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown listing status")
		}
		status = parsed
	}

	minIncrement := decimal.NewFromFloat(s.auction.DefaultMinimumIncrement)
	now := time.Now()

	listing := &models.Listing{
		SubmissionID:     submission.ID,
		Status:           status,
		PricePerKg:       input.PricePerKg,
		Unit:             "kg",
		HighestBid:       input.PricePerKg,
		MinimumIncrement: minIncrement,
		PublishedAt:      now,
	}

	switch submission.Type {
	case enums.SubmissionTypeQuickForm:
		var payload submissions.QuickFormPayload
		if err := json.Unmarshal(submission.Data, &payload); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode quick form payload")
		}
		listing.Title = payload.CropType
		listing.Category = payload.CropType
		listing.Location = payload.Location
		listing.Image = s.auction.DefaultListingImageURL
		listing.FarmerUID = submission.SubmittedByUID
		listing.FarmerName = payload.FullName
		listing.FarmerPhone = payload.Phone
		listing.FarmerEmail = payload.Email
		if preferred := strings.TrimSpace(payload.ListingStatus); preferred != "" && input.Status == "" {
			if parsed, err := enums.ParseListingStatus(preferred); err == nil {
				listing.Status = parsed
			}
		}
	case enums.SubmissionTypeOnboardingWizard:
		var payload submissions.OnboardingWizardPayload
		if err := json.Unmarshal(submission.Data, &payload); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode wizard payload")
		}
		listing.Title = payload.Produce.MainCrops
		listing.Category = payload.Produce.MainCrops
		listing.Location = fmt.Sprintf("%s, %s", payload.Profile.City, payload.Profile.Province)
		listing.Image = wizardImage(payload, s.auction.DefaultListingImageURL)
		listing.Gallery = pq.StringArray(payload.Produce.PhotoURLs)
		listing.FarmerUID = submission.SubmittedByUID
		listing.FarmerName = payload.Profile.FullName
		listing.FarmerPhone = payload.Profile.Phone
		listing.FarmerEmail = payload.Profile.Email
		if payload.Produce.Unit != "" {
			listing.Unit = payload.Produce.Unit
		}
		if preferred := strings.TrimSpace(payload.Produce.ListingPreference); preferred != "" && input.Status == "" {
			if parsed, err := enums.ParseListingStatus(preferred); err == nil {
				listing.Status = parsed
			}
		}
		if docs, err := json.Marshal(payload.Documents); err == nil {
			listing.Documents = docs
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unhandled submission type")
	}

	return listing, nil
}

// wizardImage resolves the listing image: first produce photo, else the farm
// proof document, else the configured placeholder.
func wizardImage(payload submissions.OnboardingWizardPayload, fallback string) string {
	if len(payload.Produce.PhotoURLs) > 0 && strings.TrimSpace(payload.Produce.PhotoURLs[0]) != "" {
		return payload.Produce.PhotoURLs[0]
	}
	if strings.TrimSpace(payload.Documents.FarmProofURL) != "" {
		return payload.Documents.FarmProofURL
	}
	return fallback
}
