package watchlist

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bidagri/bidagri-backend/pkg/auth"
	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/logger"
)

// ItemDTO is one watched listing reference.
type ItemDTO struct {
	ListingID uuid.UUID `json:"productId"`
	AddedAt   time.Time `json:"addedAt"`
}

// PageDTO is the buyer's full watchlist.
type PageDTO struct {
	Items []ItemDTO `json:"items"`
}

// ServiceParams groups dependencies for the watchlist service.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

// Service manages a buyer's watched listings.
type Service interface {
	Add(ctx context.Context, actor auth.Identity, listingID uuid.UUID) error
	Remove(ctx context.Context, actor auth.Identity, listingID uuid.UUID) error
	List(ctx context.Context, actor auth.Identity) (PageDTO, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds a watchlist service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "watchlist repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *service) Add(ctx context.Context, actor auth.Identity, listingID uuid.UUID) error {
	if err := s.authorize(actor); err != nil {
		return err
	}
	if listingID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	item := &models.WatchlistItem{BuyerUID: actor.UID, ListingID: listingID}
	if err := s.repo.Add(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add watchlist item")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, actor auth.Identity, listingID uuid.UUID) error {
	if err := s.authorize(actor); err != nil {
		return err
	}
	removed, err := s.repo.Remove(ctx, actor.UID, listingID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove watchlist item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "listing is not on the watchlist")
	}
	return nil
}

func (s *service) List(ctx context.Context, actor auth.Identity) (PageDTO, error) {
	if err := s.authorize(actor); err != nil {
		return PageDTO{}, err
	}
	rows, err := s.repo.ListByBuyer(ctx, actor.UID)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list watchlist")
	}
	page := PageDTO{Items: make([]ItemDTO, 0, len(rows))}
	for _, row := range rows {
		page.Items = append(page.Items, ItemDTO{ListingID: row.ListingID, AddedAt: row.AddedAt})
	}
	return page, nil
}

// Watchlists belong to buyers. Admins have their own read paths and farmers
// have none.
func (s *service) authorize(actor auth.Identity) error {
	if actor.UID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actor.Role != enums.ActorRoleBuyer {
		return pkgerrors.New(pkgerrors.CodeForbidden, "watchlists are buyer-only")
	}
	return nil
}
