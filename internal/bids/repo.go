package bids

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidagri/bidagri-backend/pkg/db/models"
)

// Repository encapsulates bid persistence. Bids are append-only: there is no
// update or delete path.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, bid *models.Bid) (*models.Bid, error)
	ListByListing(ctx context.Context, listingID uuid.UUID, limit int) ([]models.Bid, error)
	ListByBidder(ctx context.Context, bidderUID string) ([]models.Bid, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bids repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, bid *models.Bid) (*models.Bid, error) {
	if bid.ID == uuid.Nil {
		bid.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(bid).Error; err != nil {
		return nil, err
	}
	return bid, nil
}

func (r *repository) ListByListing(ctx context.Context, listingID uuid.UUID, limit int) ([]models.Bid, error) {
	var rows []models.Bid
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("bid_per_kg DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListByBidder(ctx context.Context, bidderUID string) ([]models.Bid, error) {
	var rows []models.Bid
	err := r.db.WithContext(ctx).
		Where("bidder_uid = ?", bidderUID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
