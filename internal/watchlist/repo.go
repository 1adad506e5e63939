package watchlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bidagri/bidagri-backend/pkg/db/models"
)

// Repository persists the per-buyer watchlist.
type Repository interface {
	Add(ctx context.Context, item *models.WatchlistItem) error
	Remove(ctx context.Context, buyerUID string, listingID uuid.UUID) (bool, error)
	ListByBuyer(ctx context.Context, buyerUID string) ([]models.WatchlistItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed watchlist repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Add inserts the item, silently keeping the existing row when the buyer
// already watches the listing.
func (r *repository) Add(ctx context.Context, item *models.WatchlistItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "buyer_uid"}, {Name: "listing_id"}},
			DoNothing: true,
		}).
		Create(item).Error
}

func (r *repository) Remove(ctx context.Context, buyerUID string, listingID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("buyer_uid = ? AND listing_id = ?", buyerUID, listingID).
		Delete(&models.WatchlistItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ListByBuyer(ctx context.Context, buyerUID string) ([]models.WatchlistItem, error) {
	var rows []models.WatchlistItem
	if err := r.db.WithContext(ctx).
		Where("buyer_uid = ?", buyerUID).
		Order("added_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
