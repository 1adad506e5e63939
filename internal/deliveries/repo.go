package deliveries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidagri/bidagri-backend/pkg/db/models"
)

// Repository persists delivery timelines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, row *models.Delivery) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error)
	Save(ctx context.Context, row *models.Delivery) error
	ListByParty(ctx context.Context, uid string, limit int) ([]models.Delivery, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed delivery repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, row *models.Delivery) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error) {
	var row models.Delivery
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Save(ctx context.Context, row *models.Delivery) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// ListByParty returns deliveries where the uid is either side of the trade,
// newest first.
func (r *repository) ListByParty(ctx context.Context, uid string, limit int) ([]models.Delivery, error) {
	var rows []models.Delivery
	query := r.db.WithContext(ctx).
		Where("buyer_uid = ? OR farmer_uid = ?", uid, uid).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
