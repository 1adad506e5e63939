package contact

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidagri/bidagri-backend/pkg/db/models"
)

// Repository persists contact form messages.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, row *models.ContactMessage) error
	ListRecent(ctx context.Context, limit int) ([]models.ContactMessage, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gorm-backed contact repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, row *models.ContactMessage) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	var rows []models.ContactMessage
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
