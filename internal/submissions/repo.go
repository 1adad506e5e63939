package submissions

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	"github.com/bidagri/bidagri-backend/pkg/pagination"
)

// Repository encapsulates submission persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, submission *models.Submission) (*models.Submission, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	ListByStatus(ctx context.Context, status enums.SubmissionStatus, cursor string, limit int) ([]models.Submission, string, error)
	MarkPublished(ctx context.Context, id uuid.UUID, listingID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a submissions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		return nil, err
	}
	return submission, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var row models.Submission
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.SubmissionStatus, cursor string, limit int) ([]models.Submission, string, error) {
	normalizedLimit := pagination.NormalizeLimit(limit)
	limitWithBuffer := pagination.LimitWithBuffer(limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).Model(&models.Submission{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Submission
	err = query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

func (r *repository) MarkPublished(ctx context.Context, id uuid.UUID, listingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     enums.SubmissionStatusPublished,
			"listing_id": listingID,
			"updated_at": time.Now(),
		}).Error
}
