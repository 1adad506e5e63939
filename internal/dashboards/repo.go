package dashboards

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
)

// SnapshotRepository caches rendered dashboard payloads per user and side.
type SnapshotRepository interface {
	Upsert(ctx context.Context, userUID string, side enums.DashboardSide, payload json.RawMessage) error
	Find(ctx context.Context, userUID string, side enums.DashboardSide) (*models.DashboardSnapshot, error)
}

type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository builds a gorm-backed snapshot repository.
func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Upsert fully overwrites the cached payload for the (user, side) pair.
func (r *snapshotRepository) Upsert(ctx context.Context, userUID string, side enums.DashboardSide, payload json.RawMessage) error {
	now := time.Now()
	row := models.DashboardSnapshot{
		ID:          uuid.New(),
		UserUID:     userUID,
		Side:        side,
		Payload:     payload,
		RefreshedAt: now,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_uid"}, {Name: "side"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"payload":      payload,
				"refreshed_at": now,
				"updated_at":   now,
			}),
		}).
		Create(&row).Error
}

func (r *snapshotRepository) Find(ctx context.Context, userUID string, side enums.DashboardSide) (*models.DashboardSnapshot, error) {
	var row models.DashboardSnapshot
	if err := r.db.WithContext(ctx).
		First(&row, "user_uid = ? AND side = ?", userUID, side).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
