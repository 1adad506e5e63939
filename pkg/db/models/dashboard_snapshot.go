package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bidagri/bidagri-backend/pkg/enums"
)

// DashboardSnapshot caches a denormalized per-user read model. It is never a
// source of truth: refresh fully regenerates the payload from the
// authoritative tables.
type DashboardSnapshot struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserUID     string              `gorm:"column:user_uid;not null;uniqueIndex:ux_dashboard_snapshots_user_side"`
	Side        enums.DashboardSide `gorm:"column:side;type:text;not null;uniqueIndex:ux_dashboard_snapshots_user_side"`
	Payload     json.RawMessage     `gorm:"column:payload;type:jsonb;not null"`
	RefreshedAt time.Time           `gorm:"column:refreshed_at;not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
