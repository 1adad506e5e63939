package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bidagri/bidagri-backend/pkg/enums"
)

// Submission is a farmer's raw registration payload awaiting admin review.
// The data column keeps the source-specific shape (quick form vs wizard)
// untouched so publishing can map it later.
type Submission struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Type             enums.SubmissionType   `gorm:"column:type;type:text;not null"`
	Data             json.RawMessage        `gorm:"column:data;type:jsonb;not null"`
	Status           enums.SubmissionStatus `gorm:"column:status;type:text;not null;default:'pending_review'"`
	ListingID        *uuid.UUID             `gorm:"column:listing_id;type:uuid"`
	SubmittedByUID   string                 `gorm:"column:submitted_by_uid;not null"`
	SubmittedByEmail string                 `gorm:"column:submitted_by_email;not null"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
