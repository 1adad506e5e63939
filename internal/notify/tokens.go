package notify

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bidagri/bidagri-backend/pkg/db/models"
)

// TokenRepository stores the push tokens devices register. The dispatcher
// resolves a user's tokens at send time so a push reaches every device.
type TokenRepository interface {
	Register(ctx context.Context, userUID, token, platform string) error
	TokensForUser(ctx context.Context, userUID string) ([]string, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository builds a gorm-backed token repository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// Register upserts a device token. A token re-registered by another account
// moves to that account; a device has one owner at a time.
func (r *tokenRepository) Register(ctx context.Context, userUID, token, platform string) error {
	entry := models.NotificationToken{
		ID:       uuid.New(),
		UserUID:  userUID,
		Token:    token,
		Platform: platform,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_uid", "platform"}),
		}).
		Create(&entry).Error
}

func (r *tokenRepository) TokensForUser(ctx context.Context, userUID string) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Model(&models.NotificationToken{}).
		Where("user_uid = ?", userUID).
		Order("created_at ASC").
		Pluck("token", &tokens).Error
	return tokens, err
}
