package notify

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/mailer"
)

// QueueRepository is the durable second tier of notification delivery. When
// the direct transport fails the message lands here for the out-of-band
// retry worker.
type QueueRepository interface {
	EnqueueMail(ctx context.Context, msg mailer.Message, cause error) error
	EnqueuePush(ctx context.Context, push Push, cause error) error
}

type queueRepository struct {
	db *gorm.DB
}

// NewQueueRepository builds a gorm-backed queue repository.
func NewQueueRepository(db *gorm.DB) QueueRepository {
	return &queueRepository{db: db}
}

func (r *queueRepository) EnqueueMail(ctx context.Context, msg mailer.Message, cause error) error {
	entry := models.MailQueueEntry{
		ID:        uuid.New(),
		ToEmail:   msg.To,
		Subject:   msg.Subject,
		Body:      msg.HTMLBody,
		LastError: errMessage(cause),
	}
	return r.db.WithContext(ctx).Create(&entry).Error
}

func (r *queueRepository) EnqueuePush(ctx context.Context, push Push, cause error) error {
	entry := models.PushQueueEntry{
		ID:        uuid.New(),
		UserUID:   push.UserUID,
		Title:     push.Title,
		Body:      push.Body,
		LastError: errMessage(cause),
	}
	if push.Link != "" {
		entry.Link = &push.Link
	}
	return r.db.WithContext(ctx).Create(&entry).Error
}

func errMessage(err error) *string {
	if err == nil {
		return nil
	}
	msg := err.Error()
	return &msg
}
