package models

import (
	"time"

	"github.com/google/uuid"
)

// MailQueueEntry is the durable fallback for emails the direct transport
// could not deliver. An out-of-band worker drains it later.
type MailQueueEntry struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ToEmail   string    `gorm:"column:to_email;not null"`
	Subject   string    `gorm:"column:subject;not null"`
	Body      string    `gorm:"column:body;not null"`
	LastError *string   `gorm:"column:last_error"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	SentAt    *time.Time `gorm:"column:sent_at"`
}

func (MailQueueEntry) TableName() string { return "mail_queue" }

// PushQueueEntry is the durable fallback for push notifications.
type PushQueueEntry struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserUID   string    `gorm:"column:user_uid;not null"`
	Title     string    `gorm:"column:title;not null"`
	Body      string    `gorm:"column:body;not null"`
	Link      *string   `gorm:"column:link"`
	LastError *string   `gorm:"column:last_error"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	SentAt    *time.Time `gorm:"column:sent_at"`
}

func (PushQueueEntry) TableName() string { return "push_queue" }

// NotificationToken maps a user to a registered push token.
type NotificationToken struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserUID   string    `gorm:"column:user_uid;not null;index"`
	Token     string    `gorm:"column:token;not null;uniqueIndex"`
	Platform  string    `gorm:"column:platform"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
