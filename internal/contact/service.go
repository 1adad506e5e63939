package contact

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bidagri/bidagri-backend/internal/notify"
	"github.com/bidagri/bidagri-backend/pkg/auth"
	"github.com/bidagri/bidagri-backend/pkg/db"
	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/logger"
	"github.com/bidagri/bidagri-backend/pkg/mailer"
	"github.com/bidagri/bidagri-backend/pkg/outbox"
	"github.com/bidagri/bidagri-backend/pkg/outbox/payloads"
	"github.com/bidagri/bidagri-backend/pkg/types"
)

const (
	minMessageLength = 10
	previewLength    = 80
)

// CreateInput is the public contact form body.
type CreateInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// MessageDTO is the admin view of one contact message.
type MessageDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// PageDTO lists contact messages, newest first.
type PageDTO struct {
	Items []MessageDTO `json:"items"`
}

// ServiceParams groups dependencies for the contact service. Queues and
// OpsEmail are optional; when set they provide a durable fallback for the
// inbound message itself when the primary store is down.
type ServiceParams struct {
	DB          *db.Client
	ContactRepo Repository
	Outbox      *outbox.Service
	AdminPolicy auth.AuthorizationPolicy
	Queues      notify.QueueRepository
	OpsEmail    string
	Logger      *logger.Logger
}

// Service handles the public contact form and its admin inbox.
type Service interface {
	// Create stores the message. The bool reports the degraded path: true
	// means the store was unavailable and the message was queued for ops
	// instead of persisted.
	Create(ctx context.Context, input CreateInput) (*models.ContactMessage, bool, error)
	List(ctx context.Context, actor auth.Identity, limit int) (PageDTO, error)
}

type service struct {
	db          *db.Client
	contactRepo Repository
	outbox      *outbox.Service
	adminPolicy auth.AuthorizationPolicy
	queues      notify.QueueRepository
	opsEmail    string
	logg        *logger.Logger
}

// NewService builds a contact service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.ContactRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact repo is required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "outbox service is required")
	}
	if params.AdminPolicy == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin policy is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		db:          params.DB,
		contactRepo: params.ContactRepo,
		outbox:      params.Outbox,
		adminPolicy: params.AdminPolicy,
		queues:      params.Queues,
		opsEmail:    strings.TrimSpace(params.OpsEmail),
		logg:        params.Logger,
	}, nil
}

// Create stores a public contact message. No authentication required.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.ContactMessage, bool, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	message := strings.TrimSpace(input.Message)

	if name == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !types.IsEmail(email) {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(message) < minMessageLength {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "message must be at least 10 characters").
			WithDetails(map[string]any{"minLength": minMessageLength})
	}

	row := &models.ContactMessage{Name: name, Email: email, Message: message}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.contactRepo.WithTx(tx).Create(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store contact message")
		}
		preview := message
		if len(preview) > previewLength {
			preview = preview[:previewLength]
		}
		event := payloads.ContactReceivedEvent{
			MessageID: row.ID,
			Name:      name,
			Email:     email,
			Preview:   preview,
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventContactReceived,
			AggregateType: enums.AggregateContact,
			AggregateID:   row.ID,
			Data:          event,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue contact notification")
		}
		return nil
	})
	if err != nil {
		if queued := s.queueFallback(ctx, name, email, message, err); queued {
			return nil, true, nil
		}
		return nil, false, err
	}

	logCtx := s.logg.WithField(ctx, "message_id", row.ID.String())
	s.logg.Info(logCtx, "contact message received")
	return row, false, nil
}

// queueFallback routes the raw message to the ops mail queue when the primary
// store cannot take it. Returns false when no fallback is configured or the
// queue write also failed.
func (s *service) queueFallback(ctx context.Context, name, email, message string, cause error) bool {
	if s.queues == nil || s.opsEmail == "" {
		return false
	}
	msg := mailer.Message{
		To:      s.opsEmail,
		Subject: "Contact form message (store unavailable)",
		HTMLBody: "<p>From: " + name + " &lt;" + email + "&gt;</p><p>" +
			message + "</p>",
	}
	if err := s.queues.EnqueueMail(ctx, msg, cause); err != nil {
		s.logg.Error(ctx, "contact fallback queue failed", err)
		return false
	}
	s.logg.Warn(ctx, "contact store down, message queued for ops")
	return true
}

// List returns recent messages for the admin inbox.
func (s *service) List(ctx context.Context, actor auth.Identity, limit int) (PageDTO, error) {
	if actor.UID == "" {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !s.adminPolicy.IsAdmin(actor) {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}

	rows, err := s.contactRepo.ListRecent(ctx, limit)
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contact messages")
	}
	page := PageDTO{Items: make([]MessageDTO, 0, len(rows))}
	for _, row := range rows {
		page.Items = append(page.Items, MessageDTO{
			ID:        row.ID.String(),
			Name:      row.Name,
			Email:     row.Email,
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
		})
	}
	return page, nil
}
