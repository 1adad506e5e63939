package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/bidagri/bidagri-backend/pkg/config"
)

// Message is a single outbound email.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender is the direct email transport surface.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SESMailer sends email through the AWS SESv2 API with role-based credentials.
type SESMailer struct {
	client    *sesv2.Client
	fromEmail string
	replyTo   string
}

// New builds an SES mailer from application config.
func New(ctx context.Context, cfg config.MailConfig) (*SESMailer, error) {
	if cfg.FromEmail == "" {
		return nil, errors.New("mail from address is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &SESMailer{
		client:    sesv2.NewFromConfig(awsCfg),
		fromEmail: cfg.FromEmail,
		replyTo:   cfg.ReplyTo,
	}, nil
}

// Send delivers a single email synchronously. Callers treat failures as
// retryable and fall back to the durable mail queue.
func (m *SESMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("recipient is required")
	}
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.fromEmail),
		Destination:      &sestypes.Destination{ToAddresses: []string{msg.To}},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(msg.Subject)},
				Body:    &sestypes.Body{Html: &sestypes.Content{Data: aws.String(msg.HTMLBody)}},
			},
		},
	}
	if m.replyTo != "" {
		input.ReplyToAddresses = []string{m.replyTo}
	}
	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}
