package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/bidagri/bidagri-backend/internal/notify"
	"github.com/bidagri/bidagri-backend/pkg/config"
	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	"github.com/bidagri/bidagri-backend/pkg/logger"
	"github.com/bidagri/bidagri-backend/pkg/mailer"
	"github.com/bidagri/bidagri-backend/pkg/metrics"
	"github.com/bidagri/bidagri-backend/pkg/outbox"
	"github.com/bidagri/bidagri-backend/pkg/outbox/payloads"
)

const (
	defaultBatchSize   = 50
	defaultPollMs      = 500
	defaultMaxAttempts = 10
	defaultSendTimeout = 15 * time.Second
	maxBackoff         = 10 * time.Second
	jitterWindow       = 250 * time.Millisecond
)

var jitterSource = rand.New(rand.NewSource(time.Now().UnixNano()))

type outboxRepository interface {
	FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

type dashboardRefresher interface {
	Refresh(ctx context.Context, userUID string, side enums.DashboardSide) error
}

type pushPublisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) pushResult
}

type pushResult interface {
	Get(ctx context.Context) (string, error)
}

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	Repository outboxRepository
	Planner    *notify.Planner
	Mailer     mailer.Sender
	Publisher  pushPublisher
	Queues     notify.QueueRepository
	Tokens     notify.TokenRepository
	Dashboards dashboardRefresher
	Metrics    *metrics.DispatchMetrics
}

// Service drains the outbox and fans each event out to its recipients.
// Direct transports go first; a failed send falls back to the durable
// mail/push queues so nothing is dropped.
type Service struct {
	logg         *logger.Logger
	repo         outboxRepository
	planner      *notify.Planner
	mailer       mailer.Sender
	publisher    pushPublisher
	queues       notify.QueueRepository
	tokens       notify.TokenRepository
	dashboards   dashboardRefresher
	metrics      *metrics.DispatchMetrics
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}
	if params.Planner == nil {
		return nil, errors.New("notification planner is required")
	}
	if params.Queues == nil {
		return nil, errors.New("queue repository is required")
	}
	if params.Dashboards == nil {
		return nil, errors.New("dashboard refresher is required")
	}

	batch := params.Config.Outbox.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	pollMs := params.Config.Outbox.PollIntervalMS
	if pollMs <= 0 {
		pollMs = defaultPollMs
	}
	maxAttempts := params.Config.Outbox.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Service{
		logg:         params.Logger,
		repo:         params.Repository,
		planner:      params.Planner,
		mailer:       params.Mailer,
		publisher:    params.Publisher,
		queues:       params.Queues,
		tokens:       params.Tokens,
		dashboards:   params.Dashboards,
		metrics:      params.Metrics,
		batchSize:    batch,
		maxAttempts:  maxAttempts,
		pollInterval: time.Duration(pollMs) * time.Millisecond,
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	interval := s.pollInterval
	backoff := interval

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "outbox dispatcher context canceled")
			return ctx.Err()
		default:
		}

		processed, err := s.ProcessBatch(ctx)
		if err != nil {
			s.logg.Error(ctx, "outbox dispatcher batch error", err)
			backoff = nextBackoff(backoff, interval, maxBackoff)
			if err := s.sleep(ctx, withJitter(backoff)); err != nil {
				return err
			}
			continue
		}

		backoff = interval

		if processed {
			continue
		}

		if err := s.sleep(ctx, withJitter(interval)); err != nil {
			return err
		}
	}
}

// ProcessBatch drains one batch of unpublished events. Returns whether any
// work was found.
func (s *Service) ProcessBatch(ctx context.Context) (bool, error) {
	events, err := s.repo.FetchUnpublished(s.batchSize, s.maxAttempts)
	if err != nil {
		return false, err
	}
	if len(events) == 0 {
		return false, nil
	}

	for _, event := range events {
		fields := map[string]any{
			"outbox_id":     event.ID.String(),
			"event_type":    event.EventType,
			"aggregate_id":  event.AggregateID.String(),
			"attempt_count": event.AttemptCount,
		}
		eventCtx := s.logg.WithFields(ctx, fields)

		start := time.Now()
		err := s.dispatch(ctx, event)
		s.metrics.ObserveDuration(string(event.EventType), time.Since(start))

		if err != nil {
			s.metrics.IncFailed(string(event.EventType))
			nextAttempt := event.AttemptCount + 1
			if nextAttempt >= s.maxAttempts {
				s.logg.Error(eventCtx, "outbox event exhausted its attempts", err)
			} else {
				s.logg.Warn(s.logg.WithField(eventCtx, "error", err.Error()), "outbox dispatch failed")
			}
			if markErr := s.repo.MarkFailed(event.ID, err); markErr != nil {
				return true, fmt.Errorf("mark failure %s: %w", event.ID, markErr)
			}
			continue
		}

		if markErr := s.repo.MarkPublished(event.ID); markErr != nil {
			return true, fmt.Errorf("mark published %s: %w", event.ID, markErr)
		}
		s.logg.Info(eventCtx, "outbox event dispatched")
	}
	return true, nil
}

func (s *Service) dispatch(ctx context.Context, event models.OutboxEvent) error {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	if event.EventType == enums.EventDashboardStale {
		return s.refreshDashboard(ctx, envelope)
	}

	plan, err := s.planner.BuildPlan(event.EventType, envelope)
	if err != nil {
		return err
	}

	for _, msg := range plan.Emails {
		if err := s.sendMail(ctx, msg); err != nil {
			return err
		}
	}
	for _, push := range plan.Pushes {
		if err := s.sendPush(ctx, push); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) refreshDashboard(ctx context.Context, envelope outbox.PayloadEnvelope) error {
	var event payloads.DashboardStaleEvent
	if err := json.Unmarshal(envelope.Data, &event); err != nil {
		return fmt.Errorf("decode dashboard_stale payload: %w", err)
	}
	return s.dashboards.Refresh(ctx, event.UserUID, event.Side)
}

// sendMail tries the direct SES transport first and falls back to the mail
// queue. Only a queue failure is an error: the message is lost otherwise.
func (s *Service) sendMail(ctx context.Context, msg mailer.Message) error {
	if s.mailer != nil {
		sendCtx, cancel := context.WithTimeout(ctx, defaultSendTimeout)
		err := s.mailer.Send(sendCtx, msg)
		cancel()
		if err == nil {
			s.metrics.IncDelivered("email")
			return nil
		}
		logCtx := s.logg.WithField(ctx, "to", msg.To)
		s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "direct email send failed, queueing")
		if queueErr := s.queues.EnqueueMail(ctx, msg, err); queueErr != nil {
			return fmt.Errorf("enqueue mail: %w", queueErr)
		}
		s.metrics.IncQueued("email")
		return nil
	}

	if err := s.queues.EnqueueMail(ctx, msg, nil); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	s.metrics.IncQueued("email")
	return nil
}

// sendPush mirrors sendMail for the push channel: Pub/Sub first, durable
// queue as the fallback.
func (s *Service) sendPush(ctx context.Context, push notify.Push) error {
	var sendErr error
	if s.publisher != nil {
		data, err := json.Marshal(push)
		if err != nil {
			return fmt.Errorf("encode push: %w", err)
		}
		attrs := map[string]string{"user_uid": push.UserUID}
		if s.tokens != nil {
			deviceTokens, tokenErr := s.tokens.TokensForUser(ctx, push.UserUID)
			if tokenErr != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", tokenErr.Error()), "push token lookup failed")
			} else if len(deviceTokens) > 0 {
				attrs["device_tokens"] = strings.Join(deviceTokens, ",")
			}
		}
		sendCtx, cancel := context.WithTimeout(ctx, defaultSendTimeout)
		defer cancel()
		result := s.publisher.Publish(sendCtx, &gcppubsub.Message{
			Data:       data,
			Attributes: attrs,
		})
		if result == nil {
			sendErr = errors.New("publisher returned nil result")
		} else if _, err := result.Get(sendCtx); err == nil {
			s.metrics.IncDelivered("push")
			return nil
		} else {
			sendErr = err
		}
		logCtx := s.logg.WithField(ctx, "user_uid", push.UserUID)
		s.logg.Warn(s.logg.WithField(logCtx, "error", sendErr.Error()), "direct push send failed, queueing")
	}

	if err := s.queues.EnqueuePush(ctx, push, sendErr); err != nil {
		return fmt.Errorf("enqueue push: %w", err)
	}
	s.metrics.IncQueued("push")
	return nil
}

func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nextBackoff(current, base, max time.Duration) time.Duration {
	if current <= 0 {
		current = base
	}
	next := current * 2
	if next > max {
		return max
	}
	return next
}

func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	jitter := time.Duration(jitterSource.Int63n(int64(jitterWindow)))
	return d + jitter
}

func newGCPPushPublisher(p *gcppubsub.Publisher) pushPublisher {
	if p == nil {
		return nil
	}
	return &gcpPublisher{inner: p}
}

type gcpPublisher struct {
	inner *gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) pushResult {
	if p == nil || p.inner == nil {
		return nil
	}
	return p.inner.Publish(ctx, msg)
}
