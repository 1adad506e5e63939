package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/bidagri/bidagri-backend/internal/dashboards"
	"github.com/bidagri/bidagri-backend/internal/listings"
	"github.com/bidagri/bidagri-backend/internal/notify"
	"github.com/bidagri/bidagri-backend/internal/watchlist"
	"github.com/bidagri/bidagri-backend/pkg/config"
	"github.com/bidagri/bidagri-backend/pkg/db"
	"github.com/bidagri/bidagri-backend/pkg/logger"
	"github.com/bidagri/bidagri-backend/pkg/mailer"
	"github.com/bidagri/bidagri-backend/pkg/metrics"
	"github.com/bidagri/bidagri-backend/pkg/migrate"
	"github.com/bidagri/bidagri-backend/pkg/outbox"
	"github.com/bidagri/bidagri-backend/pkg/pubsub"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "outbox-dispatcher"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "outbox-dispatcher",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var sender mailer.Sender
	if cfg.Mail.FromEmail != "" {
		sesMailer, err := mailer.New(context.Background(), cfg.Mail)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap mailer", err)
			os.Exit(1)
		}
		sender = sesMailer
	} else {
		logg.Warn(context.Background(), "no SES sender configured, emails will queue durably")
	}

	var publisher pushPublisher
	if cfg.GCP.ProjectID != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub client", err)
			}
		}()
		publisher = newGCPPushPublisher(pubsubClient.PushPublisher())
	} else {
		logg.Warn(context.Background(), "no pubsub project configured, pushes will queue durably")
	}

	dashboardService, err := dashboards.NewService(dashboards.ServiceParams{
		SnapshotRepo:  dashboards.NewSnapshotRepository(dbClient.DB()),
		ListingRepo:   listings.NewRepository(dbClient.DB()),
		WatchlistRepo: watchlist.NewRepository(dbClient.DB()),
		Metrics:       metrics.NewMarketplaceMetrics(nil),
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboards service", err)
		os.Exit(1)
	}

	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		Repository: outbox.NewRepository(dbClient.DB()),
		Planner:    notify.NewPlanner(cfg.Mail.ReplyTo),
		Mailer:     sender,
		Publisher:  publisher,
		Queues:     notify.NewQueueRepository(dbClient.DB()),
		Tokens:     notify.NewTokenRepository(dbClient.DB()),
		Dashboards: dashboardService,
		Metrics:    metrics.NewDispatchMetrics(nil),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox dispatcher", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": "outbox-dispatcher",
	})
	logg.Info(ctx, "starting outbox dispatcher")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "outbox dispatcher stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "outbox dispatcher shutting down gracefully")
}
