package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bidagri/bidagri-backend/api/routes"
	"github.com/bidagri/bidagri-backend/internal/bids"
	"github.com/bidagri/bidagri-backend/internal/contact"
	"github.com/bidagri/bidagri-backend/internal/dashboards"
	"github.com/bidagri/bidagri-backend/internal/deliveries"
	"github.com/bidagri/bidagri-backend/internal/listings"
	"github.com/bidagri/bidagri-backend/internal/notify"
	"github.com/bidagri/bidagri-backend/internal/submissions"
	"github.com/bidagri/bidagri-backend/internal/watchlist"
	"github.com/bidagri/bidagri-backend/pkg/auth"
	"github.com/bidagri/bidagri-backend/pkg/config"
	"github.com/bidagri/bidagri-backend/pkg/db"
	"github.com/bidagri/bidagri-backend/pkg/logger"
	"github.com/bidagri/bidagri-backend/pkg/metrics"
	"github.com/bidagri/bidagri-backend/pkg/migrate"
	"github.com/bidagri/bidagri-backend/pkg/outbox"
	"github.com/bidagri/bidagri-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	adminPolicy := auth.DefaultAdminPolicy(cfg.Admin.Emails)
	marketMetrics := metrics.NewMarketplaceMetrics(nil)
	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	submissionsSvc, err := submissions.NewService(submissions.ServiceParams{
		Repo:   submissions.NewRepository(dbClient.DB()),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create submissions service", err)
		os.Exit(1)
	}

	listingRepo := listings.NewRepository(dbClient.DB())
	listingsSvc, err := listings.NewService(listings.ServiceParams{
		DB:             dbClient,
		ListingRepo:    listingRepo,
		SubmissionRepo: submissions.NewRepository(dbClient.DB()),
		Outbox:         outboxSvc,
		AdminPolicy:    adminPolicy,
		Auction:        cfg.Auction,
		Metrics:        marketMetrics,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create listings service", err)
		os.Exit(1)
	}

	deliveriesSvc, err := deliveries.NewService(deliveries.ServiceParams{
		DB:           dbClient,
		DeliveryRepo: deliveries.NewRepository(dbClient.DB()),
		Outbox:       outboxSvc,
		Logger:       logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create deliveries service", err)
		os.Exit(1)
	}

	bidsSvc, err := bids.NewService(bids.ServiceParams{
		DB:          dbClient,
		BidRepo:     bids.NewRepository(dbClient.DB()),
		ListingRepo: listingRepo,
		Deliveries:  deliveriesSvc,
		Outbox:      outboxSvc,
		Auction:     cfg.Auction,
		Metrics:     marketMetrics,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bids service", err)
		os.Exit(1)
	}

	watchlistRepo := watchlist.NewRepository(dbClient.DB())
	watchlistSvc, err := watchlist.NewService(watchlist.ServiceParams{
		Repo:   watchlistRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create watchlist service", err)
		os.Exit(1)
	}

	dashboardsSvc, err := dashboards.NewService(dashboards.ServiceParams{
		SnapshotRepo:  dashboards.NewSnapshotRepository(dbClient.DB()),
		ListingRepo:   listingRepo,
		WatchlistRepo: watchlistRepo,
		Metrics:       marketMetrics,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboards service", err)
		os.Exit(1)
	}

	contactSvc, err := contact.NewService(contact.ServiceParams{
		DB:          dbClient,
		ContactRepo: contact.NewRepository(dbClient.DB()),
		Outbox:      outboxSvc,
		AdminPolicy: adminPolicy,
		Queues:      notify.NewQueueRepository(dbClient.DB()),
		OpsEmail:    cfg.Mail.ReplyTo,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create contact service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, adminPolicy, routes.Services{
			Submissions: submissionsSvc,
			Listings:    listingsSvc,
			Bids:        bidsSvc,
			Deliveries:  deliveriesSvc,
			Dashboards:  dashboardsSvc,
			Watchlist:   watchlistSvc,
			Contact:     contactSvc,
			PushTokens:  notify.NewTokenRepository(dbClient.DB()),
		}),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-stopCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}
