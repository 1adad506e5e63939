package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bidagri/bidagri-backend/api/controllers"
	"github.com/bidagri/bidagri-backend/api/middleware"
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
	"github.com/bidagri/bidagri-backend/pkg/redis"
)

// Services groups everything the route table serves.
type Services struct {
	Submissions submissions.Service
	Listings    listings.Service
	Bids        bids.Service
	Deliveries  deliveries.Service
	Dashboards  dashboards.Service
	Watchlist   watchlist.Service
	Contact     contact.Service
	PushTokens  notify.TokenRepository
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database *db.Client,
	redisClient *redis.Client,
	adminPolicy auth.AuthorizationPolicy,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var limiter middleware.RateLimiterStore
	if redisClient != nil {
		limiter = redisClient
	}

	intakePolicy := middleware.NewRateLimitPolicy(
		"intake",
		cfg.RateLimit.IntakeWindow,
		cfg.RateLimit.IntakeIPLimit,
	)
	bidPolicy := middleware.NewRateLimitPolicy(
		"bids",
		cfg.RateLimit.BidWindow,
		cfg.RateLimit.BidIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, redisClient))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Public marketplace reads and the contact form.
		r.Get("/bids", controllers.ListBids(svcs.Bids, logg))
		r.Get("/products", controllers.ListListings(svcs.Listings, logg))
		r.Get("/products/{id}", controllers.GetListing(svcs.Listings, logg))
		r.With(middleware.RateLimit(intakePolicy, limiter, logg)).
			Post("/contact", controllers.ContactCreate(svcs.Contact, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/farmers", func(r chi.Router) {
				r.With(middleware.RateLimit(intakePolicy, limiter, logg)).
					Post("/register", controllers.FarmerRegister(svcs.Submissions, logg))
				r.With(middleware.RequireAdmin(adminPolicy, logg)).
					Get("/register", controllers.AdminListSubmissions(svcs.Submissions, logg))
				r.Get("/dashboard", controllers.FarmerDashboard(svcs.Dashboards, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(adminPolicy, logg))
				r.Post("/farmers/publish", controllers.AdminPublish(svcs.Listings, logg))
			})

			r.With(middleware.RateLimit(bidPolicy, limiter, logg)).
				Post("/bids", controllers.PlaceBid(svcs.Bids, logg))

			r.Get("/buyers/dashboard", controllers.BuyerDashboard(svcs.Dashboards, logg))

			r.Route("/deliveries", func(r chi.Router) {
				r.Get("/", controllers.ListDeliveries(svcs.Deliveries, logg))
				r.Get("/{id}", controllers.GetDelivery(svcs.Deliveries, logg))
				r.Patch("/{id}", controllers.UpdateDelivery(svcs.Deliveries, logg))
			})

			r.Route("/watchlist", func(r chi.Router) {
				r.Get("/", controllers.WatchlistList(svcs.Watchlist, logg))
				r.Post("/", controllers.WatchlistAdd(svcs.Watchlist, logg))
				r.Delete("/{productId}", controllers.WatchlistRemove(svcs.Watchlist, logg))
			})

			r.Post("/notifications/token", controllers.RegisterPushToken(svcs.PushTokens, logg))

			r.With(middleware.RequireAdmin(adminPolicy, logg)).
				Get("/contact", controllers.ContactList(svcs.Contact, logg))
		})
	})

	return r
}
