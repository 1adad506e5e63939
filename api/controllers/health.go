package controllers

import (
	"net/http"

	"github.com/bidagri/bidagri-backend/api/responses"
	"github.com/bidagri/bidagri-backend/pkg/config"
	"github.com/bidagri/bidagri-backend/pkg/db"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BidAgri-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness. The cache is optional so only the database
// gates the check.
func HealthReady(cfg *config.Config, database *db.Client, cache *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BidAgri-Env", cfg.App.Env)

		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}

		status := map[string]string{"status": "ready"}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				status["cache"] = "degraded"
			}
		}
		responses.WriteSuccess(w, status)
	}
}
