package controllers

import (
	"net/http"
	"strings"

	"github.com/bidagri/bidagri-backend/api/middleware"
	"github.com/bidagri/bidagri-backend/api/responses"
	"github.com/bidagri/bidagri-backend/internal/dashboards"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/logger"
)

// BuyerDashboard serves a buyer's dashboard snapshot.
func BuyerDashboard(svc dashboards.Service, logg *logger.Logger) http.HandlerFunc {
	return dashboardHandler(svc, logg, "buyerId", enums.DashboardSideBuyer)
}

// FarmerDashboard serves a farmer's dashboard snapshot.
func FarmerDashboard(svc dashboards.Service, logg *logger.Logger) http.HandlerFunc {
	return dashboardHandler(svc, logg, "farmerId", enums.DashboardSideFarmer)
}

func dashboardHandler(svc dashboards.Service, logg *logger.Logger, param string, side enums.DashboardSide) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := strings.TrimSpace(r.URL.Query().Get(param))
		if uid == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeBadRequest, param+" query parameter is required"))
			return
		}

		caller := middleware.IdentityFromContext(r.Context())
		payload, err := svc.Get(r.Context(), caller, uid, side)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, payload)
	}
}
