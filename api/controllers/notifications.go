package controllers

import (
	"net/http"

	"github.com/bidagri/bidagri-backend/api/middleware"
	"github.com/bidagri/bidagri-backend/api/responses"
	"github.com/bidagri/bidagri-backend/api/validators"
	"github.com/bidagri/bidagri-backend/internal/notify"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/logger"
)

type registerTokenRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"omitempty,oneof=android ios web"`
}

// RegisterPushToken stores the caller's device token so deliveries and bid
// alerts reach every registered device.
func RegisterPushToken(tokens notify.TokenRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerTokenRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.IdentityFromContext(r.Context())
		if err := tokens.Register(r.Context(), actor.UID, body.Token, body.Platform); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register push token"))
			return
		}

		responses.WriteOK(w, http.StatusCreated, nil)
	}
}
