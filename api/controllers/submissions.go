package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/bidagri/bidagri-backend/api/middleware"
	"github.com/bidagri/bidagri-backend/api/responses"
	"github.com/bidagri/bidagri-backend/api/validators"
	"github.com/bidagri/bidagri-backend/internal/submissions"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/logger"
)

// FarmerRegister accepts either registration shape, discriminated by the
// source field.
func FarmerRegister(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "read request body"))
			return
		}

		var head struct {
			Source enums.SubmissionType `json:"source"`
		}
		if err := json.Unmarshal(body, &head); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "invalid JSON body"))
			return
		}

		input := submissions.RegisterInput{Source: head.Source}
		switch head.Source {
		case enums.SubmissionTypeQuickForm:
			var payload submissions.QuickFormPayload
			if err := json.Unmarshal(body, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "invalid JSON body"))
				return
			}
			input.Quick = &payload
		case enums.SubmissionTypeOnboardingWizard:
			var payload submissions.OnboardingWizardPayload
			if err := json.Unmarshal(body, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "invalid JSON body"))
				return
			}
			input.Wizard = &payload
		}

		actor := middleware.IdentityFromContext(r.Context())
		row, err := svc.Register(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, http.StatusCreated, map[string]any{"id": row.ID})
	}
}

// AdminListSubmissions serves the admin review queue.
func AdminListSubmissions(svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), r.URL.Query().Get("status"), r.URL.Query().Get("cursor"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, page)
	}
}
