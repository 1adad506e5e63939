package submissions

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bidagri/bidagri-backend/pkg/auth"
	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/logger"
	"github.com/bidagri/bidagri-backend/pkg/types"
)

// ServiceParams groups dependencies for the submissions service.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

// Service exposes registration intake and the admin review list.
type Service interface {
	Register(ctx context.Context, actor auth.Identity, input RegisterInput) (*models.Submission, error)
	List(ctx context.Context, status string, cursor string, limit int) (SubmissionsPageDTO, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds a submissions service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submissions repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// Register validates the shape matching the source discriminator and persists
// the raw payload for later admin review.
func (s *service) Register(ctx context.Context, actor auth.Identity, input RegisterInput) (*models.Submission, error) {
	if actor.UID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !input.Source.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source must be quick_form or onboarding_wizard")
	}

	var data any
	switch input.Source {
	case enums.SubmissionTypeQuickForm:
		if input.Quick == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quick form fields are required")
		}
		if err := validateQuickForm(input.Quick); err != nil {
			return nil, err
		}
		data = input.Quick
	case enums.SubmissionTypeOnboardingWizard:
		if input.Wizard == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "wizard fields are required")
		}
		if err := validateWizard(input.Wizard); err != nil {
			return nil, err
		}
		data = input.Wizard
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode submission payload")
	}

	row := &models.Submission{
		Type:             input.Source,
		Data:             payload,
		Status:           enums.SubmissionStatusPendingReview,
		SubmittedByUID:   actor.UID,
		SubmittedByEmail: actor.Email,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist submission")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"submission_id": created.ID.String(),
		"type":          created.Type,
	})
	s.logg.Info(logCtx, "submission received")
	return created, nil
}

// List returns submissions for admin review, newest first.
func (s *service) List(ctx context.Context, status string, cursor string, limit int) (SubmissionsPageDTO, error) {
	var parsed enums.SubmissionStatus
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		st, err := enums.ParseSubmissionStatus(trimmed)
		if err != nil {
			return SubmissionsPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "status must be pending_review or published")
		}
		parsed = st
	}

	rows, nextCursor, err := s.repo.ListByStatus(ctx, parsed, cursor, limit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SubmissionsPageDTO{Items: []SubmissionDTO{}}, nil
		}
		return SubmissionsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list submissions")
	}

	items := make([]SubmissionDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	return SubmissionsPageDTO{Items: items, NextCursor: nextCursor}, nil
}

func toDTO(row models.Submission) SubmissionDTO {
	var data any
	if len(row.Data) > 0 {
		_ = json.Unmarshal(row.Data, &data)
	}
	return SubmissionDTO{
		ID:               row.ID,
		Type:             row.Type,
		Status:           row.Status,
		Data:             data,
		ListingID:        row.ListingID,
		SubmittedByUID:   row.SubmittedByUID,
		SubmittedByEmail: row.SubmittedByEmail,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func validateQuickForm(payload *QuickFormPayload) error {
	if strings.TrimSpace(payload.FullName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if strings.TrimSpace(payload.CropType) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "crop type is required")
	}
	if strings.TrimSpace(payload.Location) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}
	if !types.IsPKMobile(payload.Phone) {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone must match 03XXXXXXXXX")
	}
	if !types.IsEmail(payload.Email) {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is invalid")
	}
	return nil
}

func validateWizard(payload *OnboardingWizardPayload) error {
	if strings.TrimSpace(payload.Profile.FullName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	if strings.TrimSpace(payload.Produce.MainCrops) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "main crops are required")
	}
	if strings.TrimSpace(payload.Profile.City) == "" || strings.TrimSpace(payload.Profile.Province) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city and province are required")
	}
	if !types.IsPKMobile(payload.Profile.Phone) {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone must match 03XXXXXXXXX")
	}
	if !types.IsEmail(payload.Profile.Email) {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is invalid")
	}
	if len(payload.Produce.PhotoURLs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one produce photo is required")
	}
	return nil
}
