package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/bidagri/bidagri-backend/api/middleware"
	"github.com/bidagri/bidagri-backend/internal/submissions"
	pkgAuth "github.com/bidagri/bidagri-backend/pkg/auth"
	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	"github.com/bidagri/bidagri-backend/pkg/logger"
)

type capturingSubmissionsService struct {
	lastInput submissions.RegisterInput
}

func (s *capturingSubmissionsService) Register(ctx context.Context, actor pkgAuth.Identity, input submissions.RegisterInput) (*models.Submission, error) {
	s.lastInput = input
	return &models.Submission{ID: uuid.New()}, nil
}

func (s *capturingSubmissionsService) List(ctx context.Context, status, cursor string, limit int) (submissions.SubmissionsPageDTO, error) {
	return submissions.SubmissionsPageDTO{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	identity := pkgAuth.Identity{UID: "farmer-1", Email: "ali@x.com", Role: enums.ActorRoleFarmer}
	return req.WithContext(middleware.WithIdentity(req.Context(), identity))
}

func TestFarmerRegisterQuickForm(t *testing.T) {
	svc := &capturingSubmissionsService{}
	handler := FarmerRegister(svc, testLogger())

	body := `{"source":"quick_form","fullName":"Ali","cropType":"Wheat","location":"Lahore","phone":"03001234567","email":"ali@x.com"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/farmers/register", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["status"] != "ok" || payload["id"] == nil {
		t.Fatalf("unexpected body: %v", payload)
	}
	if svc.lastInput.Quick == nil || svc.lastInput.Quick.FullName != "Ali" {
		t.Fatalf("quick form payload not decoded: %+v", svc.lastInput)
	}
	if svc.lastInput.Wizard != nil {
		t.Fatalf("wizard half should stay empty for quick_form")
	}
}

func TestFarmerRegisterWizard(t *testing.T) {
	svc := &capturingSubmissionsService{}
	handler := FarmerRegister(svc, testLogger())

	body := `{
		"source": "onboarding_wizard",
		"profile": {"fullName":"Ahmed","phone":"03001234567","email":"ahmed@x.com","city":"Multan","province":"Punjab"},
		"produce": {"mainCrops":"Mango","photoUrls":["https://img/1.jpg"]},
		"documents": {"farmProofUrl":"https://img/proof.jpg"}
	}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/farmers/register", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastInput.Wizard == nil || svc.lastInput.Wizard.Profile.FullName != "Ahmed" {
		t.Fatalf("wizard payload not decoded: %+v", svc.lastInput)
	}
}

func TestFarmerRegisterRejectsMalformedJSON(t *testing.T) {
	svc := &capturingSubmissionsService{}
	handler := FarmerRegister(svc, testLogger())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/farmers/register", `{"source":`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
