package listings

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bidagri/bidagri-backend/internal/submissions"
	"github.com/bidagri/bidagri-backend/pkg/auth"
	"github.com/bidagri/bidagri-backend/pkg/config"
	"github.com/bidagri/bidagri-backend/pkg/db"
	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/logger"
	"github.com/bidagri/bidagri-backend/pkg/metrics"
	"github.com/bidagri/bidagri-backend/pkg/outbox"
)

func openTestDB(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Submission{},
		&models.Listing{},
		&models.Bid{},
		&models.OutboxEvent{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db.NewFromGorm(conn)
}

func newPublishService(t *testing.T, client *db.Client) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(ServiceParams{
		DB:             client,
		ListingRepo:    NewRepository(client.DB()),
		SubmissionRepo: submissions.NewRepository(client.DB()),
		Outbox:         outbox.NewService(outbox.NewRepository(client.DB()), logg),
		AdminPolicy:    auth.DefaultAdminPolicy([]string{"ops@bidagri.pk"}),
		Auction: config.AuctionConfig{
			DefaultMinimumIncrement: 10,
			DefaultListingImageURL:  "https://images.bidagri.pk/defaults/produce.jpg",
		},
		Metrics: metrics.NewMarketplaceMetrics(nil),
		Logger:  logg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedSubmission(t *testing.T, client *db.Client, subType enums.SubmissionType, data any) *models.Submission {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	row := &models.Submission{
		ID:               uuid.New(),
		Type:             subType,
		Data:             raw,
		Status:           enums.SubmissionStatusPendingReview,
		SubmittedByUID:   "farmer-1",
		SubmittedByEmail: "farmer@x.com",
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := client.DB().Create(row).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}
	return row
}

func adminActor() auth.Identity {
	return auth.Identity{UID: "admin-1", Email: "admin@x.com", Role: enums.ActorRoleAdmin}
}

func TestPublishQuickFormCreatesListing(t *testing.T) {
	client := openTestDB(t)
	svc := newPublishService(t, client)
	sub := seedSubmission(t, client, enums.SubmissionTypeQuickForm, submissions.QuickFormPayload{
		FullName: "Ali",
		CropType: "Wheat",
		Location: "Lahore",
		Phone:    "03001234567",
		Email:    "ali@x.com",
	})

	listing, err := svc.Publish(context.Background(), adminActor(), PublishInput{
		SubmissionID: sub.ID,
		PricePerKg:   decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if listing.Title != "Wheat" || listing.Location != "Lahore" {
		t.Fatalf("field mapping wrong: %+v", listing)
	}
	if !listing.HighestBid.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("highest bid should start at reserve price, got %s", listing.HighestBid)
	}
	if listing.Status != enums.ListingStatusAvailable {
		t.Fatalf("expected Available, got %s", listing.Status)
	}
	if listing.Image != "https://images.bidagri.pk/defaults/produce.jpg" {
		t.Fatalf("quick form should use the placeholder image, got %s", listing.Image)
	}

	var stored models.Submission
	if err := client.DB().First(&stored, "id = ?", sub.ID).Error; err != nil {
		t.Fatalf("reload submission: %v", err)
	}
	if stored.Status != enums.SubmissionStatusPublished {
		t.Fatalf("submission not transitioned, got %s", stored.Status)
	}
	if stored.ListingID == nil || *stored.ListingID != listing.ID {
		t.Fatalf("submission missing listing back-reference")
	}

	var events []models.OutboxEvent
	if err := client.DB().Find(&events).Error; err != nil {
		t.Fatalf("load outbox: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected listing_published + dashboard_stale events, got %d", len(events))
	}
}

func TestPublishWizardImageFallbackChain(t *testing.T) {
	client := openTestDB(t)
	svc := newPublishService(t, client)

	wizard := submissions.OnboardingWizardPayload{
		Profile: submissions.WizardProfile{
			FullName: "Sara",
			Phone:    "03007654321",
			Email:    "sara@x.com",
			City:     "Multan",
			Province: "Punjab",
		},
		Produce:   submissions.WizardProduce{MainCrops: "Mangoes"},
		Documents: submissions.WizardDocuments{FarmProofURL: "https://cdn.example/proof.pdf"},
	}
	sub := seedSubmission(t, client, enums.SubmissionTypeOnboardingWizard, wizard)

	listing, err := svc.Publish(context.Background(), adminActor(), PublishInput{
		SubmissionID: sub.ID,
		PricePerKg:   decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if listing.Image != "https://cdn.example/proof.pdf" {
		t.Fatalf("expected farm proof fallback, got %s", listing.Image)
	}
	if listing.Location != "Multan, Punjab" {
		t.Fatalf("expected city, province location, got %s", listing.Location)
	}
}

func TestPublishForbiddenForNonAdmin(t *testing.T) {
	client := openTestDB(t)
	svc := newPublishService(t, client)

	_, err := svc.Publish(context.Background(), auth.Identity{
		UID:   "buyer-1",
		Email: "buyer@x.com",
		Role:  enums.ActorRoleBuyer,
	}, PublishInput{SubmissionID: uuid.New(), PricePerKg: decimal.NewFromInt(100)})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestPublishAllowlistEmailBypassesRole(t *testing.T) {
	client := openTestDB(t)
	svc := newPublishService(t, client)
	sub := seedSubmission(t, client, enums.SubmissionTypeQuickForm, submissions.QuickFormPayload{
		FullName: "Ali",
		CropType: "Rice",
		Location: "Okara",
		Phone:    "03001234567",
		Email:    "ali@x.com",
	})

	_, err := svc.Publish(context.Background(), auth.Identity{
		UID:   "ops-1",
		Email: "ops@bidagri.pk",
		Role:  enums.ActorRoleFarmer,
	}, PublishInput{SubmissionID: sub.ID, PricePerKg: decimal.NewFromInt(200)})
	if err != nil {
		t.Fatalf("allow-listed email should publish: %v", err)
	}
}

func TestPublishMissingSubmissionIsNotFound(t *testing.T) {
	client := openTestDB(t)
	svc := newPublishService(t, client)

	_, err := svc.Publish(context.Background(), adminActor(), PublishInput{
		SubmissionID: uuid.New(),
		PricePerKg:   decimal.NewFromInt(100),
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestPublishTwiceConflicts(t *testing.T) {
	client := openTestDB(t)
	svc := newPublishService(t, client)
	sub := seedSubmission(t, client, enums.SubmissionTypeQuickForm, submissions.QuickFormPayload{
		FullName: "Ali",
		CropType: "Maize",
		Location: "Sahiwal",
		Phone:    "03001234567",
		Email:    "ali@x.com",
	})

	if _, err := svc.Publish(context.Background(), adminActor(), PublishInput{
		SubmissionID: sub.ID,
		PricePerKg:   decimal.NewFromInt(300),
	}); err != nil {
		t.Fatalf("first publish: %v", err)
	}

	_, err := svc.Publish(context.Background(), adminActor(), PublishInput{
		SubmissionID: sub.ID,
		PricePerKg:   decimal.NewFromInt(300),
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s", want)
	}
	coded := pkgerrors.As(err)
	if coded == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if coded.Code() != want {
		t.Fatalf("expected code %s, got %s", want, coded.Code())
	}
}
