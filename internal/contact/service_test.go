package contact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bidagri/bidagri-backend/internal/notify"
	"github.com/bidagri/bidagri-backend/pkg/auth"
	"github.com/bidagri/bidagri-backend/pkg/db"
	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/logger"
	"github.com/bidagri/bidagri-backend/pkg/outbox"
)

func newTestService(t *testing.T, repo Repository) (Service, *db.Client) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.ContactMessage{}, &models.OutboxEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	client := db.NewFromGorm(conn)
	if repo == nil {
		repo = NewRepository(conn)
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(ServiceParams{
		DB:          client,
		ContactRepo: repo,
		Outbox:      outbox.NewService(outbox.NewRepository(conn), logg),
		AdminPolicy: auth.DefaultAdminPolicy(nil),
		Logger:      logg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, client
}

func validInput() CreateInput {
	return CreateInput{
		Name:    "Sana",
		Email:   "sana@x.com",
		Message: "I want to know more about bulk wheat orders.",
	}
}

func TestCreateStoresMessageAndQueuesNotification(t *testing.T) {
	svc, client := newTestService(t, nil)

	row, queued, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if queued {
		t.Fatalf("expected direct store, got queued")
	}
	if row.ID == uuid.Nil {
		t.Fatalf("message id not assigned")
	}

	var events []models.OutboxEvent
	if err := client.DB().Find(&events).Error; err != nil {
		t.Fatalf("load outbox: %v", err)
	}
	if len(events) != 1 || events[0].EventType != enums.EventContactReceived {
		t.Fatalf("expected one contact_received event, got %v", events)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)

	short := validInput()
	short.Message = "too short"
	_, _, err := svc.Create(context.Background(), short)
	assertCode(t, err, pkgerrors.CodeValidation)

	badEmail := validInput()
	badEmail.Email = "not-an-email"
	_, _, err = svc.Create(context.Background(), badEmail)
	assertCode(t, err, pkgerrors.CodeValidation)

	noName := validInput()
	noName.Name = "   "
	_, _, err = svc.Create(context.Background(), noName)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateTruncatesPreview(t *testing.T) {
	svc, client := newTestService(t, nil)

	long := validInput()
	long.Message = strings.Repeat("wheat ", 40)
	if _, _, err := svc.Create(context.Background(), long); err != nil {
		t.Fatalf("create: %v", err)
	}

	var event models.OutboxEvent
	if err := client.DB().First(&event).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if len(event.Payload) == 0 {
		t.Fatalf("empty payload")
	}
	if strings.Contains(string(event.Payload), strings.TrimSpace(long.Message)) {
		t.Fatalf("preview should be truncated, full message leaked into payload")
	}
}

type brokenRepo struct{}

func (brokenRepo) WithTx(tx *gorm.DB) Repository { return brokenRepo{} }
func (brokenRepo) Create(ctx context.Context, row *models.ContactMessage) error {
	return errors.New("store down")
}
func (brokenRepo) ListRecent(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	return nil, errors.New("store down")
}

func TestStoreDownQueuesMessageForOps(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.ContactMessage{}, &models.OutboxEvent{}, &models.MailQueueEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(ServiceParams{
		DB:          db.NewFromGorm(conn),
		ContactRepo: brokenRepo{},
		Outbox:      outbox.NewService(outbox.NewRepository(conn), logg),
		AdminPolicy: auth.DefaultAdminPolicy(nil),
		Queues:      notify.NewQueueRepository(conn),
		OpsEmail:    "ops@bidagri.pk",
		Logger:      logg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	row, queued, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !queued || row != nil {
		t.Fatalf("expected queued fallback, got queued=%v row=%v", queued, row)
	}

	var entries []models.MailQueueEntry
	if err := conn.Find(&entries).Error; err != nil {
		t.Fatalf("load mail queue: %v", err)
	}
	if len(entries) != 1 || entries[0].ToEmail != "ops@bidagri.pk" {
		t.Fatalf("expected one queued mail for ops, got %v", entries)
	}
	if entries[0].LastError == nil {
		t.Fatalf("expected the store failure recorded as last error")
	}
}

func TestStoreDownSurfacesDependencyError(t *testing.T) {
	svc, _ := newTestService(t, brokenRepo{})

	_, _, err := svc.Create(context.Background(), validInput())
	assertCode(t, err, pkgerrors.CodeDependency)

	admin := auth.Identity{UID: "admin-1", Role: enums.ActorRoleAdmin}
	_, err = svc.List(context.Background(), admin, 10)
	assertCode(t, err, pkgerrors.CodeDependency)
}

func TestListIsAdminOnly(t *testing.T) {
	svc, _ := newTestService(t, nil)
	if _, _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	buyer := auth.Identity{UID: "buyer-1", Role: enums.ActorRoleBuyer}
	_, err := svc.List(context.Background(), buyer, 10)
	assertCode(t, err, pkgerrors.CodeForbidden)

	_, err = svc.List(context.Background(), auth.Identity{}, 10)
	assertCode(t, err, pkgerrors.CodeUnauthorized)

	admin := auth.Identity{UID: "admin-1", Role: enums.ActorRoleAdmin}
	page, err := svc.List(context.Background(), admin, 10)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 message, got %d", len(page.Items))
	}
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
