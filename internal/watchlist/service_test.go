package watchlist

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bidagri/bidagri-backend/pkg/auth"
	"github.com/bidagri/bidagri-backend/pkg/db/models"
	"github.com/bidagri/bidagri-backend/pkg/enums"
	pkgerrors "github.com/bidagri/bidagri-backend/pkg/errors"
	"github.com/bidagri/bidagri-backend/pkg/logger"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.WatchlistItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(conn),
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func watcher() auth.Identity {
	return auth.Identity{UID: "buyer-1", Role: enums.ActorRoleBuyer}
}

func TestAddIsIdempotent(t *testing.T) {
	svc, conn := newTestService(t)
	listingID := uuid.New()

	if err := svc.Add(context.Background(), watcher(), listingID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := svc.Add(context.Background(), watcher(), listingID); err != nil {
		t.Fatalf("repeat add: %v", err)
	}

	var count int64
	if err := conn.Model(&models.WatchlistItem{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("duplicate watch rows: %d", count)
	}
}

func TestRemoveMissingItem(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Remove(context.Background(), watcher(), uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestListScopedToBuyer(t *testing.T) {
	svc, _ := newTestService(t)
	other := auth.Identity{UID: "buyer-2", Role: enums.ActorRoleBuyer}

	if err := svc.Add(context.Background(), watcher(), uuid.New()); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Add(context.Background(), other, uuid.New()); err != nil {
		t.Fatalf("add other: %v", err)
	}

	page, err := svc.List(context.Background(), watcher())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 watched listing, got %d", len(page.Items))
	}
}

func TestBuyerOnlyAccess(t *testing.T) {
	svc, _ := newTestService(t)

	farmer := auth.Identity{UID: "farmer-1", Role: enums.ActorRoleFarmer}
	err := svc.Add(context.Background(), farmer, uuid.New())
	assertCode(t, err, pkgerrors.CodeForbidden)

	err = svc.Add(context.Background(), auth.Identity{}, uuid.New())
	assertCode(t, err, pkgerrors.CodeUnauthorized)
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
