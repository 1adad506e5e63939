package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bidagri/bidagri-backend/pkg/db/models"
)

func openTokenDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.NotificationToken{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestRegisterAndListTokens(t *testing.T) {
	repo := NewTokenRepository(openTokenDB(t))
	ctx := context.Background()

	if err := repo.Register(ctx, "buyer-1", "tok-a", "android"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := repo.Register(ctx, "buyer-1", "tok-b", "web"); err != nil {
		t.Fatalf("register second device: %v", err)
	}

	tokens, err := repo.TokensForUser(ctx, "buyer-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %v", tokens)
	}

	tokens, err = repo.TokensForUser(ctx, "buyer-2")
	if err != nil {
		t.Fatalf("list other user: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("expected no tokens for buyer-2, got %v", tokens)
	}
}

func TestRegisterMovesTokenBetweenAccounts(t *testing.T) {
	repo := NewTokenRepository(openTokenDB(t))
	ctx := context.Background()

	if err := repo.Register(ctx, "buyer-1", "tok-shared", "ios"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := repo.Register(ctx, "buyer-2", "tok-shared", "ios"); err != nil {
		t.Fatalf("re-register: %v", err)
	}

	old, err := repo.TokensForUser(ctx, "buyer-1")
	if err != nil {
		t.Fatalf("list old owner: %v", err)
	}
	if len(old) != 0 {
		t.Fatalf("token should have moved off buyer-1, got %v", old)
	}
	current, err := repo.TokensForUser(ctx, "buyer-2")
	if err != nil {
		t.Fatalf("list new owner: %v", err)
	}
	if len(current) != 1 || current[0] != "tok-shared" {
		t.Fatalf("token should belong to buyer-2, got %v", current)
	}
}
