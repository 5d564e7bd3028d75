package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/sales-ledger/internal/models"
)

func setupClientStore(t *testing.T) *ClientStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Client{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(conn).Clients
}

func TestReplaceVersioned(t *testing.T) {
	store := setupClientStore(t)
	ctx := context.Background()

	c := &models.Client{
		ID:        "c1",
		Name:      "acme",
		Email:     "a@test",
		OwnerID:   "o1",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := store.Insert(ctx, c); err != nil {
		t.Fatalf("insert: %v", err)
	}

	c.Value = 10
	ok, err := store.ReplaceVersioned(ctx, c, 0)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !ok {
		t.Fatalf("expected versioned replace to apply")
	}
	got, err := store.FindByID(ctx, "c1")
	if err != nil || got == nil {
		t.Fatalf("find: %v", err)
	}
	if got.Version != 1 || got.Value != 10 {
		t.Fatalf("version/value = %d/%v, want 1/10", got.Version, got.Value)
	}

	// A writer holding the old version must lose.
	stale := *got
	stale.Value = 99
	ok, err = store.ReplaceVersioned(ctx, &stale, 0)
	if err != nil {
		t.Fatalf("stale replace: %v", err)
	}
	if ok {
		t.Fatalf("stale version must not win")
	}
	got, _ = store.FindByID(ctx, "c1")
	if got.Value != 10 {
		t.Fatalf("value = %v, lost update to a stale writer", got.Value)
	}
}

func TestFindByIDAbsent(t *testing.T) {
	store := setupClientStore(t)

	got, err := store.FindByID(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("absent lookup must not error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent document, got %#v", got)
	}
}
