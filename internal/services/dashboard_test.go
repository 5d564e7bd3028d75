package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/diewo77/sales-ledger/internal/models"
	"github.com/diewo77/sales-ledger/internal/storage"
)

func insertTx(t *testing.T, st *storage.Stores, clientID string, total float64, date time.Time) {
	t.Helper()
	tx := &models.Transaction{
		ID:         uuid.NewString(),
		ClientID:   clientID,
		TotalPrice: total,
		BillingID:  uuid.NewString(),
		OwnerID:    testOwner,
		Date:       date,
	}
	if err := st.Transactions.Insert(context.Background(), tx); err != nil {
		t.Fatalf("insert transaction: %v", err)
	}
}

func TestStatsEmptyOwner(t *testing.T) {
	st := setupStores(t)
	svc := NewDashboardService(st, 5*time.Second)

	stats, err := svc.Stats(context.Background(), testOwner)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalProducts != 0 || stats.TotalClients != 0 || stats.TotalTransactions != 0 {
		t.Fatalf("expected empty snapshot, got %#v", stats)
	}
	// Division-by-zero guards.
	if stats.AverageTransactionValue != 0 {
		t.Fatalf("AverageTransactionValue = %v, want 0", stats.AverageTransactionValue)
	}
	if stats.ClientConversionRate != 0 {
		t.Fatalf("ClientConversionRate = %v, want 0", stats.ClientConversionRate)
	}
	if len(stats.MonthlyRevenue) != 0 {
		t.Fatalf("MonthlyRevenue = %v, want empty", stats.MonthlyRevenue)
	}
}

func TestStatsSnapshot(t *testing.T) {
	st := setupStores(t)
	svc := NewDashboardService(st, 5*time.Second)
	ctx := context.Background()

	seedProduct(t, st, "A", 10)
	seedProduct(t, st, "B", 5)
	seedProduct(t, st, "C", 3)

	active := seedClient(t, st, "active")
	seedClient(t, st, "inactive")
	if _, err := NewClientService(st.Clients).Credit(ctx, active.ID, "tx-x", "bill-x", 1); err != nil {
		t.Fatalf("credit: %v", err)
	}

	// Mid-month anchors avoid AddDate normalization surprises at
	// month boundaries.
	now := time.Now().UTC()
	prevMonth := time.Date(now.Year(), now.Month()-1, 15, 12, 0, 0, 0, time.UTC)
	oldMonth := time.Date(now.Year(), now.Month()-4, 15, 12, 0, 0, 0, time.UTC)
	insertTx(t, st, active.ID, 10, now)
	insertTx(t, st, active.ID, 20, now)
	insertTx(t, st, active.ID, 40, prevMonth)
	insertTx(t, st, active.ID, 100, oldMonth)

	stats, err := svc.Stats(ctx, testOwner)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalProducts != 3 {
		t.Fatalf("TotalProducts = %d, want 3", stats.TotalProducts)
	}
	if stats.TotalClients != 2 || stats.ActiveClients != 1 {
		t.Fatalf("clients = %d/%d, want 2/1", stats.TotalClients, stats.ActiveClients)
	}
	if stats.TotalTransactions != 4 || !almostEqual(stats.TotalRevenue, 170) {
		t.Fatalf("transactions = %d/%v, want 4/170", stats.TotalTransactions, stats.TotalRevenue)
	}
	if !almostEqual(stats.AverageTransactionValue, 42.5) {
		t.Fatalf("AverageTransactionValue = %v, want 42.5", stats.AverageTransactionValue)
	}
	if !almostEqual(stats.ClientConversionRate, 50) {
		t.Fatalf("ClientConversionRate = %v, want 50", stats.ClientConversionRate)
	}

	// Trailing window: the 4-month-old transaction is excluded.
	if len(stats.MonthlyRevenue) != 2 {
		t.Fatalf("MonthlyRevenue = %#v, want 2 entries", stats.MonthlyRevenue)
	}
	if stats.MonthlyRevenue[0].Month != now.Format("2006-01") {
		t.Fatalf("first month = %s, want current %s", stats.MonthlyRevenue[0].Month, now.Format("2006-01"))
	}
	if !almostEqual(stats.MonthlyRevenue[0].Revenue, 30) {
		t.Fatalf("current month revenue = %v, want 30", stats.MonthlyRevenue[0].Revenue)
	}
	if !almostEqual(stats.MonthlyRevenue[1].Revenue, 40) {
		t.Fatalf("previous month revenue = %v, want 40", stats.MonthlyRevenue[1].Revenue)
	}
	if stats.MonthlyRevenue[0].Month <= stats.MonthlyRevenue[1].Month {
		t.Fatalf("months must be most-recent-first: %#v", stats.MonthlyRevenue)
	}
}

func TestStatsScopedToOwner(t *testing.T) {
	st := setupStores(t)
	svc := NewDashboardService(st, 5*time.Second)
	ctx := context.Background()

	seedProduct(t, st, "mine", 10)
	other := &models.Product{ID: uuid.NewString(), Name: "theirs", UnitPrice: 9, Supplier: "X", OwnerID: "someone-else"}
	if err := st.Products.Insert(ctx, other); err != nil {
		t.Fatalf("insert: %v", err)
	}

	stats, err := svc.Stats(ctx, testOwner)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalProducts != 1 {
		t.Fatalf("TotalProducts = %d, want only owned products", stats.TotalProducts)
	}
}

func TestStatsQueryTimeoutBoundsTheCall(t *testing.T) {
	st := setupStores(t)
	// An already-expired per-query budget must fail the snapshot with
	// an error instead of blocking or returning partial data.
	svc := NewDashboardService(st, -time.Nanosecond)

	if _, err := svc.Stats(context.Background(), testOwner); err == nil {
		t.Fatalf("expected a bounded timeout error, got nil")
	}
}
