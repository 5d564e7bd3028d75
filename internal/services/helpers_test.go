package services

import (
	"context"
	"fmt"
	"math"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/sales-ledger/internal/models"
	"github.com/diewo77/sales-ledger/internal/storage"
)

const testOwner = "owner-1"

func setupStores(t *testing.T) *storage.Stores {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(models.Tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return storage.New(conn)
}

func seedProduct(t *testing.T, st *storage.Stores, name string, price float64) *models.Product {
	t.Helper()
	p, err := NewProductService(st.Products).Create(context.Background(), testOwner, ProductInput{
		Name:      name,
		UnitPrice: price,
		Supplier:  "ACME",
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return p
}

func seedClient(t *testing.T, st *storage.Stores, name string) *models.Client {
	t.Helper()
	c, err := NewClientService(st.Clients).Create(context.Background(), testOwner, ClientInput{
		Name:  name,
		Email: name + "@test",
	})
	if err != nil {
		t.Fatalf("seed client %s: %v", name, err)
	}
	return c
}

func newTransactionService(st *storage.Stores) *TransactionService {
	clients := NewClientService(st.Clients)
	billing := NewBillingService(st.Billings, st.Transactions)
	return NewTransactionService(st, billing, clients, 0.19)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
