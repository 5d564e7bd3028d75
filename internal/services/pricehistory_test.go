package services

import (
	"context"
	"testing"
)

func TestPriceHistorySequence(t *testing.T) {
	st := setupStores(t)
	svc := NewProductService(st.Products)
	ctx := context.Background()

	p := seedProduct(t, st, "Widget", 10)
	if len(p.PriceHistory) != 1 || p.PriceHistory[0].Price != 10 {
		t.Fatalf("new product should have exactly one history entry at 10, got %#v", p.PriceHistory)
	}

	update := func(price float64) {
		t.Helper()
		var err error
		p, err = svc.Update(ctx, p.ID, ProductInput{Name: "Widget", UnitPrice: price, Supplier: "ACME"})
		if err != nil {
			t.Fatalf("update to %v: %v", price, err)
		}
	}

	// 10 -> 12: 10 is already the last entry, nothing is appended.
	update(12)
	// 12 -> 12: no-op.
	update(12)
	// 12 -> 15: the superseded 12 is historized now.
	update(15)

	got := make([]float64, len(p.PriceHistory))
	for i, e := range p.PriceHistory {
		got[i] = e.Price
	}
	want := []float64{10, 12}
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("history = %v, want %v", got, want)
		}
	}
	if p.UnitPrice != 15 {
		t.Fatalf("current price = %v, want 15", p.UnitPrice)
	}
}

func TestPriceHistoryIgnoresCallerCopy(t *testing.T) {
	st := setupStores(t)
	svc := NewProductService(st.Products)
	ctx := context.Background()

	p := seedProduct(t, st, "Widget", 10)
	if _, err := svc.Update(ctx, p.ID, ProductInput{Name: "Widget", UnitPrice: 12, Supplier: "ACME"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	// A stale client snapshot carrying an old history must not shrink
	// or duplicate the stored ledger.
	updated, err := svc.Update(ctx, p.ID, ProductInput{Name: "Widget", UnitPrice: 15, Supplier: "ACME"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if n := len(updated.PriceHistory); n != 2 {
		t.Fatalf("history length = %d, want 2 (stored history is authoritative)", n)
	}
	if last := updated.PriceHistory[1].Price; last != 12 {
		t.Fatalf("last historized price = %v, want the superseded 12", last)
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	st := setupStores(t)
	svc := NewProductService(st.Products)

	_, err := svc.Update(context.Background(), "does-not-exist", ProductInput{Name: "X", UnitPrice: 1})
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
