package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/diewo77/sales-ledger/internal/models"
	"github.com/diewo77/sales-ledger/internal/storage"
)

// billingRefLayout formats the invoice reference at second
// granularity. Collisions within the same second are accepted.
const billingRefLayout = "20060102-150405"

// BillingService issues invoices and owns their lifecycle. Issue never
// mutates existing records; an issued billing is only ever removed by
// an explicit delete or by saga compensation.
type BillingService struct {
	billings     *storage.BillingStore
	transactions *storage.TransactionStore
}

func NewBillingService(billings *storage.BillingStore, transactions *storage.TransactionStore) *BillingService {
	return &BillingService{billings: billings, transactions: transactions}
}

// Issue constructs and inserts a billing for a pre-tax amount.
// TotalTTC applies the tax rate only when taxEnabled.
func (s *BillingService) Issue(ctx context.Context, ownerID string, totalHT, taxRate float64, taxEnabled bool) (*models.Billing, error) {
	now := time.Now().UTC()
	totalTTC := totalHT
	if taxEnabled {
		totalTTC = totalHT * (1 + taxRate)
	}
	b := &models.Billing{
		ID:        uuid.NewString(),
		Reference: "INV-" + now.Format(billingRefLayout),
		Date:      now,
		TotalHT:   totalHT,
		TVA:       taxRate,
		TotalTTC:  totalTTC,
		EnableTax: taxEnabled,
		OwnerID:   ownerID,
	}
	if err := s.billings.Insert(ctx, b); err != nil {
		return nil, storageErr("insert billing", err)
	}
	return b, nil
}

func (s *BillingService) Get(ctx context.Context, id string) (*models.Billing, error) {
	b, err := s.billings.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find billing", err)
	}
	if b == nil {
		return nil, notFound("Billing", id)
	}
	return b, nil
}

func (s *BillingService) List(ctx context.Context, ownerID string) ([]models.Billing, error) {
	out, err := s.billings.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storageErr("list billings", err)
	}
	return out, nil
}

// Delete removes a billing and clears the back-reference on its owning
// transaction, if one exists. The transaction itself is kept.
func (s *BillingService) Delete(ctx context.Context, id string) error {
	b, err := s.billings.FindByID(ctx, id)
	if err != nil {
		return storageErr("find billing", err)
	}
	if b == nil {
		return notFound("Billing", id)
	}
	t, err := s.transactions.FindByBillingID(ctx, id)
	if err != nil {
		return storageErr("find transaction", err)
	}
	if t != nil {
		t.BillingID = ""
		if err := s.transactions.Replace(ctx, t); err != nil {
			return storageErr("replace transaction", err)
		}
	}
	if err := s.billings.Delete(ctx, id); err != nil {
		return storageErr("delete billing", err)
	}
	return nil
}
