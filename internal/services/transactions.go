package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diewo77/sales-ledger/internal/models"
	"github.com/diewo77/sales-ledger/internal/storage"
)

// TransactionInput is a requested sale: a client plus ordered line
// items. Prices are resolved from the catalog, never supplied here.
type TransactionInput struct {
	ClientID     string
	SoldProducts []models.SoldProduct
}

// TransactionService converts sale requests into a consistent
// Transaction + Billing + client-ledger update using only
// single-collection operations.
//
// The workflow is a linear saga. An intent record is persisted before
// the first side effect and advanced after each step:
//
//	pending -> billing_issued -> transaction_persisted -> completed
//
// Validation failures abort before the intent reaches billing_issued,
// with no side effects committed. Once a billing is issued there is no
// abort path; an interrupted workflow is finished or undone by the
// Reconciler, never by the request that started it.
type TransactionService struct {
	products     *storage.ProductStore
	transactions *storage.TransactionStore
	intents      *storage.IntentStore
	billing      *BillingService
	clients      *ClientService
	taxRate      float64
}

func NewTransactionService(
	st *storage.Stores,
	billing *BillingService,
	clients *ClientService,
	taxRate float64,
) *TransactionService {
	return &TransactionService{
		products:     st.Products,
		transactions: st.Transactions,
		intents:      st.Intents,
		billing:      billing,
		clients:      clients,
		taxRate:      taxRate,
	}
}

// Create runs the full sale workflow and returns the persisted
// transaction. Missing products or clients fail with NotFoundError
// before any side effect.
func (s *TransactionService) Create(ctx context.Context, ownerID string, in TransactionInput) (*models.Transaction, error) {
	if len(in.SoldProducts) == 0 {
		return nil, &ValidationError{Field: "sold_products", Message: "must not be empty"}
	}
	for _, item := range in.SoldProducts {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Field: "quantity", Message: "must be positive"}
		}
	}

	// Validate + price: every line item must resolve, and the total is
	// computed from the catalog state observed here. It is not re-read
	// later; a concurrent price change after this point is benign
	// staleness, accepted in exchange for not locking the catalog.
	var total float64
	for _, item := range in.SoldProducts {
		p, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, storageErr("find product", err)
		}
		if p == nil {
			return nil, notFound("Product", item.ProductID)
		}
		total += p.UnitPrice * float64(item.Quantity)
	}

	client, err := s.clients.Get(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}

	// First write: the intent. Everything after this is recoverable by
	// the reconciliation sweep.
	now := time.Now().UTC()
	intent := &models.TransactionIntent{
		ID:            uuid.NewString(),
		State:         models.IntentPending,
		ClientID:      client.ID,
		TransactionID: uuid.NewString(),
		TotalPrice:    total,
		SoldProducts:  in.SoldProducts,
		OwnerID:       ownerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.intents.Insert(ctx, intent); err != nil {
		return nil, storageErr("insert intent", err)
	}

	bill, err := s.billing.Issue(ctx, ownerID, total, s.taxRate, true)
	if err != nil {
		return nil, err
	}
	if err := s.advance(ctx, intent, models.IntentBillingIssued, bill.ID); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		ID:           intent.TransactionID,
		ClientID:     client.ID,
		SoldProducts: in.SoldProducts,
		TotalPrice:   total,
		BillingID:    bill.ID,
		OwnerID:      ownerID,
		Date:         now,
	}
	if err := s.transactions.Insert(ctx, tx); err != nil {
		return nil, storageErr("insert transaction", err)
	}
	if err := s.advance(ctx, intent, models.IntentTransactionPersisted, bill.ID); err != nil {
		return nil, err
	}

	if _, err := s.clients.Credit(ctx, client.ID, tx.ID, bill.ID, total); err != nil {
		return nil, err
	}
	if err := s.advance(ctx, intent, models.IntentCompleted, bill.ID); err != nil {
		return nil, err
	}

	zap.S().Infow("transaction created",
		"transaction_id", tx.ID, "client_id", client.ID,
		"billing_id", bill.ID, "total_price", total)
	return tx, nil
}

func (s *TransactionService) advance(ctx context.Context, intent *models.TransactionIntent, state, billingID string) error {
	intent.State = state
	intent.BillingID = billingID
	intent.UpdatedAt = time.Now().UTC()
	if err := s.intents.Replace(ctx, intent); err != nil {
		return storageErr("replace intent", err)
	}
	return nil
}

func (s *TransactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	t, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find transaction", err)
	}
	if t == nil {
		return nil, notFound("Transaction", id)
	}
	return t, nil
}

func (s *TransactionService) List(ctx context.Context, ownerID string) ([]models.Transaction, error) {
	out, err := s.transactions.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storageErr("list transactions", err)
	}
	return out, nil
}

// Delete removes a transaction together with its billing and prunes
// the client's back-references, subtracting the total from the
// client's running value. A missing client or billing is tolerated:
// the remaining cleanup still runs.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	t, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return storageErr("find transaction", err)
	}
	if t == nil {
		return notFound("Transaction", id)
	}
	if t.BillingID != "" {
		if err := s.billing.Delete(ctx, t.BillingID); err != nil && !IsNotFound(err) {
			return err
		}
	}
	if _, err := s.clients.Release(ctx, t.ClientID, t.ID, t.BillingID, t.TotalPrice); err != nil && !IsNotFound(err) {
		return err
	}
	if err := s.transactions.Delete(ctx, id); err != nil {
		return storageErr("delete transaction", err)
	}
	zap.S().Infow("transaction deleted", "transaction_id", id, "client_id", t.ClientID)
	return nil
}
