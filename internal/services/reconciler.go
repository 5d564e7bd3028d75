package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/diewo77/sales-ledger/internal/models"
	"github.com/diewo77/sales-ledger/internal/storage"
)

// Reconciler sweeps intents stuck before completion and drives each
// one to a terminal state:
//
//   - pending: no side effect was committed, the intent is marked
//     compensated and nothing else happens.
//   - billing_issued: the transaction was never persisted, so the
//     orphan billing is deleted and the intent compensated.
//   - transaction_persisted: the client was never credited, so the
//     credit is applied now and the intent completed.
//
// Only intents last touched before the stale cutoff are considered, so
// the sweep never races a workflow that is still making progress.
type Reconciler struct {
	intents      *storage.IntentStore
	transactions *storage.TransactionStore
	billings     *storage.BillingStore
	clients      *ClientService
	staleAfter   time.Duration
}

func NewReconciler(st *storage.Stores, clients *ClientService, staleAfter time.Duration) *Reconciler {
	return &Reconciler{
		intents:      st.Intents,
		transactions: st.Transactions,
		billings:     st.Billings,
		clients:      clients,
		staleAfter:   staleAfter,
	}
}

// Run performs one sweep. Individual intent failures are logged and
// skipped so one bad record cannot stall the rest; the next sweep
// picks them up again.
func (r *Reconciler) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-r.staleAfter)
	stale, err := r.intents.ListStale(ctx, cutoff)
	if err != nil {
		return storageErr("list stale intents", err)
	}
	for i := range stale {
		intent := &stale[i]
		if err := r.reconcile(ctx, intent); err != nil {
			zap.S().Errorw("intent reconciliation failed",
				"intent_id", intent.ID, "state", intent.State, "err", err)
		}
	}
	return nil
}

func (r *Reconciler) reconcile(ctx context.Context, intent *models.TransactionIntent) error {
	switch intent.State {
	case models.IntentPending:
		return r.finish(ctx, intent, models.IntentCompensated)

	case models.IntentBillingIssued:
		// The transaction may have been persisted right before the
		// crash without the intent being advanced. If it exists the
		// workflow is completable; otherwise the billing is an orphan.
		tx, err := r.transactions.FindByID(ctx, intent.TransactionID)
		if err != nil {
			return storageErr("find transaction", err)
		}
		if tx != nil {
			return r.credit(ctx, intent)
		}
		if intent.BillingID != "" {
			if err := r.billings.Delete(ctx, intent.BillingID); err != nil {
				return storageErr("delete billing", err)
			}
		}
		zap.S().Infow("compensated orphan billing",
			"intent_id", intent.ID, "billing_id", intent.BillingID)
		return r.finish(ctx, intent, models.IntentCompensated)

	case models.IntentTransactionPersisted:
		return r.credit(ctx, intent)

	default:
		return nil
	}
}

func (r *Reconciler) credit(ctx context.Context, intent *models.TransactionIntent) error {
	// The crash may have landed between the credit and the intent
	// update; crediting again would double-count. The back-reference
	// list tells whether the credit already happened.
	client, err := r.clients.Get(ctx, intent.ClientID)
	if err != nil {
		return err
	}
	if contains(client.TransactionIDs, intent.TransactionID) {
		return r.finish(ctx, intent, models.IntentCompleted)
	}
	if _, err := r.clients.Credit(ctx, intent.ClientID, intent.TransactionID, intent.BillingID, intent.TotalPrice); err != nil {
		return err
	}
	zap.S().Infow("completed stuck transaction",
		"intent_id", intent.ID, "transaction_id", intent.TransactionID)
	return r.finish(ctx, intent, models.IntentCompleted)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (r *Reconciler) finish(ctx context.Context, intent *models.TransactionIntent, state string) error {
	intent.State = state
	intent.UpdatedAt = time.Now().UTC()
	if err := r.intents.Replace(ctx, intent); err != nil {
		return storageErr("replace intent", err)
	}
	return nil
}
