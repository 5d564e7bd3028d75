package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diewo77/sales-ledger/internal/models"
	"github.com/diewo77/sales-ledger/internal/storage"
)

// creditRetries bounds the optimistic-lock retry loop on aggregate
// client writes.
const creditRetries = 5

// ClientInput is the caller-supplied client snapshot. Aggregate fields
// (Value, reference lists) are never client-writable.
type ClientInput struct {
	Name    string
	Email   string
	TaxID   string
	Phone   string
	Address string
}

// ClientUpdate carries the contact fields a partial update may touch.
type ClientUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

// ClientService owns the client ledger: contact data plus the running
// aggregate (Value, transaction and billing back-references).
type ClientService struct {
	clients *storage.ClientStore
}

func NewClientService(clients *storage.ClientStore) *ClientService {
	return &ClientService{clients: clients}
}

func (s *ClientService) Create(ctx context.Context, ownerID string, in ClientInput) (*models.Client, error) {
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if in.Email == "" {
		return nil, &ValidationError{Field: "email", Message: "must not be empty"}
	}
	now := time.Now().UTC()
	c := &models.Client{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Email:          in.Email,
		TaxID:          in.TaxID,
		Phone:          in.Phone,
		Address:        in.Address,
		TransactionIDs: []string{},
		BillingIDs:     []string{},
		OwnerID:        ownerID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.clients.Insert(ctx, c); err != nil {
		return nil, storageErr("insert client", err)
	}
	return c, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find client", err)
	}
	if c == nil {
		return nil, notFound("Client", id)
	}
	return c, nil
}

func (s *ClientService) List(ctx context.Context, ownerID string) ([]models.Client, error) {
	out, err := s.clients.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storageErr("list clients", err)
	}
	return out, nil
}

// Update applies the provided contact fields, leaving aggregates and
// CreatedAt untouched.
func (s *ClientService) Update(ctx context.Context, id string, in ClientUpdate) (*models.Client, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.clients.Replace(ctx, c); err != nil {
		return nil, storageErr("replace client", err)
	}
	return c, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return storageErr("find client", err)
	}
	if c == nil {
		return notFound("Client", id)
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return storageErr("delete client", err)
	}
	return nil
}

// Credit attributes one completed transaction to the client: appends
// both back-references and adds amount to the running value. Invoked
// exactly once per transaction by the orchestrator; Credit itself does
// not deduplicate. Concurrent credits to the same client are resolved
// by the versioned replace, retried a bounded number of times.
func (s *ClientService) Credit(ctx context.Context, clientID, transactionID, billingID string, amount float64) (*models.Client, error) {
	return s.mutateAggregate(ctx, clientID, func(c *models.Client) {
		c.TransactionIDs = append(c.TransactionIDs, transactionID)
		c.BillingIDs = append(c.BillingIDs, billingID)
		c.Value += amount
	})
}

// Release is the deletion-path counterpart of Credit: prunes both
// back-references and subtracts the transaction total from Value.
// Explicit deletion is the only path that reduces Value.
func (s *ClientService) Release(ctx context.Context, clientID, transactionID, billingID string, amount float64) (*models.Client, error) {
	return s.mutateAggregate(ctx, clientID, func(c *models.Client) {
		c.TransactionIDs = remove(c.TransactionIDs, transactionID)
		c.BillingIDs = remove(c.BillingIDs, billingID)
		c.Value -= amount
	})
}

func (s *ClientService) mutateAggregate(ctx context.Context, clientID string, mutate func(*models.Client)) (*models.Client, error) {
	for attempt := 0; attempt < creditRetries; attempt++ {
		c, err := s.clients.FindByID(ctx, clientID)
		if err != nil {
			return nil, storageErr("find client", err)
		}
		if c == nil {
			return nil, notFound("Client", clientID)
		}
		version := c.Version
		mutate(c)
		c.UpdatedAt = time.Now().UTC()
		ok, err := s.clients.ReplaceVersioned(ctx, c, version)
		if err != nil {
			return nil, storageErr("replace client", err)
		}
		if ok {
			return c, nil
		}
		zap.S().Debugw("client aggregate write conflicted, retrying",
			"client_id", clientID, "attempt", attempt+1)
	}
	return nil, ErrCreditConflict
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
