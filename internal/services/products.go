package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diewo77/sales-ledger/internal/models"
	"github.com/diewo77/sales-ledger/internal/storage"
)

// ProductInput is the caller-supplied product snapshot.
type ProductInput struct {
	Name        string
	UnitPrice   float64
	Description string
	Supplier    string
}

// ProductService owns the product catalog, including the append-only
// price history ledger.
type ProductService struct {
	products *storage.ProductStore
}

func NewProductService(products *storage.ProductStore) *ProductService {
	return &ProductService{products: products}
}

// Create inserts a new product with exactly one history entry at the
// initial price.
func (s *ProductService) Create(ctx context.Context, ownerID string, in ProductInput) (*models.Product, error) {
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if in.UnitPrice < 0 {
		return nil, &ValidationError{Field: "unit_price", Message: "must not be negative"}
	}
	now := time.Now().UTC()
	p := &models.Product{
		ID:           uuid.NewString(),
		Name:         in.Name,
		UnitPrice:    in.UnitPrice,
		Description:  in.Description,
		Supplier:     in.Supplier,
		PriceHistory: []models.PriceChange{{Price: in.UnitPrice, Date: now}},
		OwnerID:      ownerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.products.Insert(ctx, p); err != nil {
		return nil, storageErr("insert product", err)
	}
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find product", err)
	}
	if p == nil {
		return nil, notFound("Product", id)
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, ownerID string) ([]models.Product, error) {
	out, err := s.products.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storageErr("list products", err)
	}
	return out, nil
}

// Update replaces the product with the supplied snapshot. The stored
// price history is authoritative: the caller's copy is discarded and
// the ledger is appended per the historize-previous-price rule.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	stored, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("find product", err)
	}
	if stored == nil {
		return nil, notFound("Product", id)
	}
	updated := &models.Product{
		ID:           stored.ID,
		Name:         in.Name,
		UnitPrice:    in.UnitPrice,
		Description:  in.Description,
		Supplier:     in.Supplier,
		PriceHistory: appendPriceHistory(stored, in.UnitPrice),
		OwnerID:      stored.OwnerID,
		CreatedAt:    stored.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.products.Replace(ctx, updated); err != nil {
		return nil, storageErr("replace product", err)
	}
	zap.S().Debugw("product updated", "product_id", id, "unit_price", in.UnitPrice)
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return storageErr("find product", err)
	}
	if p == nil {
		return notFound("Product", id)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return storageErr("delete product", err)
	}
	return nil
}
