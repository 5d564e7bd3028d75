package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/sales-ledger/internal/models"
)

// TransactionStore is the Transactions collection.
type TransactionStore struct {
	db *gorm.DB
}

// FindByID returns (nil, nil) when no transaction has this id.
func (s *TransactionStore) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if absent(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindByBillingID resolves the transaction owning a billing, if any.
func (s *TransactionStore) FindByBillingID(ctx context.Context, billingID string) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.WithContext(ctx).First(&t, "billing_id = ?", billingID).Error
	if absent(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TransactionStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("date desc").Find(&out).Error
	return out, err
}

// ListSince returns owned transactions dated on or after since, most
// recent first. Used by the dashboard's monthly revenue query.
func (s *TransactionStore) ListSince(ctx context.Context, ownerID string, since time.Time) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND date >= ?", ownerID, since).
		Order("date desc").Find(&out).Error
	return out, err
}

func (s *TransactionStore) Insert(ctx context.Context, t *models.Transaction) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *TransactionStore) Replace(ctx context.Context, t *models.Transaction) error {
	return s.db.WithContext(ctx).Save(t).Error
}

func (s *TransactionStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id).Error
}

// StatsByOwner returns the count and total revenue of owned
// transactions in a single aggregate query.
func (s *TransactionStore) StatsByOwner(ctx context.Context, ownerID string) (count int64, revenue float64, err error) {
	row := struct {
		N   int64
		Sum float64
	}{}
	err = s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("COUNT(*) AS n, COALESCE(SUM(total_price), 0) AS sum").
		Where("owner_id = ?", ownerID).
		Scan(&row).Error
	return row.N, row.Sum, err
}
