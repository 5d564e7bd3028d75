package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/diewo77/sales-ledger/internal/models"
)

// BillingStore is the Billings collection.
type BillingStore struct {
	db *gorm.DB
}

// FindByID returns (nil, nil) when no billing has this id.
func (s *BillingStore) FindByID(ctx context.Context, id string) (*models.Billing, error) {
	var b models.Billing
	err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if absent(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BillingStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Billing, error) {
	var out []models.Billing
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("date desc").Find(&out).Error
	return out, err
}

func (s *BillingStore) Insert(ctx context.Context, b *models.Billing) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *BillingStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Billing{}, "id = ?", id).Error
}

func (s *BillingStore) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Billing{}).Where("owner_id = ?", ownerID).Count(&n).Error
	return n, err
}
