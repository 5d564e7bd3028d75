package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/diewo77/sales-ledger/internal/models"
)

// ProductStore is the Products collection.
type ProductStore struct {
	db *gorm.DB
}

// FindByID returns (nil, nil) when no product has this id.
func (s *ProductStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if absent(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Product, error) {
	var out []models.Product
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&out).Error
	return out, err
}

func (s *ProductStore) Insert(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}

// Replace overwrites the whole document, last writer wins.
func (s *ProductStore) Replace(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (s *ProductStore) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Where("owner_id = ?", ownerID).Count(&n).Error
	return n, err
}
