package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/diewo77/sales-ledger/internal/models"
)

// ClientStore is the Clients collection.
type ClientStore struct {
	db *gorm.DB
}

// FindByID returns (nil, nil) when no client has this id.
func (s *ClientStore) FindByID(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if absent(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ClientStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Client, error) {
	var out []models.Client
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&out).Error
	return out, err
}

func (s *ClientStore) Insert(ctx context.Context, c *models.Client) error {
	return s.db.WithContext(ctx).Create(c).Error
}

// Replace overwrites the whole document unconditionally. Aggregate
// fields must go through ReplaceVersioned instead.
func (s *ClientStore) Replace(ctx context.Context, c *models.Client) error {
	return s.db.WithContext(ctx).Save(c).Error
}

// ReplaceVersioned writes c only if the stored row still carries
// expectedVersion, incrementing the version in the same statement.
// Returns false when a concurrent writer got there first; the caller
// is expected to re-read and retry.
func (s *ClientStore) ReplaceVersioned(ctx context.Context, c *models.Client, expectedVersion int64) (bool, error) {
	c.Version = expectedVersion + 1
	res := s.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ? AND version = ?", c.ID, expectedVersion).
		Select("*").
		Updates(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *ClientStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.Client{}, "id = ?", id).Error
}

func (s *ClientStore) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Client{}).Where("owner_id = ?", ownerID).Count(&n).Error
	return n, err
}

// CountActiveByOwner counts owned clients with a positive running value.
func (s *ClientStore) CountActiveByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Client{}).
		Where("owner_id = ? AND value > 0", ownerID).Count(&n).Error
	return n, err
}
