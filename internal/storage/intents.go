package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/sales-ledger/internal/models"
)

// IntentStore is the TransactionIntents collection.
type IntentStore struct {
	db *gorm.DB
}

// FindByID returns (nil, nil) when no intent has this id.
func (s *IntentStore) FindByID(ctx context.Context, id string) (*models.TransactionIntent, error) {
	var i models.TransactionIntent
	err := s.db.WithContext(ctx).First(&i, "id = ?", id).Error
	if absent(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *IntentStore) Insert(ctx context.Context, i *models.TransactionIntent) error {
	return s.db.WithContext(ctx).Create(i).Error
}

func (s *IntentStore) Replace(ctx context.Context, i *models.TransactionIntent) error {
	return s.db.WithContext(ctx).Save(i).Error
}

func (s *IntentStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.TransactionIntent{}, "id = ?", id).Error
}

func (s *IntentStore) ListByOwner(ctx context.Context, ownerID string) ([]models.TransactionIntent, error) {
	var out []models.TransactionIntent
	err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at").Find(&out).Error
	return out, err
}

// ListStale returns non-terminal intents last touched before cutoff.
// These are workflows that died partway and need the reconciler.
func (s *IntentStore) ListStale(ctx context.Context, cutoff time.Time) ([]models.TransactionIntent, error) {
	var out []models.TransactionIntent
	err := s.db.WithContext(ctx).
		Where("state NOT IN ? AND updated_at < ?",
			[]string{models.IntentCompleted, models.IntentCompensated}, cutoff).
		Order("updated_at").Find(&out).Error
	return out, err
}
