// Package storage exposes one store per collection, each limited to
// single-collection operations (find one, find many, insert, replace,
// delete, count). No store spans collections and no cross-collection
// atomicity is provided; the service layer sequences multi-entity
// workflows on top of this surface.
package storage

import (
	"errors"

	"gorm.io/gorm"
)

// Stores bundles every collection store over one database handle.
type Stores struct {
	Products     *ProductStore
	Clients      *ClientStore
	Transactions *TransactionStore
	Billings     *BillingStore
	Intents      *IntentStore
}

// New wires all stores over db.
func New(db *gorm.DB) *Stores {
	return &Stores{
		Products:     &ProductStore{db: db},
		Clients:      &ClientStore{db: db},
		Transactions: &TransactionStore{db: db},
		Billings:     &BillingStore{db: db},
		Intents:      &IntentStore{db: db},
	}
}

// absent maps gorm's not-found to the "doc | absent" contract: finders
// return (nil, nil) when the document does not exist.
func absent(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
