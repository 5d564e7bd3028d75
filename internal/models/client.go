package models

import "time"

// Client ledger entry. TransactionIDs and BillingIDs are weak
// back-references kept for lookup and audit; Value is the running sum
// of all transaction totals ever attributed to this client and only
// explicit deletion may reduce it. Version implements optimistic
// concurrency: every aggregate write checks-and-increments it.
type Client struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `gorm:"not null;index" json:"name"`
	Email          string    `gorm:"not null" json:"email"`
	TaxID          string    `json:"tax_id"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	TransactionIDs []string  `gorm:"serializer:json" json:"transaction_ids"`
	BillingIDs     []string  `gorm:"serializer:json" json:"billing_ids"`
	Value          float64   `gorm:"not null;default:0" json:"value"`
	Version        int64     `gorm:"not null;default:0" json:"-"`
	OwnerID        string    `gorm:"size:36;not null;index" json:"owner_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
