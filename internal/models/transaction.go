package models

import "time"

// Transaction records one sale. TotalPrice is computed from the
// catalog at validation time, never client-supplied. BillingID is set
// exactly once at creation; an empty BillingID on a persisted
// transaction means its billing was explicitly deleted afterwards.
type Transaction struct {
	ID           string        `gorm:"primaryKey;size:36" json:"id"`
	ClientID     string        `gorm:"size:36;not null;index" json:"client_id"`
	SoldProducts []SoldProduct `gorm:"serializer:json" json:"sold_products"`
	TotalPrice   float64       `gorm:"not null" json:"total_price"`
	BillingID    string        `gorm:"size:36;index" json:"billing_id"`
	OwnerID      string        `gorm:"size:36;not null;index" json:"owner_id"`
	Date         time.Time     `gorm:"index" json:"date"`
}

// SoldProduct is one line item of a transaction.
type SoldProduct struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}
