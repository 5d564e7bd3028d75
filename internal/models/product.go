package models

import "time"

// Product catalog entry. PriceHistory is append-only: entries are in
// chronological order and the last entry always matches the price that
// was current at the most recent persisted update.
type Product struct {
	ID           string        `gorm:"primaryKey;size:36" json:"id"`
	Name         string        `gorm:"not null" json:"name"`
	UnitPrice    float64       `gorm:"not null" json:"unit_price"`
	Description  string        `json:"description"`
	Supplier     string        `gorm:"not null" json:"supplier"`
	PriceHistory []PriceChange `gorm:"serializer:json" json:"price_history"`
	OwnerID      string        `gorm:"size:36;not null;index" json:"owner_id"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// PriceChange is one historized price point.
type PriceChange struct {
	Price float64   `json:"price"`
	Date  time.Time `json:"date"`
}
