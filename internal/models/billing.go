package models

import "time"

// Billing is the invoice issued once per transaction. Reference is
// derived from the creation timestamp at second granularity, so
// collisions within the same second are possible and accepted.
type Billing struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Reference string    `gorm:"not null" json:"reference"`
	Date      time.Time `json:"date"`
	TotalHT   float64   `gorm:"not null" json:"total_ht"`
	TVA       float64   `json:"tva"`
	TotalTTC  float64   `json:"total_ttc"`
	EnableTax bool      `json:"enable_tax"`
	OwnerID   string    `gorm:"size:36;not null;index" json:"owner_id"`
}
