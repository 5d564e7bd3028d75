package models

import "time"

// Intent states, in workflow order. A terminal intent is either
// IntentCompleted (all three side effects committed) or
// IntentCompensated (abandoned before completion, side effects undone).
const (
	IntentPending              = "pending"
	IntentBillingIssued        = "billing_issued"
	IntentTransactionPersisted = "transaction_persisted"
	IntentCompleted            = "completed"
	IntentCompensated          = "compensated"
)

// TransactionIntent is the write-ahead record for the create-transaction
// workflow. It is inserted before the first persistent side effect and
// advanced after each step, so a reconciliation sweep can tell exactly
// how far an interrupted workflow got and either complete or compensate
// it.
type TransactionIntent struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	State         string        `gorm:"size:32;not null;index" json:"state"`
	ClientID      string        `gorm:"size:36;not null" json:"client_id"`
	TransactionID string        `gorm:"size:36;not null" json:"transaction_id"`
	BillingID     string        `gorm:"size:36" json:"billing_id"`
	TotalPrice    float64       `json:"total_price"`
	SoldProducts  []SoldProduct `gorm:"serializer:json" json:"sold_products"`
	OwnerID       string        `gorm:"size:36;not null;index" json:"owner_id"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Terminal reports whether the sweep should leave this intent alone.
func (i *TransactionIntent) Terminal() bool {
	return i.State == IntentCompleted || i.State == IntentCompensated
}
