package services

import (
	"time"

	"github.com/diewo77/sales-ledger/internal/models"
)

// appendPriceHistory applies an incoming price to a stored product and
// returns the history the replacement document must carry.
//
// The rule historizes the price being superseded, not the incoming
// one: when the incoming price differs from the stored current price,
// and that stored price is not already the last history entry, the
// stored price is appended with the current timestamp. The incoming
// price then becomes current and will itself be historized on its next
// change. The one-update lag is deliberate audit semantics: the
// history records every price that was ever replaced, in order, and
// tolerates stale client snapshots without producing duplicate
// consecutive entries.
func appendPriceHistory(stored *models.Product, incomingPrice float64) []models.PriceChange {
	history := make([]models.PriceChange, len(stored.PriceHistory))
	copy(history, stored.PriceHistory)

	if incomingPrice == stored.UnitPrice {
		return history
	}
	if n := len(history); n > 0 && history[n-1].Price == stored.UnitPrice {
		return history
	}
	return append(history, models.PriceChange{Price: stored.UnitPrice, Date: time.Now().UTC()})
}
