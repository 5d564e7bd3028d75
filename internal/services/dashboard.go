package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/diewo77/sales-ledger/internal/storage"
)

// monthlyRevenueMonths caps the trailing revenue breakdown.
const monthlyRevenueMonths = 3

// DashboardStats is a point-in-time snapshot of one owner's metrics.
type DashboardStats struct {
	TotalClients            int64            `json:"total_clients"`
	TotalProducts           int64            `json:"total_products"`
	ActiveClients           int64            `json:"active_clients"`
	TotalTransactions       int64            `json:"total_transactions"`
	TotalRevenue            float64          `json:"total_revenue"`
	AverageTransactionValue float64          `json:"average_transaction_value"`
	ClientConversionRate    float64          `json:"client_conversion_rate"`
	MonthlyRevenue          []MonthlyRevenue `json:"monthly_revenue"`
}

// MonthlyRevenue is one calendar month's revenue, keyed "YYYY-MM".
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// DashboardService computes the snapshot with five independent
// queries fanned out concurrently and merged once all complete. No
// partial results: any query failure or timeout fails the snapshot.
type DashboardService struct {
	products     *storage.ProductStore
	clients      *storage.ClientStore
	transactions *storage.TransactionStore
	queryTimeout time.Duration
}

func NewDashboardService(st *storage.Stores, queryTimeout time.Duration) *DashboardService {
	return &DashboardService{
		products:     st.Products,
		clients:      st.Clients,
		transactions: st.Transactions,
		queryTimeout: queryTimeout,
	}
}

// Stats runs the five queries in parallel. Each runs under its own
// timeout so a hung query fails the snapshot with a bounded error
// instead of blocking the caller indefinitely.
func (s *DashboardService) Stats(ctx context.Context, ownerID string) (*DashboardStats, error) {
	var (
		totalProducts, totalClients, activeClients int64
		totalTransactions                          int64
		totalRevenue                               float64
		monthly                                    []MonthlyRevenue
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(s.bounded(gctx, "total products", func(qctx context.Context) (err error) {
		totalProducts, err = s.products.CountByOwner(qctx, ownerID)
		return err
	}))
	g.Go(s.bounded(gctx, "total clients", func(qctx context.Context) (err error) {
		totalClients, err = s.clients.CountByOwner(qctx, ownerID)
		return err
	}))
	g.Go(s.bounded(gctx, "active clients", func(qctx context.Context) (err error) {
		activeClients, err = s.clients.CountActiveByOwner(qctx, ownerID)
		return err
	}))
	g.Go(s.bounded(gctx, "transaction stats", func(qctx context.Context) (err error) {
		totalTransactions, totalRevenue, err = s.transactions.StatsByOwner(qctx, ownerID)
		return err
	}))
	g.Go(s.bounded(gctx, "monthly revenue", func(qctx context.Context) (err error) {
		monthly, err = s.monthlyRevenue(qctx, ownerID)
		return err
	}))

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalClients:      totalClients,
		TotalProducts:     totalProducts,
		ActiveClients:     activeClients,
		TotalTransactions: totalTransactions,
		TotalRevenue:      totalRevenue,
		MonthlyRevenue:    monthly,
	}
	if totalTransactions > 0 {
		stats.AverageTransactionValue = totalRevenue / float64(totalTransactions)
	}
	if totalClients > 0 {
		stats.ClientConversionRate = float64(activeClients) / float64(totalClients) * 100
	}
	return stats, nil
}

func (s *DashboardService) bounded(ctx context.Context, name string, query func(context.Context) error) func() error {
	return func() error {
		qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
		if err := query(qctx); err != nil {
			return fmt.Errorf("dashboard query %q: %w", name, err)
		}
		return nil
	}
}

// monthlyRevenue sums revenue per calendar month over the trailing
// window, most recent month first, one entry per month that has at
// least one transaction, capped at monthlyRevenueMonths entries.
func (s *DashboardService) monthlyRevenue(ctx context.Context, ownerID string) ([]MonthlyRevenue, error) {
	since := time.Now().UTC().AddDate(0, -monthlyRevenueMonths, 0)
	txs, err := s.transactions.ListSince(ctx, ownerID, since)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]float64)
	for _, t := range txs {
		byMonth[t.Date.UTC().Format("2006-01")] += t.TotalPrice
	}
	out := make([]MonthlyRevenue, 0, len(byMonth))
	for month, revenue := range byMonth {
		out = append(out, MonthlyRevenue{Month: month, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	if len(out) > monthlyRevenueMonths {
		out = out[:monthlyRevenueMonths]
	}
	return out, nil
}
