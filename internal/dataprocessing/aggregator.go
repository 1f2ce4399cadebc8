package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"retailcli/pkg/contracts/domain"
)

// AggregatorConfig holds the top-N cutoffs for the ranked report sections.
type AggregatorConfig struct {
	TopProducts  int
	TopCountries int
	TopMonths    int
	TopCustomers int
}

// DefaultAggregatorConfig returns the standard report cutoffs.
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		TopProducts:  10,
		TopCountries: 5,
		TopMonths:    5,
		TopCustomers: 5,
	}
}

// Aggregator computes the fixed metrics battery over a clean transaction set.
// Every metric, including total revenue, is computed over the same clean set;
// rows excluded by the cleaner (for any rule) contribute to nothing.
//
// Ranked lists are ordered by revenue descending. Groups that tie exactly on
// revenue are ordered by ascending group key, so repeated runs over the same
// input produce identical output.
type Aggregator struct {
	logger *slog.Logger
	config AggregatorConfig
}

// NewAggregator creates an aggregator with the given cutoffs. Non-positive
// cutoffs fall back to the defaults.
func NewAggregator(logger *slog.Logger, config AggregatorConfig) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultAggregatorConfig()
	if config.TopProducts <= 0 {
		config.TopProducts = defaults.TopProducts
	}
	if config.TopCountries <= 0 {
		config.TopCountries = defaults.TopCountries
	}
	if config.TopMonths <= 0 {
		config.TopMonths = defaults.TopMonths
	}
	if config.TopCustomers <= 0 {
		config.TopCustomers = defaults.TopCustomers
	}
	return &Aggregator{
		logger: logger.With(slog.String("component", "aggregator")),
		config: config,
	}
}

// Aggregate computes the metrics report for the given clean set. The input is
// not mutated. An empty set degrades gracefully: zero totals, empty rankings
// and an undefined average order value.
func (a *Aggregator) Aggregate(ctx context.Context, records []domain.CleanTransaction) (*domain.MetricsReport, error) {
	report := &domain.MetricsReport{
		TotalRevenue: decimal.Zero,
		RecordCount:  len(records),
		GeneratedAt:  time.Now().UTC(),
		TopProducts:  []domain.GroupRevenue{},
		TopCountries: []domain.GroupRevenue{},
		TopMonths:    []domain.GroupRevenue{},
		TopCustomers: []domain.GroupRevenue{},
	}

	customers := make(map[string]struct{})
	orders := make(map[string]struct{})
	byProduct := make(map[string]decimal.Decimal)
	byCountry := make(map[string]decimal.Decimal)
	byMonth := make(map[string]decimal.Decimal)
	byCustomer := make(map[string]decimal.Decimal)

	for _, r := range records {
		revenue := r.LineRevenue()

		report.TotalRevenue = report.TotalRevenue.Add(revenue)
		customers[r.CustomerID] = struct{}{}
		orders[r.InvoiceNumber] = struct{}{}

		// Blank descriptions form their own group rather than being
		// defaulted to a placeholder.
		byProduct[r.Description] = byProduct[r.Description].Add(revenue)
		byCountry[r.Country] = byCountry[r.Country].Add(revenue)
		// Month-of-year, zero-padded so tied months rank chronologically.
		monthKey := fmt.Sprintf("%02d", int(r.InvoiceDate.Month()))
		byMonth[monthKey] = byMonth[monthKey].Add(revenue)
		byCustomer[r.CustomerID] = byCustomer[r.CustomerID].Add(revenue)
	}

	report.UniqueCustomers = len(customers)
	report.UniqueOrders = len(orders)

	if report.UniqueOrders > 0 {
		report.AverageOrderValue = report.TotalRevenue.
			DivRound(decimal.NewFromInt(int64(report.UniqueOrders)), 2)
		report.AverageOrderValueDefined = true
	}

	report.TopProducts = rankGroups(byProduct, a.config.TopProducts)
	report.TopCountries = rankGroups(byCountry, a.config.TopCountries)
	report.TopMonths = rankGroups(byMonth, a.config.TopMonths)
	report.TopCustomers = rankGroups(byCustomer, a.config.TopCustomers)

	a.logger.InfoContext(ctx, "aggregation complete",
		slog.Int("record_count", report.RecordCount),
		slog.String("total_revenue", report.TotalRevenue.String()),
		slog.Int("unique_customers", report.UniqueCustomers),
		slog.Int("unique_orders", report.UniqueOrders))

	return report, nil
}

// rankGroups sorts the accumulated groups by revenue descending (ascending
// key on exact ties) and truncates to the top n entries.
func rankGroups(groups map[string]decimal.Decimal, n int) []domain.GroupRevenue {
	ranked := make([]domain.GroupRevenue, 0, len(groups))
	for key, revenue := range groups {
		ranked = append(ranked, domain.GroupRevenue{Key: key, Revenue: revenue})
	}

	sort.Slice(ranked, func(i, j int) bool {
		cmp := ranked[i].Revenue.Cmp(ranked[j].Revenue)
		if cmp != 0 {
			return cmp > 0
		}
		return ranked[i].Key < ranked[j].Key
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
