package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GroupRevenue is one entry of a grouped revenue ranking.
type GroupRevenue struct {
	Key     string          `json:"key"`
	Revenue decimal.Decimal `json:"revenue"`
}

// MetricsReport holds the full battery of aggregate metrics computed over one
// clean transaction set. Ranked lists are sorted by revenue descending; exact
// ties are broken by ascending group key so repeated runs over the same input
// produce identical output.
type MetricsReport struct {
	// Scalar metrics
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	UniqueCustomers int             `json:"unique_customers"`
	UniqueOrders    int             `json:"unique_orders"`

	// AverageOrderValue is total revenue divided by unique orders, rounded to
	// two decimal places. It is only meaningful when AverageOrderValueDefined
	// is true; with zero orders the average is undefined, not zero.
	AverageOrderValue        decimal.Decimal `json:"average_order_value"`
	AverageOrderValueDefined bool            `json:"average_order_value_defined"`

	// Ranked groupings. Products are ranked over the description field, with
	// blank descriptions forming their own group.
	TopProducts  []GroupRevenue `json:"top_products"`
	TopCountries []GroupRevenue `json:"top_countries"`
	TopMonths    []GroupRevenue `json:"top_months"`
	TopCustomers []GroupRevenue `json:"top_customers"`

	// Run metadata
	RecordCount int       `json:"record_count"`
	GeneratedAt time.Time `json:"generated_at"`
}
