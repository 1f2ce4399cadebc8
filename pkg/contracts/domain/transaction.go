package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CancellationPrefix marks a voided invoice. An invoice number starting with
// this prefix is excluded from all revenue analysis.
const CancellationPrefix = "C"

// RawTransaction represents one transaction line item exactly as it arrives
// from the dataset. It is untrusted input: any field may violate business
// expectations, and the cleaner decides what survives.
type RawTransaction struct {
	InvoiceNumber string          `json:"invoice_number" csv:"InvoiceNo"`
	StockCode     string          `json:"stock_code" csv:"StockCode"`
	Description   string          `json:"description,omitempty" csv:"Description"`
	Quantity      int64           `json:"quantity" csv:"Quantity"`
	InvoiceDate   string          `json:"invoice_date" csv:"InvoiceDate"`
	UnitPrice     decimal.Decimal `json:"unit_price" csv:"UnitPrice"`
	CustomerID    string          `json:"customer_id,omitempty" csv:"CustomerID"`
	Country       string          `json:"country" csv:"Country"`
}

// IsCancellation reports whether the line belongs to a cancelled invoice.
// The prefix match is exact and case-sensitive.
func (r RawTransaction) IsCancellation() bool {
	return strings.HasPrefix(r.InvoiceNumber, CancellationPrefix)
}

// CleanTransaction is a transaction line item that has passed every validity
// predicate. Invariants held by construction:
//   - InvoiceNumber does not start with the cancellation prefix
//   - Quantity > 0
//   - UnitPrice > 0
//   - CustomerID is non-blank after trimming
//   - InvoiceDate is a parsed, valid timestamp
type CleanTransaction struct {
	InvoiceNumber string          `json:"invoice_number" validate:"required"`
	StockCode     string          `json:"stock_code"`
	Description   string          `json:"description,omitempty"`
	Quantity      int64           `json:"quantity" validate:"required,min=1"`
	InvoiceDate   time.Time       `json:"invoice_date" validate:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price" validate:"required"`
	CustomerID    string          `json:"customer_id" validate:"required"`
	Country       string          `json:"country"`
}

// LineRevenue returns the monetary contribution of this line item:
// quantity times unit price, in exact decimal arithmetic.
func (c CleanTransaction) LineRevenue() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(c.Quantity))
}
