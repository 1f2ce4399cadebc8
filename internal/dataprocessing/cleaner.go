package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"retailcli/internal/errors"
	"retailcli/pkg/contracts/domain"
)

// Cleaner applies the business validity rules to raw transaction rows and
// produces the clean set every aggregate is computed over.
//
// A raw row is dropped (silently, not as an error) when any of these holds:
//   - the invoice number carries the cancellation prefix "C"
//   - quantity <= 0 (returns and degenerate zero-quantity rows)
//   - unit price <= 0 (free, erroneous or invalid price rows)
//   - the customer ID is blank after trimming
//
// Surviving rows get their invoice date parsed with the single dataset-wide
// layout; the first row that fails to parse aborts the whole run, since a
// bad date indicates a dataset-level problem rather than a bad row.
type Cleaner struct {
	logger     *slog.Logger
	dateFormat string
}

// CleanStats reports how many rows each rule removed during one run.
type CleanStats struct {
	RowsIn            int `json:"rows_in"`
	RowsKept          int `json:"rows_kept"`
	DroppedCancelled  int `json:"dropped_cancelled"`
	DroppedQuantity   int `json:"dropped_quantity"`
	DroppedPrice      int `json:"dropped_price"`
	DroppedNoCustomer int `json:"dropped_no_customer"`
}

// Dropped returns the total number of rows removed by all rules.
func (s CleanStats) Dropped() int {
	return s.DroppedCancelled + s.DroppedQuantity + s.DroppedPrice + s.DroppedNoCustomer
}

// NewCleaner creates a cleaner using the given invoice date layout.
func NewCleaner(logger *slog.Logger, dateFormat string) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		logger:     logger.With(slog.String("component", "cleaner")),
		dateFormat: dateFormat,
	}
}

// Clean filters the raw rows and parses invoice dates. The returned slice
// preserves the relative order of surviving input rows. An empty input is
// not an error; it yields an empty clean set.
func (c *Cleaner) Clean(ctx context.Context, records []domain.RawTransaction) ([]domain.CleanTransaction, *CleanStats, error) {
	stats := &CleanStats{RowsIn: len(records)}

	if len(records) == 0 {
		c.logger.WarnContext(ctx, "cleaning empty input set")
		return []domain.CleanTransaction{}, stats, nil
	}

	clean := make([]domain.CleanTransaction, 0, len(records))
	for i, r := range records {
		switch {
		case r.IsCancellation():
			stats.DroppedCancelled++
			continue
		case r.Quantity <= 0:
			stats.DroppedQuantity++
			continue
		case !r.UnitPrice.IsPositive():
			stats.DroppedPrice++
			continue
		case strings.TrimSpace(r.CustomerID) == "":
			stats.DroppedNoCustomer++
			continue
		}

		invoiceDate, err := time.Parse(c.dateFormat, strings.TrimSpace(r.InvoiceDate))
		if err != nil {
			// Row numbers are 1-based to match the source file.
			return nil, stats, errors.NewMalformedDateError(i+1, r.InvoiceDate, err)
		}

		clean = append(clean, domain.CleanTransaction{
			InvoiceNumber: r.InvoiceNumber,
			StockCode:     r.StockCode,
			Description:   r.Description,
			Quantity:      r.Quantity,
			InvoiceDate:   invoiceDate,
			UnitPrice:     r.UnitPrice,
			CustomerID:    strings.TrimSpace(r.CustomerID),
			Country:       r.Country,
		})
	}
	stats.RowsKept = len(clean)

	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("rows_in", stats.RowsIn),
		slog.Int("rows_kept", stats.RowsKept),
		slog.Int("dropped_cancelled", stats.DroppedCancelled),
		slog.Int("dropped_quantity", stats.DroppedQuantity),
		slog.Int("dropped_price", stats.DroppedPrice),
		slog.Int("dropped_no_customer", stats.DroppedNoCustomer))

	return clean, stats, nil
}
