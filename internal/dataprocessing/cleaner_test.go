package dataprocessing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "retailcli/internal/errors"
	"retailcli/pkg/contracts/domain"
)

const testDateFormat = "1/2/2006 15:04"

func rawRow(invoice string, qty int64, price, customer string) domain.RawTransaction {
	return domain.RawTransaction{
		InvoiceNumber: invoice,
		StockCode:     "85123A",
		Description:   "WHITE HANGING HEART T-LIGHT HOLDER",
		Quantity:      qty,
		InvoiceDate:   "12/1/2010 8:26",
		UnitPrice:     decimal.RequireFromString(price),
		CustomerID:    customer,
		Country:       "United Kingdom",
	}
}

func TestCleaner_Clean_FilterRules(t *testing.T) {
	tests := []struct {
		name        string
		record      domain.RawTransaction
		wantKept    bool
		wantDropped func(stats *CleanStats) int
	}{
		{
			name:     "valid record survives",
			record:   rawRow("536365", 6, "2.55", "17850"),
			wantKept: true,
		},
		{
			name:        "cancellation dropped",
			record:      rawRow("C536379", 1, "4.65", "17850"),
			wantDropped: func(s *CleanStats) int { return s.DroppedCancelled },
		},
		{
			name:        "negative quantity dropped",
			record:      rawRow("536366", -2, "4.65", "17850"),
			wantDropped: func(s *CleanStats) int { return s.DroppedQuantity },
		},
		{
			name:        "zero quantity dropped",
			record:      rawRow("536367", 0, "4.65", "17850"),
			wantDropped: func(s *CleanStats) int { return s.DroppedQuantity },
		},
		{
			name:        "zero price dropped",
			record:      rawRow("536368", 3, "0.00", "17850"),
			wantDropped: func(s *CleanStats) int { return s.DroppedPrice },
		},
		{
			name:        "negative price dropped",
			record:      rawRow("536369", 3, "-1.25", "17850"),
			wantDropped: func(s *CleanStats) int { return s.DroppedPrice },
		},
		{
			name:        "missing customer dropped",
			record:      rawRow("536370", 3, "1.25", ""),
			wantDropped: func(s *CleanStats) int { return s.DroppedNoCustomer },
		},
		{
			name:        "whitespace customer dropped",
			record:      rawRow("536371", 3, "1.25", "   "),
			wantDropped: func(s *CleanStats) int { return s.DroppedNoCustomer },
		},
	}

	cleaner := NewCleaner(nil, testDateFormat)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, stats, err := cleaner.Clean(context.Background(), []domain.RawTransaction{tt.record})
			require.NoError(t, err)

			if tt.wantKept {
				require.Len(t, clean, 1)
				assert.Equal(t, 0, stats.Dropped())
			} else {
				assert.Empty(t, clean)
				assert.Equal(t, 1, tt.wantDropped(stats))
			}
		})
	}
}

// Cancellation rows are removed before revenue analysis; only the valid
// line survives.
func TestCleaner_Clean_CancellationScenario(t *testing.T) {
	cleaner := NewCleaner(nil, testDateFormat)

	raw := []domain.RawTransaction{
		rawRow("536365", 6, "2.55", "17850"),
		rawRow("C536379", -1, "4.65", "17850"),
	}

	clean, stats, err := cleaner.Clean(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, clean, 1)
	assert.Equal(t, "536365", clean[0].InvoiceNumber)
	assert.Equal(t, 1, stats.DroppedCancelled)
	assert.True(t, decimal.RequireFromString("15.30").Equal(clean[0].LineRevenue()))
}

// Every surviving record satisfies all four predicates.
func TestCleaner_Clean_FilterCompleteness(t *testing.T) {
	cleaner := NewCleaner(nil, testDateFormat)

	raw := []domain.RawTransaction{
		rawRow("536365", 6, "2.55", "17850"),
		rawRow("C536379", -1, "4.65", "17850"),
		rawRow("536372", -5, "1.10", "13047"),
		rawRow("536373", 4, "0.00", "13047"),
		rawRow("536374", 2, "3.39", ""),
		rawRow("536375", 8, "1.69", "12583"),
	}

	clean, _, err := cleaner.Clean(context.Background(), raw)
	require.NoError(t, err)

	for _, c := range clean {
		assert.NotEqual(t, byte('C'), c.InvoiceNumber[0])
		assert.Positive(t, c.Quantity)
		assert.True(t, c.UnitPrice.IsPositive())
		assert.NotEmpty(t, c.CustomerID)
		assert.False(t, c.InvoiceDate.IsZero())
	}
	assert.Len(t, clean, 2)
}

func TestCleaner_Clean_PreservesOrder(t *testing.T) {
	cleaner := NewCleaner(nil, testDateFormat)

	raw := []domain.RawTransaction{
		rawRow("536365", 6, "2.55", "17850"),
		rawRow("C536379", 1, "4.65", "17850"),
		rawRow("536380", 2, "1.45", "13047"),
		rawRow("536381", 3, "0.85", "12583"),
	}

	clean, _, err := cleaner.Clean(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, clean, 3)
	assert.Equal(t, "536365", clean[0].InvoiceNumber)
	assert.Equal(t, "536380", clean[1].InvoiceNumber)
	assert.Equal(t, "536381", clean[2].InvoiceNumber)
}

func TestCleaner_Clean_Deterministic(t *testing.T) {
	cleaner := NewCleaner(nil, testDateFormat)

	raw := []domain.RawTransaction{
		rawRow("536365", 6, "2.55", "17850"),
		rawRow("536380", 2, "1.45", "13047"),
	}

	first, _, err := cleaner.Clean(context.Background(), raw)
	require.NoError(t, err)
	second, _, err := cleaner.Clean(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCleaner_Clean_MalformedDateIsFatal(t *testing.T) {
	cleaner := NewCleaner(nil, testDateFormat)

	bad := rawRow("536382", 2, "2.10", "14688")
	bad.InvoiceDate = "not-a-date"

	raw := []domain.RawTransaction{
		rawRow("536365", 6, "2.55", "17850"),
		bad,
		rawRow("536383", 1, "4.25", "15311"),
	}

	clean, _, err := cleaner.Clean(context.Background(), raw)
	require.Error(t, err)
	assert.Nil(t, clean, "no partial clean set after a fatal error")
	assert.True(t, errors.Is(err, apperrors.ErrMalformedDate))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 2, appErr.Context["row"])
	assert.Equal(t, "not-a-date", appErr.Context["value"])
}

func TestCleaner_Clean_EmptyInput(t *testing.T) {
	cleaner := NewCleaner(nil, testDateFormat)

	clean, stats, err := cleaner.Clean(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, clean)
	assert.Equal(t, 0, stats.RowsIn)
}

func TestCleaner_Clean_TrimsCustomerID(t *testing.T) {
	cleaner := NewCleaner(nil, testDateFormat)

	raw := []domain.RawTransaction{rawRow("536365", 6, "2.55", " 17850 ")}
	clean, _, err := cleaner.Clean(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, clean, 1)
	assert.Equal(t, "17850", clean[0].CustomerID)
}
