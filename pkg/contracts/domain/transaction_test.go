package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRawTransaction_IsCancellation(t *testing.T) {
	tests := []struct {
		name          string
		invoiceNumber string
		want          bool
	}{
		{
			name:          "regular invoice",
			invoiceNumber: "536365",
			want:          false,
		},
		{
			name:          "cancellation prefix",
			invoiceNumber: "C536379",
			want:          true,
		},
		{
			name:          "lowercase c is not a cancellation",
			invoiceNumber: "c536379",
			want:          false,
		},
		{
			name:          "prefix only counts at the start",
			invoiceNumber: "536C379",
			want:          false,
		},
		{
			name:          "empty invoice number",
			invoiceNumber: "",
			want:          false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RawTransaction{InvoiceNumber: tt.invoiceNumber}
			assert.Equal(t, tt.want, r.IsCancellation())
		})
	}
}

func TestCleanTransaction_LineRevenue(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int64
		unitPrice string
		want      string
	}{
		{
			name:      "whole quantities",
			quantity:  6,
			unitPrice: "2.55",
			want:      "15.30",
		},
		{
			name:      "single unit",
			quantity:  1,
			unitPrice: "4.65",
			want:      "4.65",
		},
		{
			name:      "exact decimal arithmetic",
			quantity:  3,
			unitPrice: "0.10",
			want:      "0.30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CleanTransaction{
				InvoiceNumber: "536365",
				Quantity:      tt.quantity,
				UnitPrice:     decimal.RequireFromString(tt.unitPrice),
				InvoiceDate:   time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC),
				CustomerID:    "17850",
			}
			assert.True(t, decimal.RequireFromString(tt.want).Equal(c.LineRevenue()),
				"got %s", c.LineRevenue())
		})
	}
}
