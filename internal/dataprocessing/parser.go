package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"retailcli/internal/errors"
	"retailcli/pkg/contracts/domain"
)

// Parser reads raw transaction datasets. Excel workbooks (.xlsx) and CSV
// exports are supported; both are mapped onto the same eight-column raw
// transaction shape by header name.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a dataset parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger.With(slog.String("component", "parser"))}
}

// requiredColumns are the header keys a dataset must provide.
var requiredColumns = []string{"invoice", "stock_code", "quantity", "invoice_date", "unit_price", "country"}

// ParseFile reads the dataset at path, dispatching on the file extension.
// Rows are returned in file order.
func (p *Parser) ParseFile(ctx context.Context, path string) ([]domain.RawTransaction, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return p.parseExcel(ctx, path)
	case ".csv":
		return p.parseCSV(ctx, path)
	default:
		return nil, errors.NewParsingError(
			fmt.Sprintf("unsupported dataset format %q", filepath.Ext(path)), nil)
	}
}

// parseExcel reads transaction rows from an Excel workbook. The data sheet
// and header row are located dynamically so exports with cover sheets or
// leading commentary rows still parse.
func (p *Parser) parseExcel(ctx context.Context, path string) ([]domain.RawTransaction, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	var rows [][]string
	var headerRow int
	var columnMap map[string]int
	var sheetName string

	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if idx, cols, ok := findHeaderRow(sheetRows); ok {
			rows = sheetRows
			headerRow = idx
			columnMap = cols
			sheetName = name
			break
		}
	}

	if columnMap == nil {
		return nil, errors.NewParsingError("could not find transaction header row in workbook", nil)
	}

	p.logger.InfoContext(ctx, "found transaction data sheet",
		slog.String("sheet_name", sheetName),
		slog.Int("header_row", headerRow),
		slog.Int("total_rows", len(rows)))

	records := make([]domain.RawTransaction, 0, len(rows)-headerRow-1)
	for i := headerRow + 1; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		records = append(records, rowToTransaction(rows[i], columnMap))
	}

	p.logger.InfoContext(ctx, "dataset parsed",
		slog.String("file", filepath.Base(path)),
		slog.Int("record_count", len(records)))

	return records, nil
}

// parseCSV reads transaction rows from a CSV export. The first record is the
// header.
func (p *Parser) parseCSV(ctx context.Context, path string) ([]domain.RawTransaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // ragged rows are tolerated, mapped by position

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError("failed to read CSV header", err)
	}

	columnMap, ok := mapColumns(header)
	if !ok {
		return nil, errors.NewParsingError("CSV header is missing required transaction columns", nil)
	}

	var records []domain.RawTransaction
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("failed to read CSV row", err)
		}
		if isEmptyRow(row) {
			continue
		}
		records = append(records, rowToTransaction(row, columnMap))
	}

	p.logger.InfoContext(ctx, "dataset parsed",
		slog.String("file", filepath.Base(path)),
		slog.Int("record_count", len(records)))

	return records, nil
}

// findHeaderRow scans the first rows of a sheet for the transaction header.
func findHeaderRow(rows [][]string) (int, map[string]int, bool) {
	limit := len(rows)
	if limit > 20 {
		limit = 20
	}
	for i := 0; i < limit; i++ {
		if cols, ok := mapColumns(rows[i]); ok {
			return i, cols, true
		}
	}
	return 0, nil, false
}

// mapColumns maps the eight transaction columns by header name, tolerating
// the naming variants seen across dataset exports (InvoiceNo vs Invoice,
// CustomerID vs Customer ID, UnitPrice vs Price).
func mapColumns(header []string) (map[string]int, bool) {
	cols := make(map[string]int)
	for j, cell := range header {
		key := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(cell), " ", ""), "_", ""))
		switch key {
		case "invoiceno", "invoice", "invoicenumber":
			cols["invoice"] = j
		case "stockcode":
			cols["stock_code"] = j
		case "description":
			cols["description"] = j
		case "quantity":
			cols["quantity"] = j
		case "invoicedate":
			cols["invoice_date"] = j
		case "unitprice", "price":
			cols["unit_price"] = j
		case "customerid", "customer":
			cols["customer_id"] = j
		case "country":
			cols["country"] = j
		}
	}

	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, false
		}
	}
	return cols, true
}

// rowToTransaction extracts one raw transaction from a row using the column
// map. Quantities and prices that fail to parse become zero; the cleaner's
// non-positive rules then drop the row, since structural garbage is not
// revenue.
func rowToTransaction(row []string, cols map[string]int) domain.RawTransaction {
	getString := func(colName string) string {
		if idx, exists := cols[colName]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	quantity, _ := strconv.ParseInt(stripThousands(getString("quantity")), 10, 64)

	unitPrice, err := decimal.NewFromString(stripThousands(getString("unit_price")))
	if err != nil {
		unitPrice = decimal.Zero
	}

	return domain.RawTransaction{
		InvoiceNumber: getString("invoice"),
		StockCode:     getString("stock_code"),
		Description:   getString("description"),
		Quantity:      quantity,
		InvoiceDate:   getString("invoice_date"),
		UnitPrice:     unitPrice,
		CustomerID:    getString("customer_id"),
		Country:       getString("country"),
	}
}

// stripThousands removes grouping commas from numeric cells
func stripThousands(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// isEmptyRow reports whether every cell in the row is blank
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
