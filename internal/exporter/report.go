package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"retailcli/internal/config"
	"retailcli/pkg/contracts/domain"
)

// Report output filenames, written into the configured reports directory.
const (
	SummaryFileName      = "summary.csv"
	TopProductsFileName  = "top_products.csv"
	TopCountriesFileName = "top_countries.csv"
	TopMonthsFileName    = "top_months.csv"
	TopCustomersFileName = "top_customers.csv"
	JSONReportFileName   = "report.json"
)

// ReportExporter writes a metrics report to the reports directory.
type ReportExporter struct {
	logger *slog.Logger
	paths  *config.Paths
	csv    *CSVWriter
}

// NewReportExporter creates a report exporter rooted at the given paths.
func NewReportExporter(logger *slog.Logger, paths *config.Paths) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		logger: logger.With(slog.String("component", "report_exporter")),
		paths:  paths,
		csv:    NewCSVWriter(paths),
	}
}

// WriteCSVReports writes the summary file and the four ranked files.
func (e *ReportExporter) WriteCSVReports(report *domain.MetricsReport) error {
	if err := e.writeSummary(report); err != nil {
		return err
	}

	ranked := []struct {
		filename string
		keyName  string
		groups   []domain.GroupRevenue
	}{
		{TopProductsFileName, "Product", report.TopProducts},
		{TopCountriesFileName, "Country", report.TopCountries},
		{TopMonthsFileName, "Month", report.TopMonths},
		{TopCustomersFileName, "CustomerID", report.TopCustomers},
	}

	for _, r := range ranked {
		if err := e.writeRanked(r.filename, r.keyName, r.groups); err != nil {
			return err
		}
	}

	e.logger.Info("CSV reports written",
		slog.String("reports_dir", e.paths.ReportsDir))
	return nil
}

// writeSummary writes the scalar metrics as one Metric,Value file.
func (e *ReportExporter) writeSummary(report *domain.MetricsReport) error {
	aov := "undefined"
	if report.AverageOrderValueDefined {
		aov = report.AverageOrderValue.StringFixed(2)
	}

	records := [][]string{
		{"TotalRevenue", report.TotalRevenue.StringFixed(2)},
		{"UniqueCustomers", strconv.Itoa(report.UniqueCustomers)},
		{"UniqueOrders", strconv.Itoa(report.UniqueOrders)},
		{"AverageOrderValue", aov},
		{"RecordCount", strconv.Itoa(report.RecordCount)},
	}

	return e.csv.WriteSimpleCSV(SummaryFileName, []string{"Metric", "Value"}, records)
}

// writeRanked writes one ranked grouping as Rank,<Key>,Revenue rows.
func (e *ReportExporter) writeRanked(filename, keyName string, groups []domain.GroupRevenue) error {
	records := make([][]string, 0, len(groups))
	for i, g := range groups {
		records = append(records, []string{
			strconv.Itoa(i + 1),
			g.Key,
			g.Revenue.StringFixed(2),
		})
	}
	return e.csv.WriteSimpleCSV(filename, []string{"Rank", keyName, "Revenue"}, records)
}

// WriteJSONReport writes the full report as one indented JSON document.
func (e *ReportExporter) WriteJSONReport(report *domain.MetricsReport) error {
	fullPath := e.paths.GetReportPath(JSONReportFileName)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}

	e.logger.Info("JSON report written", slog.String("path", fullPath))
	return nil
}
