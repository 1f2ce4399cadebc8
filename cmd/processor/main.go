package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"retailcli/internal/config"
	"retailcli/internal/exporter"
	"retailcli/internal/infrastructure"
	"retailcli/internal/services"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	inFile := flag.String("in", "", "raw transaction dataset (.xlsx or .csv, defaults to the configured dataset)")
	outDir := flag.String("out", "", "output directory for report files (defaults to data/reports)")
	format := flag.String("format", "both", "report output format: csv, json or both")
	dateFormat := flag.String("date-format", "", "invoice date layout in Go reference time notation (overrides config)")
	flag.Parse()

	if *format != "csv" && *format != "json" && *format != "both" {
		fmt.Fprintf(os.Stderr, "invalid -format %q: want csv, json or both\n", *format)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dateFormat != "" {
		cfg.Pipeline.DateFormat = *dateFormat
	}
	if *outDir != "" {
		cfg.Paths.ReportsDir = *outDir
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		slog.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg.Logging.FilePath = paths.GetLogPath(filepath.Base(cfg.Logging.FilePath))
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	datasetPath := paths.GetDatasetPath(cfg.Pipeline.DatasetFile)
	if *inFile != "" {
		datasetPath = *inFile
	}

	logger.Info("Starting transaction report processing",
		slog.String("dataset", datasetPath),
		slog.String("output_dir", paths.ReportsDir),
		slog.String("format", *format))

	ctx := context.Background()
	analytics := services.NewAnalyticsService(logger, cfg.Pipeline, paths, prometheus.NewRegistry())

	report, err := analytics.RefreshFromFile(ctx, datasetPath)
	if err != nil {
		logger.Error("Pipeline run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if stats := analytics.Stats(); stats != nil {
		logger.Info("Cleaning complete",
			slog.Int("rows_in", stats.RowsIn),
			slog.Int("rows_kept", stats.RowsKept),
			slog.Int("rows_dropped", stats.Dropped()))
	}

	reportExporter := exporter.NewReportExporter(logger, paths)
	if *format == "csv" || *format == "both" {
		if err := reportExporter.WriteCSVReports(report); err != nil {
			logger.Error("Failed to write CSV reports", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
	if *format == "json" || *format == "both" {
		if err := reportExporter.WriteJSONReport(report); err != nil {
			logger.Error("Failed to write JSON report", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("Report processing complete",
		slog.String("total_revenue", report.TotalRevenue.String()),
		slog.Int("unique_customers", report.UniqueCustomers),
		slog.Int("unique_orders", report.UniqueOrders),
		slog.Int("records", report.RecordCount))
}
