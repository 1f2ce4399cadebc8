package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"retailcli/internal/config"
	"retailcli/internal/dataprocessing"
	"retailcli/internal/errors"
	"retailcli/internal/infrastructure"
	"retailcli/pkg/contracts/domain"
)

// Metric names accepted by AnalyticsService.Metric and the HTTP layer.
const (
	MetricTotalRevenue      = "total-revenue"
	MetricUniqueCustomers   = "unique-customers"
	MetricUniqueOrders      = "unique-orders"
	MetricAverageOrderValue = "average-order-value"
	MetricTopProducts       = "top-products"
	MetricTopCountries      = "top-countries"
	MetricTopMonths         = "top-months"
	MetricTopCustomers      = "top-customers"
)

// MetricNames lists every metric name Metric accepts, in report order. The
// HTTP layer validates path parameters against this list so the two stay in
// step.
var MetricNames = []string{
	MetricTotalRevenue,
	MetricUniqueCustomers,
	MetricUniqueOrders,
	MetricAverageOrderValue,
	MetricTopProducts,
	MetricTopCountries,
	MetricTopMonths,
	MetricTopCustomers,
}

// AnalyticsService runs the transaction analytics pipeline over the
// configured dataset and caches the latest report for read access. A run is
// all-or-nothing: on a fatal error the previous report stays in place and no
// partial results are exposed.
type AnalyticsService struct {
	logger     *slog.Logger
	parser     *dataprocessing.Parser
	cleaner    *dataprocessing.Cleaner
	aggregator *dataprocessing.Aggregator
	paths      *config.Paths
	pipeline   config.PipelineConfig
	metrics    *PipelineMetrics

	mu     sync.RWMutex
	report *domain.MetricsReport
	stats  *dataprocessing.CleanStats
}

// NewAnalyticsService wires the pipeline stages for the given configuration.
func NewAnalyticsService(logger *slog.Logger, cfg config.PipelineConfig, paths *config.Paths, reg prometheus.Registerer) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	return &AnalyticsService{
		logger:  logger.With(slog.String("component", "analytics_service")),
		parser:  dataprocessing.NewParser(logger),
		cleaner: dataprocessing.NewCleaner(logger, cfg.DateFormat),
		aggregator: dataprocessing.NewAggregator(logger, dataprocessing.AggregatorConfig{
			TopProducts:  cfg.TopProducts,
			TopCountries: cfg.TopCountries,
			TopMonths:    cfg.TopMonths,
			TopCustomers: cfg.TopCustomers,
		}),
		paths:    paths,
		pipeline: cfg,
		metrics:  NewPipelineMetrics(reg),
	}
}

// Refresh runs the full pipeline against the configured dataset and replaces
// the cached report on success.
func (s *AnalyticsService) Refresh(ctx context.Context) (*domain.MetricsReport, error) {
	return s.RefreshFromFile(ctx, s.paths.GetDatasetPath(s.pipeline.DatasetFile))
}

// RefreshFromFile runs the full pipeline against a specific dataset file.
func (s *AnalyticsService) RefreshFromFile(ctx context.Context, datasetPath string) (*domain.MetricsReport, error) {
	runID := uuid.NewString()
	ctx = infrastructure.WithTraceID(ctx, runID)
	start := time.Now()

	s.logger.InfoContext(ctx, "pipeline run started",
		slog.String("run_id", runID),
		slog.String("dataset", datasetPath))

	report, stats, err := s.run(ctx, datasetPath)
	duration := time.Since(start)
	s.metrics.RunDuration.Observe(duration.Seconds())

	if err != nil {
		s.metrics.Runs.WithLabelValues("failed").Inc()
		s.logger.ErrorContext(ctx, "pipeline run failed",
			slog.String("run_id", runID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.Runs.WithLabelValues("succeeded").Inc()

	s.mu.Lock()
	s.report = report
	s.stats = stats
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "pipeline run succeeded",
		slog.String("run_id", runID),
		slog.Duration("duration", duration),
		slog.Int("rows_in", stats.RowsIn),
		slog.Int("rows_kept", stats.RowsKept),
		slog.String("total_revenue", report.TotalRevenue.String()))

	return report, nil
}

// run executes one parse-clean-aggregate pass.
func (s *AnalyticsService) run(ctx context.Context, datasetPath string) (*domain.MetricsReport, *dataprocessing.CleanStats, error) {
	raw, err := s.parser.ParseFile(ctx, datasetPath)
	if err != nil {
		return nil, nil, err
	}
	s.metrics.RowsRead.Add(float64(len(raw)))

	clean, stats, err := s.cleaner.Clean(ctx, raw)
	if err != nil {
		return nil, nil, err
	}
	s.metrics.RowsKept.Add(float64(stats.RowsKept))
	s.metrics.RowsDropped.WithLabelValues("cancelled").Add(float64(stats.DroppedCancelled))
	s.metrics.RowsDropped.WithLabelValues("quantity").Add(float64(stats.DroppedQuantity))
	s.metrics.RowsDropped.WithLabelValues("price").Add(float64(stats.DroppedPrice))
	s.metrics.RowsDropped.WithLabelValues("no_customer").Add(float64(stats.DroppedNoCustomer))

	report, err := s.aggregator.Aggregate(ctx, clean)
	if err != nil {
		return nil, nil, err
	}

	return report, stats, nil
}

// Report returns the cached report, or ErrNoReport before the first
// successful run.
func (s *AnalyticsService) Report(ctx context.Context) (*domain.MetricsReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return nil, errors.ErrNoReport
	}
	return s.report, nil
}

// Stats returns the cleaning statistics of the latest successful run, or nil.
func (s *AnalyticsService) Stats() *dataprocessing.CleanStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Metric returns one named metric from the cached report. An undefined
// average order value surfaces as ErrUndefinedAverage, never as zero.
func (s *AnalyticsService) Metric(ctx context.Context, name string) (interface{}, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}

	switch name {
	case MetricTotalRevenue:
		return report.TotalRevenue, nil
	case MetricUniqueCustomers:
		return report.UniqueCustomers, nil
	case MetricUniqueOrders:
		return report.UniqueOrders, nil
	case MetricAverageOrderValue:
		if !report.AverageOrderValueDefined {
			return nil, errors.ErrUndefinedAverage
		}
		return report.AverageOrderValue, nil
	case MetricTopProducts:
		return report.TopProducts, nil
	case MetricTopCountries:
		return report.TopCountries, nil
	case MetricTopMonths:
		return report.TopMonths, nil
	case MetricTopCustomers:
		return report.TopCustomers, nil
	default:
		return nil, errors.NewNotFoundError("metric " + name)
	}
}
