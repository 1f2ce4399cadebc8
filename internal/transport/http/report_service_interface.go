package http

import (
	"context"

	"retailcli/pkg/contracts/domain"
)

// ReportServiceInterface is the service contract the report handlers depend
// on. It is satisfied by services.AnalyticsService and stubbed in tests.
type ReportServiceInterface interface {
	// Report returns the latest computed metrics report.
	Report(ctx context.Context) (*domain.MetricsReport, error)

	// Metric returns one named metric from the latest report.
	Metric(ctx context.Context, name string) (interface{}, error)

	// Refresh re-runs the pipeline over the configured dataset.
	Refresh(ctx context.Context) (*domain.MetricsReport, error)
}
