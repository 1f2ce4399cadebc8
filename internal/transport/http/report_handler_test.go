package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "retailcli/internal/errors"
	"retailcli/internal/services"
	"retailcli/pkg/contracts"
	"retailcli/pkg/contracts/domain"
)

// stubReportService implements ReportServiceInterface for handler tests
type stubReportService struct {
	report     *domain.MetricsReport
	reportErr  error
	metricVal  interface{}
	metricErr  error
	refreshErr error
}

func (s *stubReportService) Report(ctx context.Context) (*domain.MetricsReport, error) {
	return s.report, s.reportErr
}

func (s *stubReportService) Metric(ctx context.Context, name string) (interface{}, error) {
	if s.metricErr != nil {
		return nil, s.metricErr
	}
	return s.metricVal, nil
}

func (s *stubReportService) Refresh(ctx context.Context) (*domain.MetricsReport, error) {
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return s.report, nil
}

func newTestHandler(service ReportServiceInterface) *ReportHandler {
	logger := slog.Default()
	return NewReportHandler(service, logger, apierrors.NewErrorHandler(logger, false))
}

func testReport() *domain.MetricsReport {
	return &domain.MetricsReport{
		TotalRevenue:             decimal.RequireFromString("28.05"),
		UniqueCustomers:          2,
		UniqueOrders:             2,
		AverageOrderValue:        decimal.RequireFromString("14.03"),
		AverageOrderValueDefined: true,
		TopProducts:              []domain.GroupRevenue{},
		TopCountries:             []domain.GroupRevenue{},
		TopMonths:                []domain.GroupRevenue{},
		TopCustomers:             []domain.GroupRevenue{},
		RecordCount:              2,
		GeneratedAt:              time.Now().UTC(),
	}
}

func TestReportHandler_GetReport(t *testing.T) {
	handler := newTestHandler(&stubReportService{report: testReport()})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "28.05", body["total_revenue"])
	assert.Equal(t, float64(2), body["unique_orders"])
}

func TestReportHandler_GetReport_NoReportYet(t *testing.T) {
	handler := newTestHandler(&stubReportService{reportErr: apierrors.ErrNoReport})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypeReportNotFound, problem["type"])
}

func TestReportHandler_GetMetric(t *testing.T) {
	handler := newTestHandler(&stubReportService{metricVal: 42})

	req := httptest.NewRequest(http.MethodGet, "/unique-orders", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unique-orders", body["metric"])
	assert.Equal(t, float64(42), body["value"])
}

func TestReportHandler_GetMetric_Unknown(t *testing.T) {
	handler := newTestHandler(&stubReportService{metricVal: 1})

	req := httptest.NewRequest(http.MethodGet, "/profit-margin", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypeMetricNotFound, problem["type"])
	assert.Equal(t, "METRIC_NOT_FOUND", problem["error_code"])
	assert.Equal(t, "profit-margin", problem["details"])
}

func TestReportHandler_GetMetric_AllKnownMetricsRoute(t *testing.T) {
	handler := newTestHandler(&stubReportService{metricVal: 1})

	for _, name := range services.MetricNames {
		req := httptest.NewRequest(http.MethodGet, "/"+name, nil)
		rec := httptest.NewRecorder()
		handler.Routes().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "metric %s", name)
	}
}

func TestReportHandler_GetMetric_UndefinedAverage(t *testing.T) {
	handler := newTestHandler(&stubReportService{metricErr: apierrors.ErrUndefinedAverage})

	req := httptest.NewRequest(http.MethodGet, "/average-order-value", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypeAverageUndefined, problem["type"])
}

func TestReportHandler_RefreshReport(t *testing.T) {
	handler := newTestHandler(&stubReportService{report: testReport()})

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "28.05", body["total_revenue"])
}

func TestReportHandler_RefreshReport_MalformedDataset(t *testing.T) {
	handler := newTestHandler(&stubReportService{
		refreshErr: apierrors.NewMalformedDateError(7, "13/45/2010", assert.AnError),
	})

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypeMalformedDataset, problem["type"])
}

func TestHealthHandler_GetHealth(t *testing.T) {
	handler := NewHealthHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])

	version, ok := body["version"].(map[string]interface{})
	require.True(t, ok, "expected version info object")
	assert.Equal(t, contracts.Version, version["version"])
	assert.NotEmpty(t, version["go_version"])
}
