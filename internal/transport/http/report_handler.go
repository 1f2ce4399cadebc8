package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "retailcli/internal/errors"
	"retailcli/internal/services"
)

// knownMetrics indexes the fixed metric battery exposed over the API, built
// from the service's metric name list so the two layers cannot drift apart.
var knownMetrics = func() map[string]bool {
	m := make(map[string]bool, len(services.MetricNames))
	for _, name := range services.MetricNames {
		m[name] = true
	}
	return m
}()

// ReportHandler handles metrics report HTTP requests
type ReportHandler struct {
	service      ReportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetReport)
	r.Post("/refresh", h.RefreshReport)

	r.Route("/{metric}", func(r chi.Router) {
		r.Use(h.MetricCtx)
		r.Get("/", h.GetMetric)
	})

	return r
}

// MetricCtx middleware validates the metric parameter
func (h *ReportHandler) MetricCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metric := chi.URLParam(r, "metric")
		if !knownMetrics[metric] {
			h.errorHandler.HandleError(w, r, apierrors.ErrMetricNotFound.WithDetails(metric))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetReport handles GET /api/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fetching metrics report",
		slog.String("request_id", reqID),
		slog.String("path", r.URL.Path))

	report, err := h.service.Report(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, report)
}

// GetMetric handles GET /api/report/{metric}
func (h *ReportHandler) GetMetric(w http.ResponseWriter, r *http.Request) {
	metric := chi.URLParam(r, "metric")

	value, err := h.service.Metric(r.Context(), metric)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"metric": metric,
		"value":  value,
	})
}

// RefreshReport handles POST /api/report/refresh
func (h *ReportHandler) RefreshReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "refreshing metrics report",
		slog.String("request_id", reqID))

	report, err := h.service.Refresh(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, report)
}
