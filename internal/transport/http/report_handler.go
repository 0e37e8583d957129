// Package http exposes the report engine over a chi HTTP API.
package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "trialcli/internal/errors"
	"trialcli/internal/spreadsheet"
	"trialcli/pkg/contracts/domain"
)

// ReportGenerator is the service contract the handler depends on.
type ReportGenerator interface {
	Generate(ctx context.Context, participantGrid, eventGrid domain.Grid) (*domain.SummaryData, error)
}

// ReportHandler serves report generation over multipart uploads.
type ReportHandler struct {
	service      ReportGenerator
	logger       *slog.Logger
	metrics      *Metrics
	maxFileBytes int64
}

// NewReportHandler creates a report handler.
func NewReportHandler(service ReportGenerator, logger *slog.Logger, metrics *Metrics, maxFileBytes int64) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "report_handler")),
		metrics:      metrics,
		maxFileBytes: maxFileBytes,
	}
}

// ReportResponse is the success envelope returned by GenerateReport.
type ReportResponse struct {
	Success bool                `json:"success"`
	Data    *domain.SummaryData `json:"data"`
}

// Render implements render.Renderer.
func (rr *ReportResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// GenerateReport handles POST /api/reports. The request is a multipart form
// with two spreadsheet parts: "participants" and "events". The response is
// the full SummaryData for the pair; nothing is persisted server-side.
func (h *ReportHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, 2*h.maxFileBytes)
	if err := r.ParseMultipartForm(h.maxFileBytes); err != nil {
		h.renderError(w, r, apierrors.New(http.StatusBadRequest, "INVALID_REQUEST", "expected multipart form with participants and events files"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	participantGrid, apiErr := h.readPart(r, "participants")
	if apiErr != nil {
		h.renderError(w, r, apiErr)
		return
	}
	eventGrid, apiErr := h.readPart(r, "events")
	if apiErr != nil {
		h.renderError(w, r, apiErr)
		return
	}

	summary, err := h.service.Generate(ctx, participantGrid, eventGrid)
	if err != nil {
		h.renderError(w, r, apierrors.FromError(err))
		return
	}

	if h.metrics != nil {
		h.metrics.ReportsGenerated.Inc()
		h.metrics.UnmappedEvents.Add(float64(summary.UnmappedEvents))
		h.metrics.EpisodesCounted.Add(float64(summary.Totals.TotalDiarrhealEvents))
	}

	if err := render.Render(w, r, &ReportResponse{Success: true, Data: summary}); err != nil {
		h.logger.ErrorContext(ctx, "failed to render response", slog.String("error", err.Error()))
	}
}

func (h *ReportHandler) readPart(r *http.Request, field string) (domain.Grid, *apierrors.APIError) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, apierrors.NewWithDetails(http.StatusBadRequest, "MISSING_PARAMETER",
			"missing required file part", map[string]interface{}{"field": field})
	}
	defer file.Close()

	grid, err := spreadsheet.ReadGridFrom(io.LimitReader(file, h.maxFileBytes), header.Filename)
	if err != nil {
		return nil, apierrors.FromError(err)
	}
	return grid, nil
}

func (h *ReportHandler) renderError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	if h.metrics != nil && apiErr.StatusCode >= 400 {
		h.metrics.ReportsFailed.WithLabelValues(apiErr.ErrorCode).Inc()
	}
	h.logger.WarnContext(r.Context(), "report request failed",
		slog.Int("status", apiErr.StatusCode),
		slog.String("error_code", apiErr.ErrorCode),
		slog.String("message", apiErr.Message))
	if err := render.Render(w, r, apierrors.NewErrorResponse(apiErr)); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render error", slog.String("error", err.Error()))
	}
}
