package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/facturio/facturio/internal/domain"
)

// ReportHandler serves the dashboard report and the AI summary endpoint.
type ReportHandler struct {
	reports domain.ReportService
}

func NewReportHandler(reports domain.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Summary handles GET /api/reports/summary.
func (h *ReportHandler) Summary(c echo.Context) error {
	report, err := h.reports.BuildReport(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

type aiSummaryResponse struct {
	Summary string `json:"summary"`
}

// AISummary handles POST /api/reports/ai-summary. The collaborator call is
// bounded by the request context; a failure surfaces as 502 and leaves
// stored data untouched.
func (h *ReportHandler) AISummary(c echo.Context) error {
	text, err := h.reports.Summarize(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, aiSummaryResponse{Summary: text})
}
