package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/finovate_app/internal/core/ports/services"
	"github.com/SscSPs/finovate_app/internal/dto"
	"github.com/SscSPs/finovate_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/summary", h.getSummary)
	}
}

// getSummary godoc
// @Summary Generate the financial summary
// @Description Aggregates balances, income, expenses, transfers and goal progress per currency
// @Tags reports
// @Produce json
// @Param month query string false "Restrict ledger totals to a month (YYYY-MM)"
// @Success 200 {object} domain.FinancialSummary
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var params dto.SummaryParams
	if !bindQuery(c, &params) {
		return
	}

	logger := middleware.GetLoggerFromContext(c).With(slog.String("month", params.Month))
	logger.Info("Received request to generate financial summary")

	summary, err := h.reportingService.GetSummary(c.Request.Context(), identity, params.Month)
	if err != nil {
		respondError(c, err, "generate financial summary")
		return
	}

	logger.Info("Financial summary generated successfully", slog.Int("transaction_count", summary.TransactionCount))
	c.JSON(http.StatusOK, summary)
}
