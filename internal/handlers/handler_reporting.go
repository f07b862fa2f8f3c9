package handlers

import (
	"net/http"
	"time"

	portssvc "github.com/fernbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/fernbooks/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves the read-only financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/income-statement", h.incomeStatement)
		reports.GET("/client-balances", h.clientBalances)
		reports.GET("/ar-aging", h.arAging)
	}
}

// trialBalance godoc
// @Summary Trial balance
// @Description Per-account debit/credit sums over the posting-date range
// @Tags reports
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {array} domain.TrialBalanceRow
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range: " + err.Error()})
		return
	}

	rows, err := h.reportingService.TrialBalance(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build trial balance")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// incomeStatement godoc
// @Summary Income statement
// @Description Income and expense account activity for a period
// @Tags reports
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} domain.IncomeStatement
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range: " + err.Error()})
		return
	}

	statement, err := h.reportingService.IncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build income statement")
		return
	}
	c.JSON(http.StatusOK, statement)
}

// clientBalances godoc
// @Summary Client balance summary
// @Description Invoiced, applied, unapplied and outstanding amounts per client
// @Tags reports
// @Produce json
// @Success 200 {array} domain.ClientBalanceRow
// @Security BearerAuth
// @Router /reports/client-balances [get]
func (h *reportingHandler) clientBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.reportingService.ClientBalanceSummary(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build client balance summary")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// arAging godoc
// @Summary Accounts receivable aging
// @Description Open invoices bucketed by days past due as of the given date
// @Tags reports
// @Produce json
// @Param asOf query string false "As-of date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} domain.ARAging
// @Security BearerAuth
// @Router /reports/ar-aging [get]
func (h *reportingHandler) arAging(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf := time.Now()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date: " + err.Error()})
			return
		}
		asOf = parsed
	}

	aging, err := h.reportingService.ARAging(c.Request.Context(), asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build AR aging")
		return
	}
	c.JSON(http.StatusOK, aging)
}
