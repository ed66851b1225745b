package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/finch-money/finch/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportHandler handles the user-wide spending report.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
}

func newReportHandler(reportService portssvc.ReportSvcFacade) *reportHandler {
	return &reportHandler{reportService: reportService}
}

func registerReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newReportHandler(reportService)

	rg.GET("/report", h.userReport)
}

// parseReportParams reads report query parameters. A false return means a 400
// was already written.
func parseReportParams(c *gin.Context) (dto.ReportParams, bool) {
	var params dto.ReportParams
	var ok bool

	params.StartDate, ok = parseDateQuery(c, "startDate")
	if !ok {
		return params, false
	}
	params.EndDate, ok = parseDateQuery(c, "endDate")
	if !ok {
		return params, false
	}
	params.AccountIDs = c.QueryArray("accountIDs")

	if v := c.Query("includeTransfers"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "includeTransfers must be a boolean"})
			return params, false
		}
		params.IncludeTransfers = include
	}

	return params, true
}

// userReport godoc
// @Summary User spending report
// @Description Aggregates reviewed spending across all of the caller's accounts by category
// @Tags reports
// @Produce json
// @Param startDate query string false "Window start (YYYY-MM-DD)"
// @Param endDate query string false "Window end (YYYY-MM-DD)"
// @Param accountIDs query []string false "Restrict to these accounts"
// @Param includeTransfers query bool false "Include the Transfer category"
// @Success 200 {object} domain.Report
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /report [get]
func (h *reportHandler) userReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	params, ok := parseReportParams(c)
	if !ok {
		return
	}

	report, err := h.reportService.UserReport(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "failed to build report")
		return
	}

	c.JSON(http.StatusOK, report)
}
