package handlers

import (
	"net/http"
	"strconv"
	"time"

	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/finch-money/finch/internal/middleware"
	"github.com/gin-gonic/gin"
)

const defaultTransactionPageSize = 50

// transactionHandler handles transaction listing and per-transaction reviews.
type transactionHandler struct {
	accountService portssvc.AccountSvcFacade
	reviewService  portssvc.ReviewSvcFacade
}

func newTransactionHandler(accountService portssvc.AccountSvcFacade, reviewService portssvc.ReviewSvcFacade) *transactionHandler {
	return &transactionHandler{accountService: accountService, reviewService: reviewService}
}

func registerTransactionRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, reviewService portssvc.ReviewSvcFacade) {
	h := newTransactionHandler(accountService, reviewService)

	transactions := rg.Group("/transactions")
	transactions.GET("", h.listTransactions)
	transactions.PUT("/:transactionID/review", h.reviewTransaction)
	transactions.DELETE("/:transactionID/review", h.deleteReview)
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter. A second
// return of false means the value was present but malformed and a 400 was
// already written.
func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: name + " must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return t, true
}

// listTransactions godoc
// @Summary List transactions
// @Description Returns a page of the caller's transactions, newest first, with review state attached
// @Tags transactions
// @Produce json
// @Param startDate query string false "Window start (YYYY-MM-DD)"
// @Param endDate query string false "Window end (YYYY-MM-DD)"
// @Param accountIDs query []string false "Restrict to these accounts"
// @Param category query string false "Restrict to reviews with this leaf category"
// @Param limit query int false "Page size (default 50)"
// @Param nextToken query string false "Pagination cursor from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	startDate, ok := parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	endDate, ok := parseDateQuery(c, "endDate")
	if !ok {
		return
	}

	limit := defaultTransactionPageSize
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	params := dto.ListTransactionsParams{
		StartDate:  startDate,
		EndDate:    endDate,
		AccountIDs: c.QueryArray("accountIDs"),
		Category:   c.Query("category"),
		Limit:      limit,
	}
	if v := c.Query("nextToken"); v != "" {
		params.NextToken = &v
	}

	page, err := h.accountService.ListTransactions(c.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(c, logger, err, "failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, page)
}

// reviewTransaction godoc
// @Summary Review a transaction
// @Description Records or replaces the review for a transaction, categorizing it and settling reimbursements
// @Tags reviews
// @Accept json
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Param review body dto.ReviewTransactionRequest true "Review details"
// @Success 200 {object} dto.ReviewResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{transactionID}/review [put]
func (h *transactionHandler) reviewTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req dto.ReviewTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload: " + err.Error()})
		return
	}

	review, err := h.reviewService.ReviewTransaction(c.Request.Context(), userID, c.Param("transactionID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "failed to review transaction")
		return
	}

	c.JSON(http.StatusOK, review)
}

// deleteReview godoc
// @Summary Acknowledge a deleted transaction
// @Description Writes an empty review for a deactivated transaction so it carries no category and contributes nothing to reports
// @Tags reviews
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.ReviewResponse
// @Failure 400 {object} ErrorResponse "Transaction is still active"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{transactionID}/review [delete]
func (h *transactionHandler) deleteReview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	review, err := h.reviewService.DeleteReview(c.Request.Context(), userID, c.Param("transactionID"))
	if err != nil {
		respondServiceError(c, logger, err, "failed to delete review")
		return
	}

	c.JSON(http.StatusOK, review)
}
