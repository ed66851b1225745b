package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/finch-money/finch/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles account-scoped HTTP requests, including the sync
// trigger and the account-level report, subscription and review-queue views.
type accountHandler struct {
	accountService      portssvc.AccountSvcFacade
	syncService         portssvc.SyncSvcFacade
	reportService       portssvc.ReportSvcFacade
	subscriptionService portssvc.SubscriptionSvcFacade
	reviewService       portssvc.ReviewSvcFacade
}

func newAccountHandler(
	accountService portssvc.AccountSvcFacade,
	syncService portssvc.SyncSvcFacade,
	reportService portssvc.ReportSvcFacade,
	subscriptionService portssvc.SubscriptionSvcFacade,
	reviewService portssvc.ReviewSvcFacade,
) *accountHandler {
	return &accountHandler{
		accountService:      accountService,
		syncService:         syncService,
		reportService:       reportService,
		subscriptionService: subscriptionService,
		reviewService:       reviewService,
	}
}

func registerAccountRoutes(
	rg *gin.RouterGroup,
	accountService portssvc.AccountSvcFacade,
	syncService portssvc.SyncSvcFacade,
	reportService portssvc.ReportSvcFacade,
	subscriptionService portssvc.SubscriptionSvcFacade,
	reviewService portssvc.ReviewSvcFacade,
) {
	h := newAccountHandler(accountService, syncService, reportService, subscriptionService, reviewService)

	accounts := rg.Group("/accounts")
	accounts.GET("", h.listAccounts)
	accounts.GET("/:accountID", h.getAccount)
	accounts.PUT("/:accountID/name", h.renameAccount)
	accounts.POST("/:accountID/sync", h.syncAccount)
	accounts.GET("/:accountID/report", h.accountReport)
	accounts.GET("/:accountID/subscriptions", h.listSubscriptions)
	accounts.GET("/:accountID/review/next", h.nextUnreviewed)
}

// listAccounts godoc
// @Summary List accounts
// @Description Returns all tracked accounts of the caller
// @Tags accounts
// @Produce json
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 403 {object} ErrorResponse "Account belongs to another user"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), userID, c.Param("accountID"))
	if err != nil {
		respondServiceError(c, logger, err, "failed to get account")
		return
	}

	c.JSON(http.StatusOK, account)
}

// renameAccount godoc
// @Summary Rename an account
// @Description Updates the display name of an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param account body dto.RenameAccountRequest true "New display name"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/name [put]
func (h *accountHandler) renameAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req dto.RenameAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload: " + err.Error()})
		return
	}

	account, err := h.accountService.RenameAccount(c.Request.Context(), userID, c.Param("accountID"), req.Name)
	if err != nil {
		respondServiceError(c, logger, err, "failed to rename account")
		return
	}

	c.JSON(http.StatusOK, account)
}

// syncAccount godoc
// @Summary Sync an account
// @Description Reconciles the account against the aggregator feed. The first sync of an account must carry a startDate; later syncs ignore it.
// @Tags accounts
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param sync body dto.SyncAccountRequest false "Sync options"
// @Success 200 {object} dto.SyncResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Sync state conflict or relink required"
// @Security BearerAuth
// @Router /accounts/{accountID}/sync [post]
func (h *accountHandler) syncAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}
	accountID := c.Param("accountID")

	var req dto.SyncAccountRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload: " + err.Error()})
			return
		}
	}

	var (
		report *dto.SyncReport
		err    error
	)
	if req.StartDate != nil {
		var startDate time.Time
		startDate, err = time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "startDate must be YYYY-MM-DD"})
			return
		}
		report, err = h.syncService.InitialSync(c.Request.Context(), userID, accountID, startDate)
	} else {
		report, err = h.syncService.SyncAccount(c.Request.Context(), userID, accountID)
	}
	if err != nil {
		respondServiceError(c, logger, err, "failed to sync account")
		return
	}

	logger.Info("account synced",
		slog.String("accountID", accountID),
		slog.String("summary", report.Summary()),
	)
	c.JSON(http.StatusOK, dto.SyncResponse{Report: report, Summary: report.Summary()})
}

// accountReport godoc
// @Summary Account spending report
// @Description Aggregates reviewed spending for one account by category
// @Tags reports
// @Produce json
// @Param accountID path string true "Account ID"
// @Param startDate query string false "Window start (YYYY-MM-DD)"
// @Param endDate query string false "Window end (YYYY-MM-DD)"
// @Param includeTransfers query bool false "Include the Transfer category"
// @Success 200 {object} domain.Report
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/report [get]
func (h *accountHandler) accountReport(c *gin.Context) {
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

	report, err := h.reportService.AccountReport(c.Request.Context(), userID, c.Param("accountID"), params)
	if err != nil {
		respondServiceError(c, logger, err, "failed to build report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// listSubscriptions godoc
// @Summary List detected subscriptions
// @Description Returns the subscriptions detected on an account
// @Tags subscriptions
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {array} dto.SubscriptionResponse
// @Failure 404 {object} ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/subscriptions [get]
func (h *accountHandler) listSubscriptions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	subs, err := h.subscriptionService.ListSubscriptions(c.Request.Context(), userID, c.Param("accountID"))
	if err != nil {
		respondServiceError(c, logger, err, "failed to list subscriptions")
		return
	}

	c.JSON(http.StatusOK, subs)
}

// nextUnreviewed godoc
// @Summary Next transaction needing review
// @Description Returns the oldest transaction on the account that still needs review, optionally after a cursor transaction
// @Tags reviews
// @Produce json
// @Param accountID path string true "Account ID"
// @Param after query string false "Transaction ID to resume after"
// @Success 200 {object} dto.TransactionResponse
// @Success 204 "Nothing left to review"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/review/next [get]
func (h *accountHandler) nextUnreviewed(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	var after *string
	if v := c.Query("after"); v != "" {
		after = &v
	}

	txn, err := h.reviewService.NextUnreviewed(c.Request.Context(), userID, c.Param("accountID"), after)
	if err != nil {
		respondServiceError(c, logger, err, "failed to find next unreviewed transaction")
		return
	}
	if txn == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, txn)
}
