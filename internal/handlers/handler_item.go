package handlers

import (
	"net/http"

	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/finch-money/finch/internal/middleware"
	"github.com/gin-gonic/gin"
)

// itemHandler handles institution link HTTP requests.
type itemHandler struct {
	itemService portssvc.ItemSvcFacade
}

func newItemHandler(itemService portssvc.ItemSvcFacade) *itemHandler {
	return &itemHandler{itemService: itemService}
}

func registerItemRoutes(rg *gin.RouterGroup, itemService portssvc.ItemSvcFacade) {
	h := newItemHandler(itemService)

	items := rg.Group("/items")
	items.POST("", h.linkItem)
	items.GET("", h.listItems)
	items.POST("/:itemID/accounts", h.linkAccounts)
}

// linkItem godoc
// @Summary Link an institution
// @Description Exchanges a public token for an access token and stores the resulting item
// @Tags items
// @Accept json
// @Produce json
// @Param item body dto.CreateItemRequest true "Public token from the link widget"
// @Success 201 {object} dto.ItemSummaryResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /items [post]
func (h *itemHandler) linkItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload: " + err.Error()})
		return
	}

	summary, err := h.itemService.LinkItem(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "failed to link item")
		return
	}

	c.JSON(http.StatusCreated, summary)
}

// listItems godoc
// @Summary List linked institutions
// @Description Returns the caller's linked items with their tracked accounts
// @Tags items
// @Produce json
// @Success 200 {array} dto.ItemResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /items [get]
func (h *itemHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	items, err := h.itemService.ListItems(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "failed to list items")
		return
	}

	c.JSON(http.StatusOK, items)
}

// linkAccounts godoc
// @Summary Link accounts under an item
// @Description Starts tracking the selected aggregator accounts of a linked item
// @Tags items
// @Accept json
// @Produce json
// @Param itemID path string true "Item ID"
// @Param accounts body dto.LinkAccountsRequest true "Aggregator account ids to link"
// @Success 201 {array} dto.AccountResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Item belongs to another user"
// @Failure 409 {object} ErrorResponse "Account already linked"
// @Security BearerAuth
// @Router /items/{itemID}/accounts [post]
func (h *itemHandler) linkAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}
	itemID := c.Param("itemID")

	var req dto.LinkAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload: " + err.Error()})
		return
	}

	accounts, err := h.itemService.LinkAccounts(c.Request.Context(), userID, itemID, req)
	if err != nil {
		respondServiceError(c, logger, err, "failed to link accounts")
		return
	}

	c.JSON(http.StatusCreated, accounts)
}
