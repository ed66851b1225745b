package handlers

import (
	"net/http"

	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/finch-money/finch/internal/middleware"
	"github.com/gin-gonic/gin"
)

// subscriptionHandler handles subscription curation HTTP requests.
type subscriptionHandler struct {
	subscriptionService portssvc.SubscriptionSvcFacade
}

func newSubscriptionHandler(subscriptionService portssvc.SubscriptionSvcFacade) *subscriptionHandler {
	return &subscriptionHandler{subscriptionService: subscriptionService}
}

func registerSubscriptionRoutes(rg *gin.RouterGroup, subscriptionService portssvc.SubscriptionSvcFacade) {
	h := newSubscriptionHandler(subscriptionService)

	rg.PUT("/subscriptions/:subscriptionID", h.updateSubscription)
}

// updateSubscription godoc
// @Summary Confirm or retire a subscription
// @Description Updates the tracked/active flags of a detected subscription; any update clears the new flag
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param subscriptionID path string true "Subscription ID"
// @Param subscription body dto.UpdateSubscriptionRequest true "Flag updates"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Subscription not found"
// @Security BearerAuth
// @Router /subscriptions/{subscriptionID} [put]
func (h *subscriptionHandler) updateSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload: " + err.Error()})
		return
	}

	sub, err := h.subscriptionService.UpdateSubscription(c.Request.Context(), userID, c.Param("subscriptionID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "failed to update subscription")
		return
	}

	c.JSON(http.StatusOK, sub)
}
