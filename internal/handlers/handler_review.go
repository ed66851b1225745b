package handlers

import (
	"net/http"

	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/finch-money/finch/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reviewHandler handles review group HTTP requests.
type reviewHandler struct {
	reviewService portssvc.ReviewSvcFacade
}

func newReviewHandler(reviewService portssvc.ReviewSvcFacade) *reviewHandler {
	return &reviewHandler{reviewService: reviewService}
}

func registerReviewRoutes(rg *gin.RouterGroup, reviewService portssvc.ReviewSvcFacade) {
	h := newReviewHandler(reviewService)

	groups := rg.Group("/groups")
	groups.POST("", h.createGroup)
	groups.DELETE("/reviews/:reviewID", h.removeFromGroup)
}

// createGroup godoc
// @Summary Group reviews
// @Description Clusters reviews under a leader review so related rows read as one purchase
// @Tags reviews
// @Accept json
// @Produce json
// @Param group body dto.CreateGroupRequest true "Leader and member review ids"
// @Success 201
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Review not found"
// @Security BearerAuth
// @Router /groups [post]
func (h *reviewHandler) createGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload: " + err.Error()})
		return
	}

	if err := h.reviewService.CreateGroup(c.Request.Context(), userID, req); err != nil {
		respondServiceError(c, logger, err, "failed to create group")
		return
	}

	c.Status(http.StatusCreated)
}

// removeFromGroup godoc
// @Summary Remove a review from its group
// @Description Detaches a review from its group; a group whose last member leaves is deleted
// @Tags reviews
// @Produce json
// @Param reviewID path string true "Review ID"
// @Success 204
// @Failure 404 {object} ErrorResponse "Review not found or not grouped"
// @Security BearerAuth
// @Router /groups/reviews/{reviewID} [delete]
func (h *reviewHandler) removeFromGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return
	}

	if err := h.reviewService.RemoveFromGroup(c.Request.Context(), userID, c.Param("reviewID")); err != nil {
		respondServiceError(c, logger, err, "failed to remove review from group")
		return
	}

	c.Status(http.StatusNoContent)
}
