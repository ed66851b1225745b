package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finch-money/finch/internal/apperrors"
	portssvc "github.com/finch-money/finch/internal/core/ports/services"
	"github.com/finch-money/finch/internal/dto"
	"github.com/finch-money/finch/internal/middleware"
	"github.com/finch-money/finch/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// authHandler handles authentication related HTTP requests.
type authHandler struct {
	userService portssvc.UserSvcFacade
}

func newAuthHandler(userService portssvc.UserSvcFacade) *authHandler {
	return &authHandler{userService: userService}
}

// registerAuthRoutes registers the public authentication routes. Login gets
// its own tight rate limit to slow down credential stuffing.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, userService portssvc.UserSvcFacade) {
	h := newAuthHandler(userService)

	rate, err := limiter.NewRateFromFormatted("5-M")
	if err != nil {
		panic(err)
	}
	loginLimiter := limitergin.NewMiddleware(limiter.New(memory.NewStore(), rate))

	auth := r.Group("/api/v1/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", loginLimiter, h.login)
}

// register godoc
// @Summary Register a new user
// @Description Creates a new user account with a username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.RegisterUserRequest true "User registration details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "Username already taken"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload: " + err.Error()})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "username already taken"})
			return
		}
		respondServiceError(c, logger, err, "failed to register user")
		return
	}

	logger.Info("user registered", slog.String("userID", user.UserID))
	c.JSON(http.StatusCreated, user)
}

// login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request payload: " + err.Error()})
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "failed to log in")
		return
	}

	c.JSON(http.StatusOK, resp)
}
