package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/finch-money/finch/internal/utils"
)

// untrackedPaths are probe endpoints whose traffic would drown real usage.
var untrackedPaths = map[string]bool{
	"/health": true,
}

// PosthogMiddleware emits one analytics event per successful authenticated
// request, named after the matched route.
func PosthogMiddleware(client *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !client.IsInitialized() || untrackedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		// Only authenticated traffic is attributable to a user.
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}

		// "/api/v1/accounts/:accountID/sync" -> "api_v1_accounts_:accountID_sync"
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		client.Enqueue(userID, eventName, map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		})
	}
}
