package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PlayerLynx/AI-Study-Buddy/internal/response"
)

const userIDKey = "user_id"

// RequireUserID scopes a request to the user named by the user_id query
// parameter. Requests without a positive integer id are rejected with 400.
func RequireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.Query(userIDKey))
		id, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.BadRequest("user_id query parameter is required"))
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// UserID returns the id stored by RequireUserID, or 0 outside of it.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
