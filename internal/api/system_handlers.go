package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PlayerLynx/AI-Study-Buddy/internal/response"
)

func GetHome(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), gin.H{
			"message":  ServiceName + " is running",
			"version":  ServiceVersion,
			"features": []string{"user accounts", "ai chat", "learning goals", "study tracking"},
		}, nil)
	}
}

// GetHealth reports the backend in use and whether it is reachable with its
// schema in place. A degraded store answers 503.
func GetHealth(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := app.Store()
		body := gin.H{
			"service":   ServiceName,
			"backend":   store.Backend(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		if err := store.Health(c.Request.Context()); err != nil {
			app.Logger().Warnf("health: %s store degraded: %v", store.Backend(), err)
			body["status"] = "degraded"
			body["storage_error"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, response.Success(body, nil))
			return
		}
		body["status"] = "healthy"
		HandleSuccess(c, app.Logger(), body, nil)
	}
}

func NoRoute(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleError(c, app.Logger(), errors.New(c.Request.Method+" "+c.Request.URL.Path), http.StatusNotFound, "Endpoint not found")
	}
}
