package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PlayerLynx/AI-Study-Buddy/internal/service"
)

func PostRegister(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CredentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid request: username and password required")
			return
		}

		id, err := service.Register(c.Request.Context(), app.Store(), &req)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Registration failed")
			return
		}

		app.Logger().Infof("registered user %q (id=%d)", req.Username, id)
		HandleCreated(c, app.Logger(), gin.H{"user_id": id}, map[string]any{"message": "Registration successful"})
	}
}

func PostLogin(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CredentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid request: username and password required")
			return
		}

		user, err := service.Login(c.Request.Context(), app.Store(), &req)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Login failed")
			return
		}

		HandleSuccess(c, app.Logger(), user, map[string]any{"message": "Login successful"})
	}
}
