package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PlayerLynx/AI-Study-Buddy/internal/auth"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/service"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/storage"
)

func PostStudySession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.StudySessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid request: user_id, subject and duration_minutes required")
			return
		}

		session, err := service.AddStudySession(c.Request.Context(), app.Store(), &req)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to save study session")
			return
		}

		HandleCreated(c, app.Logger(), session, nil)
	}
}

func GetStudySessions(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, err := queryInt(c, "days", storage.DefaultSessionDays)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid query")
			return
		}

		sessions, err := app.Store().StudySessions(c.Request.Context(), auth.UserID(c), days)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to fetch study sessions")
			return
		}

		HandleSuccess(c, app.Logger(), sessions, map[string]any{"count": len(sessions), "days": days})
	}
}

func GetStudyStatistics(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, err := queryInt(c, "days", storage.DefaultStatisticsDays)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid query")
			return
		}

		stats, err := app.Store().StudyStatistics(c.Request.Context(), auth.UserID(c), days)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to compute study statistics")
			return
		}

		HandleSuccess(c, app.Logger(), stats, map[string]any{"days": days})
	}
}
