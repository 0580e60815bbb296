package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PlayerLynx/AI-Study-Buddy/internal/auth"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/service"
)

func PostGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.GoalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid request: user_id and title required")
			return
		}

		goal, err := service.CreateGoal(c.Request.Context(), app.Store(), &req)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to save goal")
			return
		}

		HandleCreated(c, app.Logger(), goal, nil)
	}
}

func GetGoals(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := strings.TrimSpace(c.Query("status"))
		goals, err := app.Store().Goals(c.Request.Context(), auth.UserID(c), status)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to fetch goals")
			return
		}

		HandleSuccess(c, app.Logger(), goals, map[string]any{"count": len(goals)})
	}
}

func GetGoalProgress(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		progress, err := app.Store().GoalProgress(c.Request.Context(), auth.UserID(c))
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to compute goal progress")
			return
		}

		HandleSuccess(c, app.Logger(), progress, nil)
	}
}

func PutGoalStatus(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.GoalStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid request: goal_id and status required")
			return
		}

		if err := service.UpdateGoalStatus(c.Request.Context(), app.Store(), &req); err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to update goal status")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"goal_id": req.GoalID, "status": req.Status}, nil)
	}
}

func DeleteGoal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		goalID, err := requiredQueryID(c, "goal_id")
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid query")
			return
		}

		if err := app.Store().DeleteGoal(c.Request.Context(), goalID); err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to delete goal")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"goal_id": goalID}, nil)
	}
}
