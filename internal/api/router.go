package api

import (
	"github.com/gin-gonic/gin"

	"github.com/PlayerLynx/AI-Study-Buddy/internal/auth"
)

// NewRouter registers every route on a fresh engine.
func NewRouter(app App, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(AccessLogMiddleware(app.Logger()))
	r.Use(CORSMiddleware(corsOrigins))

	r.GET("/", GetHome(app))

	a := r.Group("/api")
	a.GET("/health", GetHealth(app))
	a.POST("/register", PostRegister(app))
	a.POST("/login", PostLogin(app))

	a.POST("/chat", PostChat(app))
	a.GET("/chat/history", auth.RequireUserID(), GetChatHistory(app))

	a.GET("/goals", auth.RequireUserID(), GetGoals(app))
	a.POST("/goals", PostGoal(app))
	a.DELETE("/goals", DeleteGoal(app))
	a.GET("/goals/progress", auth.RequireUserID(), GetGoalProgress(app))
	a.PUT("/goals/status", PutGoalStatus(app))

	a.POST("/study/session", PostStudySession(app))
	a.GET("/study/sessions", auth.RequireUserID(), GetStudySessions(app))
	a.GET("/study/statistics", auth.RequireUserID(), GetStudyStatistics(app))

	r.NoRoute(NoRoute(app))
	return r
}
