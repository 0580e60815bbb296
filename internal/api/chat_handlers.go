package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PlayerLynx/AI-Study-Buddy/internal/auth"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/service"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/storage"
)

func PostChat(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid request: user_id and message required")
			return
		}

		result, err := service.Chat(c.Request.Context(), app.Store(), app.Responder(), app.Logger(), &req)
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Chat failed")
			return
		}

		HandleSuccess(c, app.Logger(), result, nil)
	}
}

func GetChatHistory(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := queryInt(c, "limit", storage.DefaultChatHistoryLimit)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid query")
			return
		}

		history, err := app.Store().ChatHistory(c.Request.Context(), auth.UserID(c), limit)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to fetch chat history")
			return
		}

		HandleSuccess(c, app.Logger(), history, map[string]any{"count": len(history)})
	}
}
