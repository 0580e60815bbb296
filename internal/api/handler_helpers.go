package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/response"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/service"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/storage"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	if status >= http.StatusInternalServerError {
		logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	} else {
		logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
	}
	var resp response.APIResponse
	switch status {
	case http.StatusBadRequest:
		resp = response.BadRequest(msg + ": " + err.Error())
	case http.StatusUnauthorized:
		resp = response.Unauthorized(msg)
	case http.StatusNotFound:
		resp = response.NotFound(msg)
	case http.StatusConflict:
		resp = response.Conflict(msg)
	case http.StatusInternalServerError:
		// engine details stay in the log
		resp = response.InternalError(msg)
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.AbortWithStatusJSON(status, resp)
}

// HandleServiceError maps errors returned by the service layer onto a status.
func HandleServiceError(c *gin.Context, logger internal.Logger, err error, msg string) {
	switch {
	case service.IsValidationError(err):
		HandleError(c, logger, err, http.StatusBadRequest, msg)
	case errors.Is(err, storage.ErrDuplicateUsername):
		HandleError(c, logger, err, http.StatusConflict, "Username already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		HandleError(c, logger, err, http.StatusUnauthorized, "Invalid username or password")
	default:
		HandleError(c, logger, err, http.StatusInternalServerError, msg)
	}
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	respond(c, logger, http.StatusOK, data, meta)
}

func HandleCreated(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	respond(c, logger, http.StatusCreated, data, meta)
}

func respond(c *gin.Context, logger internal.Logger, status int, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Debugf("[request_id=%s] %s %s ok", requestID, c.Request.Method, c.FullPath())
	c.JSON(status, response.Success(data, meta))
}

// queryInt reads an optional integer query parameter. Absent means fallback.
func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return n, nil
}

func requiredQueryID(c *gin.Context, key string) (int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, errors.New(key + " is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return id, nil
}
