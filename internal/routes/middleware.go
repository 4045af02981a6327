package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskflow/backend/internal/repositories"
	"taskflow/backend/internal/services"
)

const (
	requestIDHeader = "X-Request-ID"
	apiKeyHeader    = "X-API-Key"

	requestIDCtxKey = "request_id"
	userIDCtxKey    = "user_id"
)

// RequestIDMiddleware propagates the caller's X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDCtxKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware writes one access log entry per request.
func LoggerMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("request_id", c.GetString(requestIDCtxKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("handled request")
	}
}

// APIKeyMiddleware resolves an X-API-Key header to a user and stores the
// user's ID under "user_id". Requests without the header pass through
// anonymously; an unknown key or inactive user is rejected with 401.
func APIKeyMiddleware(userService *services.UserService, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(apiKeyHeader)
		if apiKey == "" {
			c.Next()
			return
		}

		user, err := userService.AuthenticateAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				logger.Warn().Str("request_id", c.GetString(requestIDCtxKey)).Msg("rejected api key")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
				return
			}
			logger.Error().Err(err).Msg("failed to look up api key")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify API key"})
			return
		}

		c.Set(userIDCtxKey, user.ID)
		c.Next()
	}
}
