package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"taskflow/backend/internal/models"
	"taskflow/backend/internal/repositories"
)

// respondError maps service errors onto HTTP responses. Lookups that find
// nothing answer 404 with a JSON null body.
func respondError(c *gin.Context, logger zerolog.Logger, err error, fallback string) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": validationErr.Errors})
	case errors.Is(err, repositories.ErrTaskNotFound), errors.Is(err, repositories.ErrUserNotFound):
		c.JSON(http.StatusNotFound, nil)
	case errors.Is(err, repositories.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return id, true
}
