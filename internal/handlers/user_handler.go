package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"taskflow/backend/internal/models"
	"taskflow/backend/internal/services"
)

// UserHandler serves the /users routes.
type UserHandler struct {
	userService *services.UserService
	logger      zerolog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userService *services.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// GetUsersHandler lists users.
func (h *UserHandler) GetUsersHandler(c *gin.Context) {
	users, err := h.userService.GetUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUserByIDHandler returns one user, or null with 404.
func (h *UserHandler) GetUserByIDHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUserHandler registers a user. username, email and password are required.
func (h *UserHandler) CreateUserHandler(c *gin.Context) {
	var req models.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GenerateAPIKeyHandler issues a new API key. The key is only ever shown here.
func (h *UserHandler) GenerateAPIKeyHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	key, err := h.userService.GenerateAPIKey(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate API key")
		return
	}
	c.JSON(http.StatusCreated, models.APIKeyResponse{APIKey: key})
}
