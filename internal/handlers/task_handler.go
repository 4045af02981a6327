// Package handlers maps HTTP routes onto service calls.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"taskflow/backend/internal/models"
	"taskflow/backend/internal/services"
)

// TaskHandler serves the /tasks routes.
type TaskHandler struct {
	taskService *services.TaskService
	logger      zerolog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(taskService *services.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// GetTasksHandler lists tasks, filtered by ?status=, ?priority= and ?assigned_to=.
func (h *TaskHandler) GetTasksHandler(c *gin.Context) {
	filter := models.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		userID, err := strconv.ParseInt(assignedTo, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assigned_to"})
			return
		}
		filter.UserID = &userID
	}

	tasks, err := h.taskService.GetTasks(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetTaskByIDHandler returns one task, or null with 404.
func (h *TaskHandler) GetTaskByIDHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTaskHandler creates a task. Only title is required.
func (h *TaskHandler) CreateTaskHandler(c *gin.Context) {
	var req models.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to save task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTaskHandler applies a partial update.
func (h *TaskHandler) UpdateTaskHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTaskHandler soft-deletes a task and reports whether it existed.
func (h *TaskHandler) DeleteTaskHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.taskService.DeleteTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
