// Package routes assembles the gin engine.
package routes

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"taskflow/backend/internal/handlers"
	"taskflow/backend/internal/repositories"
	"taskflow/backend/internal/services"
)

const healthPingTimeout = 2 * time.Second

// SetupRouter wires repositories, services and handlers over db and registers every endpoint.
func SetupRouter(db *sql.DB, logger zerolog.Logger, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger))

	config := cors.DefaultConfig()
	config.AllowOrigins = allowOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", apiKeyHeader, requestIDHeader}
	config.ExposeHeaders = []string{requestIDHeader}
	r.Use(cors.New(config))

	// repositories
	taskRepo := repositories.NewTaskRepository(db, logger)
	userRepo := repositories.NewUserRepository(db, logger)

	// services
	taskService := services.NewTaskService(taskRepo, logger)
	userService := services.NewUserService(userRepo, logger)

	// handlers
	taskHandler := handlers.NewTaskHandler(taskService, logger)
	userHandler := handlers.NewUserHandler(userService, logger)

	r.GET("/", IndexHandler)
	r.GET("/health", HealthHandler(db))

	api := r.Group("/")
	api.Use(APIKeyMiddleware(userService, logger))
	{
		api.GET("/tasks", taskHandler.GetTasksHandler)
		api.GET("/tasks/:id", taskHandler.GetTaskByIDHandler)
		api.POST("/tasks", taskHandler.CreateTaskHandler)
		api.PUT("/tasks/:id", taskHandler.UpdateTaskHandler)
		api.DELETE("/tasks/:id", taskHandler.DeleteTaskHandler)

		api.GET("/users", userHandler.GetUsersHandler)
		api.GET("/users/:id", userHandler.GetUserByIDHandler)
		api.POST("/users", userHandler.CreateUserHandler)
		api.POST("/users/:id/api-key", userHandler.GenerateAPIKeyHandler)
	}

	return r
}

// IndexHandler returns the service banner.
func IndexHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "TaskFlow API"})
}

// HealthHandler reports ok while the database answers a ping.
func HealthHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
