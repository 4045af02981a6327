// Package services holds the orchestration between handlers and repositories.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"taskflow/backend/internal/models"
	"taskflow/backend/internal/repositories"
)

// TaskService turns task payloads into repository calls.
type TaskService struct {
	taskRepo *repositories.TaskRepository
	logger   zerolog.Logger
	now      func() time.Time
}

// NewTaskService creates a TaskService.
func NewTaskService(taskRepo *repositories.TaskRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		logger:   logger.With().Str("service", "tasks").Logger(),
		now:      time.Now,
	}
}

// CreateTask stores a new task built from req.
func (s *TaskService) CreateTask(ctx context.Context, req models.TaskCreateRequest) (*models.TaskResponse, error) {
	task := models.NewTask(req)
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("id", task.ID).Msg("created task")
	resp := task.ToResponse()
	return &resp, nil
}

// GetTasks lists live tasks matching filter, newest first.
func (s *TaskService) GetTasks(ctx context.Context, filter models.TaskFilter) ([]models.TaskResponse, error) {
	tasks, err := s.taskRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]models.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		resp = append(resp, t.ToResponse())
	}
	return resp, nil
}

// GetTaskByID returns repositories.ErrTaskNotFound for missing or deleted tasks.
func (s *TaskService) GetTaskByID(ctx context.Context, id int64) (*models.TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := task.ToResponse()
	return &resp, nil
}

// UpdateTask applies the fields present in req to the task and stores it.
// A new due date must not be in the past; an existing one is left alone.
func (s *TaskService) UpdateTask(ctx context.Context, id int64, req models.TaskUpdateRequest) (*models.TaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Apply(req)

	errs := task.Validate(s.now())
	if req.DueDate != nil && req.DueDate.Before(s.now()) {
		errs = append(errs, models.MsgDueDateInPast)
	}
	if err := models.NewValidationError(errs); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("id", task.ID).Msg("updated task")
	resp := task.ToResponse()
	return &resp, nil
}

// DeleteTask soft-deletes the task and reports whether it existed.
func (s *TaskService) DeleteTask(ctx context.Context, id int64) (bool, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTaskNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.taskRepo.Delete(ctx, task); err != nil {
		// Deleted by someone else between the lookup and the update.
		if errors.Is(err, repositories.ErrTaskNotFound) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info().Int64("id", task.ID).Msg("deleted task")
	return true, nil
}
