package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"taskflow/backend/internal/models"
)

// ErrTaskNotFound is returned when no live (not soft-deleted) task has the given ID.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository issues task queries. Every value is bound as a parameter.
type TaskRepository struct {
	DB     *sql.DB
	logger zerolog.Logger
	now    func() time.Time
}

// NewTaskRepository creates a TaskRepository.
func NewTaskRepository(db *sql.DB, logger zerolog.Logger) *TaskRepository {
	return &TaskRepository{
		DB:     db,
		logger: logger.With().Str("repository", "tasks").Logger(),
		now:    time.Now,
	}
}

// Save inserts t when it has no ID and otherwise rewrites all of its mutable
// columns. Invalid tasks are rejected with a *models.ValidationError.
func (r *TaskRepository) Save(ctx context.Context, t *models.Task) error {
	now := r.now().UTC().Truncate(time.Microsecond)
	if err := models.NewValidationError(t.Validate(now)); err != nil {
		return err
	}
	if t.ID == 0 {
		return r.insert(ctx, t, now)
	}
	return r.update(ctx, t, now)
}

func (r *TaskRepository) insert(ctx context.Context, t *models.Task, now time.Time) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}

	query := "INSERT INTO tasks (title, description, status, priority, due_date, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	result, err := r.DB.ExecContext(ctx, query,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		models.FormatNullTimestamp(t.DueDate),
		t.UserID,
		models.FormatTimestamp(t.CreatedAt),
		models.FormatTimestamp(now),
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to insert task")
		return fmt.Errorf("could not insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("could not get last insert ID: %w", err)
	}
	t.ID = id
	t.UpdatedAt = &now

	r.logger.Debug().Int64("id", t.ID).Msg("inserted task")
	return nil
}

func (r *TaskRepository) update(ctx context.Context, t *models.Task, now time.Time) error {
	query := "UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, user_id = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL"
	result, err := r.DB.ExecContext(ctx, query,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		models.FormatNullTimestamp(t.DueDate),
		t.UserID,
		models.FormatTimestamp(now),
		t.ID,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("id", t.ID).Msg("failed to update task")
		return fmt.Errorf("could not update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTaskNotFound
	}
	t.UpdatedAt = &now

	r.logger.Debug().Int64("id", t.ID).Msg("updated task")
	return nil
}

// FindByID returns the live task with the given ID.
func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := "SELECT " + models.TaskColumns + " FROM tasks WHERE id = ? AND deleted_at IS NULL"

	t, err := models.ScanTask(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		r.logger.Error().Err(err).Int64("id", id).Msg("failed to query task by ID")
		return nil, fmt.Errorf("could not query task: %w", err)
	}
	return t, nil
}

// FindAll returns live tasks matching filter, newest first.
func (r *TaskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	conditions := []string{"deleted_at IS NULL"}
	var args []any

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		conditions = append(conditions, "priority = ?")
		args = append(args, filter.Priority)
	}
	if filter.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *filter.UserID)
	}

	query := "SELECT " + models.TaskColumns + " FROM tasks WHERE " +
		strings.Join(conditions, " AND ") +
		" ORDER BY created_at DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query tasks")
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		t, err := models.ScanTask(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan task")
			return nil, fmt.Errorf("could not scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// Delete soft-deletes t by stamping deleted_at. The row stays in storage but
// is no longer returned by FindByID or FindAll.
func (r *TaskRepository) Delete(ctx context.Context, t *models.Task) error {
	now := r.now().UTC().Truncate(time.Microsecond)
	stamp := models.FormatTimestamp(now)

	query := "UPDATE tasks SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL"
	result, err := r.DB.ExecContext(ctx, query, stamp, stamp, t.ID)
	if err != nil {
		r.logger.Error().Err(err).Int64("id", t.ID).Msg("failed to delete task")
		return fmt.Errorf("could not delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	t.DeletedAt = &now
	t.UpdatedAt = &now
	r.logger.Debug().Int64("id", t.ID).Msg("soft-deleted task")
	return nil
}
