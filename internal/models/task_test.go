package models_test

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/backend/internal/models"
)

func strPtr(s string) *string { return &s }

func TestNewTask_Defaults(t *testing.T) {
	task := models.NewTask(models.TaskCreateRequest{Title: "Write release notes", Priority: strPtr(models.TaskPriorityHigh)})

	assert.Equal(t, "Write release notes", task.Title)
	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.Equal(t, models.TaskPriorityHigh, task.Priority)
	assert.Nil(t, task.DueDate)
	assert.Nil(t, task.UserID)
	assert.Nil(t, task.Description)
}

func TestTaskValidate(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		task models.Task
		want []string
	}{
		{
			name: "valid",
			task: models.Task{Title: "Fix login bug", Status: "pending", Priority: "medium", DueDate: &future},
		},
		{
			name: "blank title",
			task: models.Task{Title: "   ", Status: "pending", Priority: "medium"},
			want: []string{models.MsgTitleRequired},
		},
		{
			name: "title of exactly 200 characters",
			task: models.Task{Title: strings.Repeat("a", 200), Status: "pending", Priority: "medium"},
		},
		{
			name: "title too long",
			task: models.Task{Title: strings.Repeat("é", 201), Status: "pending", Priority: "medium"},
			want: []string{models.MsgTitleTooLong},
		},
		{
			name: "bad enums keep order",
			task: models.Task{Title: "x", Status: "done", Priority: "critical"},
			want: []string{models.MsgInvalidStatus, models.MsgInvalidPriority},
		},
		{
			name: "past due date on a new task",
			task: models.Task{Title: "x", Status: "pending", Priority: "low", DueDate: &past},
			want: []string{models.MsgDueDateInPast},
		},
		{
			name: "past due date on a stored task",
			task: models.Task{ID: 7, Title: "x", Status: "completed", Priority: "low", DueDate: &past},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.Validate(now))
		})
	}
}

func TestTaskApply_OnlyPresentFields(t *testing.T) {
	desc := "Users cannot login with special characters"
	task := models.Task{ID: 1, Title: "Fix login bug", Description: &desc, Status: "in_progress", Priority: "high"}

	task.Apply(models.TaskUpdateRequest{Status: strPtr(models.TaskStatusCompleted)})

	assert.Equal(t, "Fix login bug", task.Title)
	assert.Equal(t, desc, *task.Description)
	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	assert.Equal(t, "high", task.Priority)
}

func TestTaskToResponse_OmitsDeletedAt(t *testing.T) {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	deleted := created.Add(time.Hour)
	task := models.Task{ID: 3, Title: "x", Status: "pending", Priority: "low", CreatedAt: created, DeletedAt: &deleted}

	resp := task.ToResponse()

	assert.Equal(t, int64(3), resp.ID)
	require.NotNil(t, resp.CreatedAt)
	assert.True(t, created.Equal(*resp.CreatedAt))
	assert.Nil(t, resp.UpdatedAt)
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return errors.New("column count mismatch")
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *int64:
			*d = v.(int64)
		case *string:
			*d = v.(string)
		case *sql.NullString:
			if v == nil {
				*d = sql.NullString{}
			} else {
				*d = sql.NullString{String: v.(string), Valid: true}
			}
		case *sql.NullInt64:
			if v == nil {
				*d = sql.NullInt64{}
			} else {
				*d = sql.NullInt64{Int64: v.(int64), Valid: true}
			}
		default:
			return errors.New("unexpected destination type")
		}
	}
	return nil
}

func TestScanTask_FixedColumnOrder(t *testing.T) {
	row := fakeRow{values: []any{
		int64(1), "Fix login bug", "Users cannot login", "in_progress", "high",
		"2025-10-20 10:00:00", int64(1), "2026-01-02T03:04:05.000006Z", nil, nil,
	}}

	task, err := models.ScanTask(row)
	require.NoError(t, err)

	assert.Equal(t, int64(1), task.ID)
	assert.Equal(t, "Fix login bug", task.Title)
	require.NotNil(t, task.Description)
	assert.Equal(t, "Users cannot login", *task.Description)
	assert.Equal(t, "in_progress", task.Status)
	assert.Equal(t, "high", task.Priority)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC), *task.DueDate)
	require.NotNil(t, task.UserID)
	assert.Equal(t, int64(1), *task.UserID)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 6000, time.UTC), task.CreatedAt)
	assert.Nil(t, task.UpdatedAt)
	assert.Nil(t, task.DeletedAt)
}

func TestScanTask_PassesThroughNoRows(t *testing.T) {
	_, err := models.ScanTask(fakeRow{err: sql.ErrNoRows})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestScanTask_BadTimestamp(t *testing.T) {
	row := fakeRow{values: []any{
		int64(2), "x", nil, "pending", "low", "next tuesday", nil, nil, nil, nil,
	}}
	_, err := models.ScanTask(row)
	assert.ErrorContains(t, err, "due_date")
}

func TestValidationError(t *testing.T) {
	assert.NoError(t, models.NewValidationError(nil))

	err := models.NewValidationError([]string{models.MsgTitleRequired, models.MsgInvalidStatus})
	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{models.MsgTitleRequired, models.MsgInvalidStatus}, validationErr.Errors)
	assert.Contains(t, err.Error(), "Title is required")
}
