// Package models defines the Task and User entities and their request/response shapes.
package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
	TaskPriorityUrgent = "urgent"
)

// MaxTitleLength is the longest title, in characters, a task may carry.
const MaxTitleLength = 200

const (
	MsgTitleRequired   = "Title is required"
	MsgTitleTooLong    = "Title must be less than 200 characters"
	MsgInvalidStatus   = "Invalid status"
	MsgInvalidPriority = "Invalid priority"
	MsgDueDateInPast   = "Due date cannot be in the past"
)

var taskStatuses = map[string]bool{
	TaskStatusPending:    true,
	TaskStatusInProgress: true,
	TaskStatusCompleted:  true,
	TaskStatusCancelled:  true,
}

var taskPriorities = map[string]bool{
	TaskPriorityLow:    true,
	TaskPriorityMedium: true,
	TaskPriorityHigh:   true,
	TaskPriorityUrgent: true,
}

// TaskColumns is the fixed column order ScanTask expects.
const TaskColumns = "id, title, description, status, priority, due_date, user_id, created_at, updated_at, deleted_at"

// Task is a row of the tasks table.
type Task struct {
	ID          int64
	Title       string
	Description *string
	Status      string
	Priority    string
	DueDate     *time.Time
	UserID      *int64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
}

// TaskResponse is the external representation of a Task.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	UserID      *int64     `json:"user_id"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// TaskCreateRequest is the payload accepted by POST /tasks.
// Unknown fields are ignored.
type TaskCreateRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	UserID      *int64     `json:"user_id"`
}

// TaskUpdateRequest is the payload accepted by PUT /tasks/:id.
// A nil field leaves the stored value unchanged.
type TaskUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	UserID      *int64     `json:"user_id"`
}

// TaskFilter holds the equality filters for listing tasks. Zero values are not applied.
type TaskFilter struct {
	Status   string
	Priority string
	UserID   *int64
}

// NewTask builds a task from a create payload, filling in the default status and priority.
func NewTask(req TaskCreateRequest) *Task {
	t := &Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      TaskStatusPending,
		Priority:    TaskPriorityMedium,
		DueDate:     storedPrecision(req.DueDate),
		UserID:      req.UserID,
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	return t
}

// Apply copies the non-nil fields of req onto t.
func (t *Task) Apply(req TaskUpdateRequest) {
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.DueDate != nil {
		t.DueDate = storedPrecision(req.DueDate)
	}
	if req.UserID != nil {
		t.UserID = req.UserID
	}
}

// Validate returns the problems with t in a stable order. The due date is only
// checked against now for tasks that have not been stored yet.
func (t *Task) Validate(now time.Time) []string {
	var errs []string

	if strings.TrimSpace(t.Title) == "" {
		errs = append(errs, MsgTitleRequired)
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		errs = append(errs, MsgTitleTooLong)
	}
	if !taskStatuses[t.Status] {
		errs = append(errs, MsgInvalidStatus)
	}
	if !taskPriorities[t.Priority] {
		errs = append(errs, MsgInvalidPriority)
	}
	if t.ID == 0 && t.DueDate != nil && t.DueDate.Before(now) {
		errs = append(errs, MsgDueDateInPast)
	}

	return errs
}

// ToResponse drops deleted_at, which is never exposed.
func (t *Task) ToResponse() TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		UserID:      t.UserID,
		UpdatedAt:   t.UpdatedAt,
	}
	if !t.CreatedAt.IsZero() {
		createdAt := t.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

// ScanTask maps a row selected with TaskColumns onto a Task.
// Scan errors, including sql.ErrNoRows, are returned unwrapped.
func ScanTask(row RowScanner) (*Task, error) {
	var (
		t           Task
		description sql.NullString
		userID      sql.NullInt64
		dueDate     sql.NullString
		createdAt   sql.NullString
		updatedAt   sql.NullString
		deletedAt   sql.NullString
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&description,
		&t.Status,
		&t.Priority,
		&dueDate,
		&userID,
		&createdAt,
		&updatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		t.Description = &description.String
	}
	if userID.Valid {
		t.UserID = &userID.Int64
	}

	if t.DueDate, err = ParseNullTimestamp(dueDate); err != nil {
		return nil, fmt.Errorf("task %d due_date: %w", t.ID, err)
	}
	created, err := ParseNullTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("task %d created_at: %w", t.ID, err)
	}
	if created != nil {
		t.CreatedAt = *created
	}
	if t.UpdatedAt, err = ParseNullTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("task %d updated_at: %w", t.ID, err)
	}
	if t.DeletedAt, err = ParseNullTimestamp(deletedAt); err != nil {
		return nil, fmt.Errorf("task %d deleted_at: %w", t.ID, err)
	}

	return &t, nil
}
