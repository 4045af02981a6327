package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"taskflow/backend/internal/models"
)

// SamplePassword is the plaintext password of every seeded user.
const SamplePassword = "password123"

type sampleUser struct {
	username, email, firstName, lastName string
}

var sampleUsers = []sampleUser{
	{"john_doe", "john@example.com", "John", "Doe"},
	{"jane_smith", "jane@example.com", "Jane", "Smith"},
	{"bob_johnson", "bob@example.com", "Bob", "Johnson"},
}

type sampleTask struct {
	title, description, status, priority, dueDate string
	owner                                         string // username, empty for unassigned
}

var sampleTasks = []sampleTask{
	{"Fix login bug", "Users cannot login with special characters", models.TaskStatusInProgress, models.TaskPriorityHigh, "2025-10-20 10:00:00", "john_doe"},
	{"Update documentation", "Add API examples to README", models.TaskStatusPending, models.TaskPriorityMedium, "2025-10-25 15:00:00", "jane_smith"},
	{"Review Q4 report", "Financial review for Q4 2024", models.TaskStatusCompleted, models.TaskPriorityHigh, "2025-10-15 09:00:00", "john_doe"},
	{"Design new homepage", "Mockups for redesign", models.TaskStatusPending, models.TaskPriorityLow, "2025-11-01 12:00:00", "bob_johnson"},
	{"Setup CI/CD pipeline", "Configure GitHub Actions", models.TaskStatusPending, models.TaskPriorityHigh, "2025-10-10 14:00:00", "jane_smith"},
	{"Refactor user service", "Clean up legacy code", models.TaskStatusPending, models.TaskPriorityMedium, "2025-10-22 16:00:00", ""},
}

func seedSampleData(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	userCount, err := countRows(ctx, db, "users")
	if err != nil {
		return err
	}
	if userCount == 0 {
		if err := seedUsers(ctx, db); err != nil {
			return err
		}
		logger.Info().Int("count", len(sampleUsers)).Msg("seeded sample users")
	}

	taskCount, err := countRows(ctx, db, "tasks")
	if err != nil {
		return err
	}
	if taskCount == 0 {
		if err := seedTasks(ctx, db); err != nil {
			return err
		}
		logger.Info().Int("count", len(sampleTasks)).Msg("seeded sample tasks")
	}
	return nil
}

// countRows only ever receives the fixed table names above.
func countRows(ctx context.Context, db *sql.DB, table string) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func seedUsers(ctx context.Context, db *sql.DB) error {
	now := models.FormatTimestamp(time.Now())
	for _, su := range sampleUsers {
		u := models.User{Username: su.username}
		if err := u.SetPassword(SamplePassword); err != nil {
			return err
		}
		_, err := db.ExecContext(ctx,
			"INSERT INTO users (username, email, password_hash, first_name, last_name, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			su.username, su.email, u.PasswordHash, su.firstName, su.lastName, true, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", su.username, err)
		}
	}
	return nil
}

func seedTasks(ctx context.Context, db *sql.DB) error {
	owners := make(map[string]int64)
	for _, su := range sampleUsers {
		var id int64
		err := db.QueryRowContext(ctx, "SELECT id FROM users WHERE username = ?", su.username).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to look up seed owner %s: %w", su.username, err)
		}
		owners[su.username] = id
	}

	// Stagger creation times so the newest-first ordering is stable.
	base := time.Now().Add(-time.Duration(len(sampleTasks)) * time.Second)
	for i, st := range sampleTasks {
		due, err := models.ParseTimestamp(st.dueDate)
		if err != nil {
			return err
		}
		var owner any
		if id, ok := owners[st.owner]; ok {
			owner = id
		}
		createdAt := models.FormatTimestamp(base.Add(time.Duration(i) * time.Second))
		_, err = db.ExecContext(ctx,
			"INSERT INTO tasks (title, description, status, priority, due_date, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			st.title, st.description, st.status, st.priority, models.FormatTimestamp(due), owner, createdAt, createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to seed task %q: %w", st.title, err)
		}
	}
	return nil
}
