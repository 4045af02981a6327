package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"taskflow/backend/internal/config"
)

var schemas = map[string][]string{
	config.DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			first_name TEXT,
			last_name TEXT,
			is_active INTEGER DEFAULT 1,
			created_at TEXT,
			updated_at TEXT,
			last_login TEXT,
			api_key TEXT UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT DEFAULT 'pending',
			priority TEXT DEFAULT 'medium',
			due_date TEXT,
			user_id INTEGER,
			created_at TEXT,
			updated_at TEXT,
			deleted_at TEXT
		)`,
	},
	config.DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			first_name VARCHAR(255),
			last_name VARCHAR(255),
			is_active TINYINT(1) DEFAULT 1,
			created_at VARCHAR(32),
			updated_at VARCHAR(32),
			last_login VARCHAR(32),
			api_key VARCHAR(64) UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			status VARCHAR(32) DEFAULT 'pending',
			priority VARCHAR(32) DEFAULT 'medium',
			due_date VARCHAR(32),
			user_id BIGINT,
			created_at VARCHAR(32),
			updated_at VARCHAR(32),
			deleted_at VARCHAR(32),
			INDEX idx_tasks_user_id (user_id)
		)`,
	},
}

// Bootstrap creates the users and tasks tables when missing and, if seed is
// set, fills each empty table with sample rows.
func Bootstrap(ctx context.Context, db *sql.DB, driver string, seed bool, logger zerolog.Logger) error {
	stmts, ok := schemas[driver]
	if !ok {
		return fmt.Errorf("no schema for driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	logger.Debug().Str("driver", driver).Msg("schema ready")

	if !seed {
		return nil
	}
	return seedSampleData(ctx, db, logger)
}
