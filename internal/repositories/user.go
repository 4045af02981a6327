// Package repositories issues the SQL statements behind each entity.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"taskflow/backend/internal/database"
	"taskflow/backend/internal/models"
)

var (
	ErrDuplicateUser = errors.New("username or email already exists")
	ErrUserNotFound  = errors.New("user not found")
)

// UserRepository issues user queries. Every value is bound as a parameter.
type UserRepository struct {
	DB     *sql.DB
	logger zerolog.Logger
	now    func() time.Time
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(db *sql.DB, logger zerolog.Logger) *UserRepository {
	return &UserRepository{
		DB:     db,
		logger: logger.With().Str("repository", "users").Logger(),
		now:    time.Now,
	}
}

// Save inserts u when it has no ID and otherwise rewrites all of its mutable
// columns. A unique violation on username, email or api_key yields
// ErrDuplicateUser; invalid users are rejected with a *models.ValidationError.
func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	if err := models.NewValidationError(u.Validate()); err != nil {
		return err
	}
	now := r.now().UTC().Truncate(time.Microsecond)
	if u.ID == 0 {
		return r.insert(ctx, u, now)
	}
	return r.update(ctx, u, now)
}

func (r *UserRepository) insert(ctx context.Context, u *models.User, now time.Time) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}

	query := "INSERT INTO users (username, email, password_hash, first_name, last_name, is_active, created_at, updated_at, api_key) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
	result, err := r.DB.ExecContext(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.IsActive,
		models.FormatTimestamp(u.CreatedAt),
		models.FormatTimestamp(now),
		u.APIKey,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateUser
		}
		r.logger.Error().Err(err).Msg("failed to insert user")
		return fmt.Errorf("could not insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("could not get last insert ID: %w", err)
	}
	u.ID = id
	u.UpdatedAt = &now

	r.logger.Debug().Int64("id", u.ID).Msg("inserted user")
	return nil
}

func (r *UserRepository) update(ctx context.Context, u *models.User, now time.Time) error {
	query := "UPDATE users SET username = ?, email = ?, password_hash = ?, first_name = ?, last_name = ?, is_active = ?, updated_at = ?, last_login = ?, api_key = ? WHERE id = ?"
	result, err := r.DB.ExecContext(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.IsActive,
		models.FormatTimestamp(now),
		models.FormatNullTimestamp(u.LastLogin),
		u.APIKey,
		u.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicateUser
		}
		r.logger.Error().Err(err).Int64("id", u.ID).Msg("failed to update user")
		return fmt.Errorf("could not update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	u.UpdatedAt = &now

	r.logger.Debug().Int64("id", u.ID).Msg("updated user")
	return nil
}

// FindByID returns the user with the given ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, "id", id)
}

// FindByUsername returns the user with the given username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username", username)
}

// FindByEmail returns the user with the given email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email", email)
}

// FindByAPIKey returns the user holding the given API key.
func (r *UserRepository) FindByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	if apiKey == "" {
		return nil, ErrUserNotFound
	}
	return r.findOne(ctx, "api_key", apiKey)
}

// findOne is only called with the column names above; the value is always bound.
func (r *UserRepository) findOne(ctx context.Context, column string, value any) (*models.User, error) {
	query := "SELECT " + models.UserColumns + " FROM users WHERE " + column + " = ?"

	u, err := models.ScanUser(r.DB.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		r.logger.Error().Err(err).Str("by", column).Msg("failed to query user")
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return u, nil
}

// FindAll returns every user ordered by ID.
func (r *UserRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	query := "SELECT " + models.UserColumns + " FROM users ORDER BY id"

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query users")
		return nil, fmt.Errorf("could not query users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := models.ScanUser(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan user")
			return nil, fmt.Errorf("could not scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
