package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MsgUsernameRequired = "Username is required"
	MsgUsernameTooShort = "Username must be at least 3 characters"
	MsgEmailInvalid     = "Valid email is required"
	MsgPasswordRequired = "Password is required"
)

// MinUsernameLength is the shortest accepted username.
const MinUsernameLength = 3

// UserColumns is the fixed column order ScanUser expects.
const UserColumns = "id, username, email, password_hash, first_name, last_name, is_active, created_at, updated_at, last_login, api_key"

// User is a row of the users table. PasswordHash holds "salt:hash" and never
// leaves the process; see ToResponse.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	LastLogin    *time.Time
	APIKey       *string
}

// UserResponse is the external representation of a User.
type UserResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	IsActive  bool       `json:"is_active"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	LastLogin *time.Time `json:"last_login"`
}

// UserCreateRequest is the payload accepted by POST /users.
type UserCreateRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"` // plaintext, hashed before storage
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  *bool  `json:"is_active"`
}

// APIKeyResponse is returned once, when a key is generated.
type APIKeyResponse struct {
	APIKey string `json:"api_key"`
}

// NewUser builds a user from a create payload. The password is not copied;
// callers must run SetPassword.
func NewUser(req UserCreateRequest) *User {
	u := &User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	return u
}

// Validate returns the problems with u in a stable order.
func (u *User) Validate() []string {
	var errs []string

	if strings.TrimSpace(u.Username) == "" {
		errs = append(errs, MsgUsernameRequired)
	}
	if utf8.RuneCountInString(u.Username) < MinUsernameLength {
		errs = append(errs, MsgUsernameTooShort)
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		errs = append(errs, MsgEmailInvalid)
	}
	if u.PasswordHash == "" {
		errs = append(errs, MsgPasswordRequired)
	}

	return errs
}

// ToResponse omits the password hash and the API key.
func (u *User) ToResponse() UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		UpdatedAt: u.UpdatedAt,
		LastLogin: u.LastLogin,
	}
	if !u.CreatedAt.IsZero() {
		createdAt := u.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

// ScanUser maps a row selected with UserColumns onto a User.
// Scan errors, including sql.ErrNoRows, are returned unwrapped.
func ScanUser(row RowScanner) (*User, error) {
	var (
		u         User
		firstName sql.NullString
		lastName  sql.NullString
		isActive  sql.NullInt64
		createdAt sql.NullString
		updatedAt sql.NullString
		lastLogin sql.NullString
		apiKey    sql.NullString
	)

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&firstName,
		&lastName,
		&isActive,
		&createdAt,
		&updatedAt,
		&lastLogin,
		&apiKey,
	)
	if err != nil {
		return nil, err
	}

	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.IsActive = !isActive.Valid || isActive.Int64 != 0
	if apiKey.Valid {
		u.APIKey = &apiKey.String
	}

	created, err := ParseNullTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("user %d created_at: %w", u.ID, err)
	}
	if created != nil {
		u.CreatedAt = *created
	}
	if u.UpdatedAt, err = ParseNullTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("user %d updated_at: %w", u.ID, err)
	}
	if u.LastLogin, err = ParseNullTimestamp(lastLogin); err != nil {
		return nil, fmt.Errorf("user %d last_login: %w", u.ID, err)
	}

	return &u, nil
}
