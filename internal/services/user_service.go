package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"taskflow/backend/internal/models"
	"taskflow/backend/internal/repositories"
)

// UserService handles user creation, lookup and API keys.
type UserService struct {
	userRepo *repositories.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a UserService.
func NewUserService(userRepo *repositories.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "users").Logger(),
	}
}

// CreateUser hashes the plaintext password and stores the new user.
// The response never carries the hash.
func (s *UserService) CreateUser(ctx context.Context, req models.UserCreateRequest) (*models.UserResponse, error) {
	newUser := models.NewUser(req)
	if req.Password != "" {
		if err := newUser.SetPassword(req.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	if err := s.userRepo.Save(ctx, newUser); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("id", newUser.ID).Str("username", newUser.Username).Msg("created user")
	resp := newUser.ToResponse()
	return &resp, nil
}

// GetUsers lists every user.
func (s *UserService) GetUsers(ctx context.Context) ([]models.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, u.ToResponse())
	}
	return resp, nil
}

// GetUserByID returns repositories.ErrUserNotFound when no user has id.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.UserResponse, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := u.ToResponse()
	return &resp, nil
}

// GenerateAPIKey issues a new API key for the user, replacing any previous one.
func (s *UserService) GenerateAPIKey(ctx context.Context, id int64) (string, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	key, err := u.GenerateAPIKey()
	if err != nil {
		return "", err
	}
	if err := s.userRepo.Save(ctx, u); err != nil {
		return "", err
	}

	s.logger.Info().Int64("id", u.ID).Msg("generated api key")
	return key, nil
}

// AuthenticateAPIKey resolves an API key to an active user. Unknown keys and
// inactive users both yield repositories.ErrUserNotFound.
func (s *UserService) AuthenticateAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	u, err := s.userRepo.FindByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}
