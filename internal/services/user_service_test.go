package services_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/backend/internal/models"
	"taskflow/backend/internal/repositories"
	"taskflow/backend/internal/services"
	"taskflow/backend/testutil"
)

func newUserService(t *testing.T, seed bool) (*services.UserService, *repositories.UserRepository) {
	t.Helper()
	repo := repositories.NewUserRepository(testutil.OpenTestDB(t, seed), zerolog.Nop())
	return services.NewUserService(repo, zerolog.Nop()), repo
}

func TestCreateUser_HashesPassword(t *testing.T) {
	svc, repo := newUserService(t, false)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, models.UserCreateRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "s3cret-pass",
		FirstName: "Alice",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
	assert.Equal(t, "Alice", created.FirstName)

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.PasswordHash, "s3cret-pass")
	assert.True(t, stored.CheckPassword("s3cret-pass"))
	assert.False(t, stored.CheckPassword("wrong"))
}

func TestCreateUser_Conflict(t *testing.T) {
	svc, _ := newUserService(t, true)

	_, err := svc.CreateUser(context.Background(), models.UserCreateRequest{
		Username: "john_doe",
		Email:    "someone@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicateUser)
}

func TestCreateUser_Validation(t *testing.T) {
	svc, _ := newUserService(t, false)

	_, err := svc.CreateUser(context.Background(), models.UserCreateRequest{
		Username: "al",
		Email:    "alice.example.com",
		Password: "password123",
	})

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{models.MsgUsernameTooShort, models.MsgEmailInvalid}, validationErr.Errors)
}

func TestGetUsers_AndByID(t *testing.T) {
	svc, _ := newUserService(t, true)
	ctx := context.Background()

	users, err := svc.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)

	one, err := svc.GetUserByID(ctx, users[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "jane_smith", one.Username)

	_, err = svc.GetUserByID(ctx, 9999)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestGenerateAPIKey_AndAuthenticate(t *testing.T) {
	svc, repo := newUserService(t, true)
	ctx := context.Background()

	john, err := repo.FindByUsername(ctx, "john_doe")
	require.NoError(t, err)

	key, err := svc.GenerateAPIKey(ctx, john.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	authed, err := svc.AuthenticateAPIKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, john.ID, authed.ID)

	rotated, err := svc.GenerateAPIKey(ctx, john.ID)
	require.NoError(t, err)
	_, err = svc.AuthenticateAPIKey(ctx, key)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound, "old key stops working after rotation")
	_, err = svc.AuthenticateAPIKey(ctx, rotated)
	assert.NoError(t, err)

	_, err = svc.GenerateAPIKey(ctx, 9999)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestAuthenticateAPIKey_InactiveUser(t *testing.T) {
	svc, repo := newUserService(t, false)
	ctx := context.Background()

	inactive := false
	created, err := svc.CreateUser(ctx, models.UserCreateRequest{
		Username: "dormant",
		Email:    "dormant@example.com",
		Password: "password123",
		IsActive: &inactive,
	})
	require.NoError(t, err)

	key, err := svc.GenerateAPIKey(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.AuthenticateAPIKey(ctx, key)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)

	stored, err := repo.FindByAPIKey(ctx, key)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}
