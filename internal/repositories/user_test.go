package repositories_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/backend/internal/models"
	"taskflow/backend/internal/repositories"
	"taskflow/backend/testutil"
)

func newUserRepo(t *testing.T, seed bool) *repositories.UserRepository {
	t.Helper()
	return repositories.NewUserRepository(testutil.OpenTestDB(t, seed), zerolog.Nop())
}

func newTestUser(t *testing.T, username, email string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: email, FirstName: "Test", IsActive: true}
	require.NoError(t, u.SetPassword("password123"))
	return u
}

func TestUserSave_InsertThenLookups(t *testing.T) {
	repo := newUserRepo(t, false)
	ctx := context.Background()

	u := newTestUser(t, "alice", "alice@example.com")
	require.NoError(t, repo.Save(ctx, u))
	require.NotZero(t, u.ID)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Equal(t, "Test", byID.FirstName)
	assert.True(t, byID.IsActive)
	assert.False(t, byID.CreatedAt.IsZero())
	assert.True(t, byID.CheckPassword("password123"))
	assert.Nil(t, byID.APIKey)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestUserSave_DuplicateIsConflict(t *testing.T) {
	repo := newUserRepo(t, false)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestUser(t, "alice", "alice@example.com")))

	err := repo.Save(ctx, newTestUser(t, "alice", "other@example.com"))
	assert.ErrorIs(t, err, repositories.ErrDuplicateUser)

	err = repo.Save(ctx, newTestUser(t, "alice2", "alice@example.com"))
	assert.ErrorIs(t, err, repositories.ErrDuplicateUser)

	users, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1, "no duplicate row may be written")
}

func TestUserSave_RejectsInvalid(t *testing.T) {
	repo := newUserRepo(t, false)

	err := repo.Save(context.Background(), &models.User{Username: "al", Email: "nope"})

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{models.MsgUsernameTooShort, models.MsgEmailInvalid, models.MsgPasswordRequired}, validationErr.Errors)
}

func TestUserSave_UpdatePersistsAPIKey(t *testing.T) {
	repo := newUserRepo(t, false)
	ctx := context.Background()

	u := newTestUser(t, "alice", "alice@example.com")
	require.NoError(t, repo.Save(ctx, u))

	key, err := u.GenerateAPIKey()
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, u))

	found, err := repo.FindByAPIKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func TestUserFindByAPIKey_Unknown(t *testing.T) {
	repo := newUserRepo(t, true)
	ctx := context.Background()

	_, err := repo.FindByAPIKey(ctx, "does-not-exist")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)

	_, err = repo.FindByAPIKey(ctx, "")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestUserFindByUsername_ValueIsBound(t *testing.T) {
	repo := newUserRepo(t, true)

	_, err := repo.FindByUsername(context.Background(), "' OR '1'='1")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestUserFindAll_Seeded(t *testing.T) {
	repo := newUserRepo(t, true)

	users, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "john_doe", users[0].Username)
	assert.Equal(t, "jane_smith", users[1].Username)
	assert.Equal(t, "bob_johnson", users[2].Username)
}
