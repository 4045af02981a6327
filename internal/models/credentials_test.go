package models_test

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/backend/internal/models"
)

func TestSetPassword_SaltHashFormat(t *testing.T) {
	var u models.User
	require.NoError(t, u.SetPassword("password123"))

	salt, hash, ok := strings.Cut(u.PasswordHash, ":")
	require.True(t, ok, "stored value must be salt:hash")

	saltBytes, err := hex.DecodeString(salt)
	require.NoError(t, err)
	assert.Len(t, saltBytes, 16)
	_, err = hex.DecodeString(hash)
	assert.NoError(t, err)
	assert.NotContains(t, u.PasswordHash, "password123")
}

func TestSetPassword_FreshSaltEachTime(t *testing.T) {
	var a, b models.User
	require.NoError(t, a.SetPassword("same"))
	require.NoError(t, b.SetPassword("same"))
	assert.NotEqual(t, a.PasswordHash, b.PasswordHash)
}

func TestCheckPassword(t *testing.T) {
	var u models.User
	require.NoError(t, u.SetPassword("password123"))

	assert.True(t, u.CheckPassword("password123"))
	assert.False(t, u.CheckPassword("password124"))
	assert.False(t, u.CheckPassword(""))
	assert.False(t, u.CheckPassword("PASSWORD123"))
}

func TestCheckPassword_EmptyOrMalformedHash(t *testing.T) {
	for _, stored := range []string{"", "nocolon", "salt:", "abc123:5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"} {
		u := models.User{PasswordHash: stored}
		assert.False(t, u.CheckPassword("password"), "stored=%q", stored)
	}
}

func TestGenerateAPIKey(t *testing.T) {
	var u models.User
	key, err := u.GenerateAPIKey()
	require.NoError(t, err)

	require.NotNil(t, u.APIKey)
	assert.Equal(t, key, *u.APIKey)

	raw, err := base64.RawURLEncoding.DecodeString(key)
	require.NoError(t, err, "key must be URL-safe base64")
	assert.Len(t, raw, 32)

	second, err := u.GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, second)
}
