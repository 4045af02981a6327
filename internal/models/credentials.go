package models

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	saltBytes   = 16
	apiKeyBytes = 32

	// argon2id parameters (19 MiB, 2 passes, 1 lane).
	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
	argonKeyLen  = 32
)

// SetPassword stores plaintext as "salt:hash", where salt is 16 random bytes
// hex-encoded and hash is the hex argon2id digest of plaintext under that salt.
func (u *User) SetPassword(plaintext string) error {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	u.PasswordHash = saltHex + ":" + hashPassword(plaintext, saltHex)
	return nil
}

// CheckPassword reports whether plaintext matches the stored hash. An empty or
// malformed hash never matches.
func (u *User) CheckPassword(plaintext string) bool {
	salt, stored, ok := strings.Cut(u.PasswordHash, ":")
	if !ok || stored == "" {
		return false
	}
	computed := hashPassword(plaintext, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}

// GenerateAPIKey replaces the user's API key with a fresh URL-safe token and returns it.
func (u *User) GenerateAPIKey() (string, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	key := base64.RawURLEncoding.EncodeToString(buf)
	u.APIKey = &key
	return key, nil
}

func hashPassword(plaintext, salt string) string {
	key := argon2.IDKey([]byte(plaintext), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key)
}
