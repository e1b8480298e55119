// internal/pkg/auth/password_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Security.BcryptCost = bcrypt.MinCost
	return cfg
}

func TestValidatePassword(t *testing.T) {
	pm := NewPasswordManager(testConfig())

	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid", "sturdy1password", true},
		{"minimum length", "abcdef12", true},
		{"too short", "abc123", false},
		{"no numbers", "justletters", false},
		{"no letters", "1234567890", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pm.ValidatePassword(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	pm := NewPasswordManager(testConfig())

	hash, err := pm.HashPassword("sturdy1password")
	require.NoError(t, err)
	assert.NotEqual(t, "sturdy1password", hash)

	assert.NoError(t, pm.VerifyPassword("sturdy1password", hash))
	assert.Error(t, pm.VerifyPassword("wrong1password", hash))
}

func TestHashPasswordRejectsWeakPassword(t *testing.T) {
	pm := NewPasswordManager(testConfig())

	_, err := pm.HashPassword("short")
	assert.Error(t, err)
}
