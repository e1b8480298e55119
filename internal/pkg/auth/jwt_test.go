// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
)

func jwtTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "storefront-test"
	cfg.JWT.Secret = "test-secret-key-that-is-long-enough-32"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	return cfg
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	jm := NewJWTManager(jwtTestConfig())

	token, err := jm.GenerateAccessToken(7, "alice", true)
	require.NoError(t, err)

	claims, err := jm.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	jm := NewJWTManager(jwtTestConfig())

	refresh, err := jm.GenerateRefreshToken(7, "alice")
	require.NoError(t, err)

	_, err = jm.ValidateAccessToken(refresh)
	assert.Error(t, err)

	claims, err := jm.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	jm := NewJWTManager(jwtTestConfig())

	token, err := jm.GenerateAccessToken(7, "alice", false)
	require.NoError(t, err)

	otherCfg := jwtTestConfig()
	otherCfg.JWT.Secret = "another-secret-key-that-is-long-enough"
	other := NewJWTManager(otherCfg)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	cfg := jwtTestConfig()
	cfg.JWT.AccessTokenExpiry = -time.Minute
	jm := NewJWTManager(cfg)

	token, err := jm.GenerateAccessToken(7, "alice", false)
	require.NoError(t, err)

	_, err = jm.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("bearer abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader("abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader("Basic dXNlcjpwYXNz"))
	assert.Empty(t, ExtractTokenFromHeader(""))
}
