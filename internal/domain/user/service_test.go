// internal/domain/user/service_test.go
package user

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&User{}))

	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "storefront-test"
	cfg.JWT.Secret = "test-secret-key-that-is-long-enough-32"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	cfg.Security.BcryptCost = bcrypt.MinCost
	return cfg
}

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{
		Username: "Alice",
		Password: "sturdy1password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// Username is normalized to lowercase
	assert.Equal(t, "alice", resp.User.Username)
	assert.True(t, resp.User.IsActive)
	assert.False(t, resp.User.IsAdmin)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.Register(&RegisterRequest{Username: "alice", Password: "sturdy1password"})
	require.NoError(t, err)

	// Case-insensitive collision
	_, err = svc.Register(&RegisterRequest{Username: "ALICE", Password: "other1password"})
	assert.Error(t, err)
}

func TestRegisterWeakPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.Register(&RegisterRequest{Username: "alice", Password: "short"})
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.Register(&RegisterRequest{Username: "alice", Password: "sturdy1password"})
	require.NoError(t, err)

	resp, err := svc.Login(&LoginRequest{Username: "Alice", Password: "sturdy1password"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotNil(t, resp.User.LastLoginAt)

	_, err = svc.Login(&LoginRequest{Username: "alice", Password: "wrong1password"})
	assert.Error(t, err)

	_, err = svc.Login(&LoginRequest{Username: "nobody", Password: "sturdy1password"})
	assert.Error(t, err)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{Username: "alice", Password: "sturdy1password"})
	require.NoError(t, err)

	require.NoError(t, db.Model(&User{}).Where("id = ?", resp.User.ID).
		Update("is_active", false).Error)

	_, err = svc.Login(&LoginRequest{Username: "alice", Password: "sturdy1password"})
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	registered, err := svc.Register(&RegisterRequest{Username: "alice", Password: "sturdy1password"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(&RefreshRequest{RefreshToken: registered.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token cannot be used as a refresh token
	_, err = svc.Refresh(&RefreshRequest{RefreshToken: registered.AccessToken})
	assert.Error(t, err)
}

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	registered, err := svc.Register(&RegisterRequest{Username: "alice", Password: "sturdy1password"})
	require.NoError(t, err)

	profile, err := svc.GetProfile(registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	_, err = svc.GetProfile(9999)
	assert.Error(t, err)
}
