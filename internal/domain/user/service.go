// internal/domain/user/service.go
package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	jwtManager      *auth.JWTManager
	passwordManager *auth.PasswordManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		jwtManager:      auth.NewJWTManager(cfg),
		passwordManager: auth.NewPasswordManager(cfg),
	}
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse represents a successful authentication
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates a new user account and signs them in
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	var count int64
	if err := s.db.Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("username already exists")
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	newUser := User{
		Username: username,
		Email:    req.Email,
		Password: hashedPassword,
		IsActive: true,
	}

	if err := s.db.Create(&newUser).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(&newUser)
}

// Login authenticates a user by username and password
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	var existing User
	result := s.db.Where("username = ?", username).First(&existing)
	if result.Error != nil {
		return nil, fmt.Errorf("invalid username or password")
	}

	if !existing.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	if err := s.passwordManager.VerifyPassword(req.Password, existing.Password); err != nil {
		return nil, fmt.Errorf("invalid username or password")
	}

	now := time.Now().UTC()
	s.db.Model(&existing).Update("last_login_at", now)

	return s.issueTokens(&existing)
}

// Refresh exchanges a valid refresh token for a fresh token pair
func (s *Service) Refresh(req *RefreshRequest) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	var existing User
	if err := s.db.First(&existing, claims.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found")
	}

	if !existing.IsActive {
		return nil, fmt.Errorf("account is deactivated")
	}

	return s.issueTokens(&existing)
}

// GetProfile retrieves a user by ID
func (s *Service) GetProfile(userID uint) (*User, error) {
	var existing User
	result := s.db.First(&existing, userID)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", result.Error)
	}
	return &existing, nil
}

func (s *Service) issueTokens(u *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
