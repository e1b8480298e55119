// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents the user entity
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"uniqueIndex;not null;size:150" json:"username"`
	Email       string         `gorm:"size:255" json:"email"`
	Password    string         `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	IsAdmin     bool           `gorm:"default:false" json:"is_admin"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to normalize identifiers before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}
