// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Category represents a top-level product category
type Category struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null;size:200" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	SubCategories []SubCategory `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"subcategories,omitempty"`
}

// SubCategory represents a second-level category nested under a Category
type SubCategory struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"not null;size:200" json:"name"`
	CategoryID uint           `gorm:"not null;index" json:"category_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Product represents the product entity
type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null;size:200" json:"name"`
	Price         int64          `gorm:"not null" json:"price"` // Price in cents
	Discount      int64          `gorm:"default:0" json:"discount"`
	CategoryID    *uint          `gorm:"index" json:"category_id"`
	SubCategoryID *uint          `gorm:"index" json:"subcategory_id"`
	Description   string         `gorm:"type:text" json:"description"`
	ImageURL      string         `gorm:"size:1000" json:"image_url"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category    *Category    `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
	SubCategory *SubCategory `gorm:"foreignKey:SubCategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"subcategory,omitempty"`
}

// TableName overrides
func (Category) TableName() string    { return "categories" }
func (SubCategory) TableName() string { return "subcategories" }
func (Product) TableName() string     { return "products" }
