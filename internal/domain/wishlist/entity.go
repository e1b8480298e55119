// internal/domain/wishlist/entity.go
package wishlist

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// WishlistItem represents a wishlist item
type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_user_product" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Product *catalog.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName overrides the table name
func (WishlistItem) TableName() string {
	return "wishlist_items"
}
