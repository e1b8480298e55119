// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// Cart represents a user's cart. One cart per user, created lazily on the
// first cart interaction and kept after checkout empties it.
type Cart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// CartItem represents a single product line in a cart. At most one row per
// (cart, product) pair; Price is the snapshot taken when the item was added
// and never follows later catalog changes.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Price     int64     `gorm:"not null" json:"price"` // Snapshot in cents at add time
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Product *catalog.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount     int   `json:"item_count"`     // Number of unique items
	TotalQuantity int   `json:"total_quantity"` // Sum of all quantities
	TotalPrice    int64 `json:"total_price"`    // Sum of line totals in cents
}

// ComputeTotals calculates cart totals from loaded items. Pure function,
// no storage access.
func ComputeTotals(items []CartItem) CartTotals {
	var totals CartTotals
	totals.ItemCount = len(items)
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.TotalPrice += item.Price * int64(item.Quantity)
	}
	return totals
}
