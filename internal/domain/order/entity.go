// internal/domain/order/entity.go
package order

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid reports whether the status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents an immutable record of a completed purchase. Only the
// status changes after creation, driven by administrative action.
type Order struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OrderCode  string         `gorm:"uniqueIndex;not null;size:20" json:"order_code"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	Status     OrderStatus    `gorm:"not null;default:'pending'" json:"status"`
	TotalPrice int64          `gorm:"not null" json:"total_price"` // In cents
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem represents a line in an order. Product name and price are copied
// from the cart item at checkout time, so later catalog edits or product
// deletion cannot alter historical order content.
type OrderItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	ProductName string    `gorm:"not null;size:200" json:"product_name"`
	Price       int64     `gorm:"not null" json:"price"` // Per unit in cents
	Quantity    int       `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LineTotal returns price multiplied by quantity
func (i *OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }
