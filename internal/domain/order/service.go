// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"gorm.io/gorm"
)

// Sentinel errors for outcomes the caller must distinguish
var (
	// ErrEmptyCart signals a normal rejection: there is nothing to place
	// an order for. No state changes when it is returned.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrOrderNotFound covers both a code that does not exist and a code
	// that belongs to another user, deliberately indistinguishable.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderCodeExhausted means no unique order code could be produced
	// within the retry ceiling. Treated as fatal.
	ErrOrderCodeExhausted = errors.New("order code generation exhausted retries")
)

// Service handles order business logic
type Service struct {
	db     *gorm.DB
	config *config.Config

	// newCodeSuffix produces candidate order-code suffixes; replaced in
	// tests to force collisions.
	newCodeSuffix func() (string, error)
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:            db,
		config:        cfg,
		newCodeSuffix: randomCodeSuffix,
	}
}

// OrderListResponse represents orders with pagination
type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// PlaceOrder converts the user's cart into an immutable order. The whole
// conversion runs in one transaction: the order and its items are created,
// the cart's items are deleted, and either all of it commits or none of it
// does. An empty cart returns ErrEmptyCart and changes nothing.
func (s *Service) PlaceOrder(userID uint) (*Order, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// Resolve or lazily create the user's cart
	var userCart cart.Cart
	if err := tx.Where(cart.Cart{UserID: userID}).FirstOrCreate(&userCart).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to resolve cart: %w", err)
	}

	var items []cart.CartItem
	if err := tx.Preload("Product").Where("cart_id = ?", userCart.ID).Find(&items).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to retrieve cart items: %w", err)
	}

	// Normal rejection, not an error: nothing to place an order for.
	// A concurrent checkout of the same cart lands here too, after the
	// first one cleared the items.
	if len(items) == 0 {
		tx.Rollback()
		return nil, ErrEmptyCart
	}

	total := cart.ComputeTotals(items).TotalPrice

	newOrder, err := s.createOrderWithUniqueCode(tx, userID, total)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, item := range items {
		orderItem := OrderItem{
			OrderID:     newOrder.ID,
			ProductName: productNameOf(item),
			Price:       item.Price,
			Quantity:    item.Quantity,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
		newOrder.Items = append(newOrder.Items, orderItem)
	}

	// The cart row persists, now empty
	if err := tx.Where("cart_id = ?", userCart.ID).Delete(&cart.CartItem{}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	return newOrder, nil
}

// TrackOrder retrieves an order with its items by (order code, user). A code
// that does not exist and a code owned by someone else both return
// ErrOrderNotFound so order existence never leaks to non-owners.
func (s *Service) TrackOrder(userID uint, orderCode string) (*Order, error) {
	var found Order
	result := s.db.Preload("Items").
		Where("order_code = ? AND user_id = ?", orderCode, userID).
		First(&found)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}

	return &found, nil
}

// ListUserOrders retrieves a user's orders, newest first, with pagination
func (s *Service) ListUserOrders(userID uint, page, limit int) (*OrderListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := s.db.Model(&Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	offset := (page - 1) * limit
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &OrderListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// UpdateOrderStatus sets an order's status (admin). Transitions are
// externally driven; only the status value itself is validated.
func (s *Service) UpdateOrderStatus(orderID uint, status OrderStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid order status: %s", status)
	}

	result := s.db.Model(&Order{}).Where("id = ?", orderID).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// createOrderWithUniqueCode creates the order row with a freshly drawn code.
// A candidate is checked against existing orders before use; a concurrent
// writer that wins the same code trips the unique index on insert, which is
// handled the same way as a pre-check collision: discard and redraw.
func (s *Service) createOrderWithUniqueCode(tx *gorm.DB, userID uint, total int64) (*Order, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		suffix, err := s.newCodeSuffix()
		if err != nil {
			return nil, fmt.Errorf("failed to generate order code: %w", err)
		}
		code := codePrefix + suffix

		var count int64
		if err := tx.Model(&Order{}).Where("order_code = ?", code).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check order code: %w", err)
		}
		if count > 0 {
			continue
		}

		newOrder := Order{
			OrderCode:  code,
			UserID:     userID,
			Status:     OrderStatusPending,
			TotalPrice: total,
		}

		// Savepoint so a unique violation aborts only this attempt, not
		// the surrounding checkout transaction.
		if err := tx.SavePoint("order_code").Error; err != nil {
			return nil, fmt.Errorf("failed to create savepoint: %w", err)
		}

		err = tx.Create(&newOrder).Error
		if err == nil {
			return &newOrder, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			tx.RollbackTo("order_code")
			continue
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return nil, ErrOrderCodeExhausted
}

// productNameOf returns the display name copied onto the order item. A cart
// item whose product vanished between add and checkout still gets a stable
// placeholder rather than failing the whole checkout.
func productNameOf(item cart.CartItem) string {
	if item.Product != nil {
		return item.Product.Name
	}
	return fmt.Sprintf("product #%d", item.ProductID)
}
