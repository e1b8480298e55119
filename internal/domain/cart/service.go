// internal/domain/cart/service.go
package cart

import (
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CartResponse represents a cart with items and totals
type CartResponse struct {
	ID     uint       `json:"id"`
	UserID uint       `json:"user_id"`
	Items  []CartItem `json:"items"`
	Totals CartTotals `json:"totals"`
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"omitempty,min=1"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0"`
}

// GetOrCreateCart resolves the user's cart, creating it lazily on first use
func (s *Service) GetOrCreateCart(userID uint) (*Cart, error) {
	var userCart Cart
	err := s.db.Where(Cart{UserID: userID}).FirstOrCreate(&userCart).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart: %w", err)
	}
	return &userCart, nil
}

// GetCart retrieves the user's cart with items, product details and totals
func (s *Service) GetCart(userID uint) (*CartResponse, error) {
	userCart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	var items []CartItem
	err = s.db.Preload("Product").
		Where("cart_id = ?", userCart.ID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart items: %w", err)
	}

	return &CartResponse{
		ID:     userCart.ID,
		UserID: userID,
		Items:  items,
		Totals: ComputeTotals(items),
	}, nil
}

// AddItem adds a product to the cart. Re-adding a product already in the
// cart increments its quantity; the price snapshot from the first add is
// kept.
func (s *Service) AddItem(userID uint, req *AddToCartRequest) (*CartResponse, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	var product catalog.Product
	if err := s.db.First(&product, req.ProductID).Error; err != nil {
		return nil, fmt.Errorf("product not found")
	}

	userCart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	var existingItem CartItem
	result := s.db.Where("cart_id = ? AND product_id = ?", userCart.ID, req.ProductID).First(&existingItem)

	if result.Error == gorm.ErrRecordNotFound {
		newItem := CartItem{
			CartID:    userCart.ID,
			ProductID: req.ProductID,
			Quantity:  quantity,
			Price:     product.Price, // Snapshot at add time
		}
		if err := s.db.Create(&newItem).Error; err != nil {
			return nil, fmt.Errorf("failed to add item to cart: %w", err)
		}
	} else if result.Error != nil {
		return nil, fmt.Errorf("failed to check cart item: %w", result.Error)
	} else {
		existingItem.Quantity += quantity
		if err := s.db.Save(&existingItem).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	}

	return s.GetCart(userID)
}

// UpdateItemQuantity sets the quantity of a cart item; zero removes it
func (s *Service) UpdateItemQuantity(userID, productID uint, quantity int) (*CartResponse, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	userCart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		result := s.db.Where("cart_id = ? AND product_id = ?", userCart.ID, productID).Delete(&CartItem{})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to remove cart item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("item not found in cart")
		}
	} else {
		result := s.db.Model(&CartItem{}).
			Where("cart_id = ? AND product_id = ?", userCart.ID, productID).
			Update("quantity", quantity)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("item not found in cart")
		}
	}

	return s.GetCart(userID)
}

// RemoveItem removes a product from the cart
func (s *Service) RemoveItem(userID, productID uint) (*CartResponse, error) {
	return s.UpdateItemQuantity(userID, productID, 0)
}

// ClearCart removes all items from the cart; the cart row itself persists
func (s *Service) ClearCart(userID uint) error {
	userCart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return err
	}
	return s.db.Where("cart_id = ?", userCart.ID).Delete(&CartItem{}).Error
}

// GetCartItemCount returns the total quantity across the user's cart
func (s *Service) GetCartItemCount(userID uint) (int, error) {
	cartResponse, err := s.GetCart(userID)
	if err != nil {
		return 0, err
	}
	return cartResponse.Totals.TotalQuantity, nil
}
