// internal/domain/wishlist/service.go
package wishlist

import (
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// Service handles wishlist business logic
type Service struct {
	db          *gorm.DB
	config      *config.Config
	cartService *cart.Service
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		config:      cfg,
		cartService: cart.NewService(db, cfg),
	}
}

// WishlistResponse represents a user's wishlist
type WishlistResponse struct {
	Items []WishlistItem `json:"items"`
	Count int            `json:"count"`
}

// ToggleResult reports what a toggle did
type ToggleResult struct {
	ProductID uint `json:"product_id"`
	Added     bool `json:"added"`
}

// Toggle adds the product to the wishlist if absent, removes it if present
func (s *Service) Toggle(userID, productID uint) (*ToggleResult, error) {
	var product catalog.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		return nil, fmt.Errorf("product not found")
	}

	var existing WishlistItem
	result := s.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&existing)

	if result.Error == gorm.ErrRecordNotFound {
		item := WishlistItem{
			UserID:    userID,
			ProductID: productID,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add item to wishlist: %w", err)
		}
		return &ToggleResult{ProductID: productID, Added: true}, nil
	} else if result.Error != nil {
		return nil, fmt.Errorf("failed to check wishlist: %w", result.Error)
	}

	if err := s.db.Delete(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to remove item from wishlist: %w", err)
	}
	return &ToggleResult{ProductID: productID, Added: false}, nil
}

// GetWishlist retrieves the user's wishlist with product details
func (s *Service) GetWishlist(userID uint) (*WishlistResponse, error) {
	var items []WishlistItem
	err := s.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist items: %w", err)
	}

	return &WishlistResponse{
		Items: items,
		Count: len(items),
	}, nil
}

// IsInWishlist checks if a product is in the user's wishlist
func (s *Service) IsInWishlist(userID, productID uint) (bool, error) {
	var count int64
	err := s.db.Model(&WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

// MoveToCart moves an item from the wishlist into the cart
func (s *Service) MoveToCart(userID, productID uint) error {
	inWishlist, err := s.IsInWishlist(userID, productID)
	if err != nil {
		return err
	}
	if !inWishlist {
		return fmt.Errorf("item not found in wishlist")
	}

	_, err = s.cartService.AddItem(userID, &cart.AddToCartRequest{
		ProductID: productID,
		Quantity:  1,
	})
	if err != nil {
		return fmt.Errorf("failed to add item to cart: %w", err)
	}

	return s.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&WishlistItem{}).Error
}
