// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlistService *wishlist.Service
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService *wishlist.Service) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
	}
}

// Get returns the user's wishlist
// GET /api/v1/wishlist
func (h *WishlistHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	resp, err := h.wishlistService.GetWishlist(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve wishlist",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Toggle adds the product to the wishlist if absent, removes it if present
// POST /api/v1/wishlist/:product_id/toggle
func (h *WishlistHandler) Toggle(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	result, err := h.wishlistService.Toggle(userID, uint(productID))
	if err != nil {
		if err.Error() == "product not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update wishlist",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// MoveToCart moves a wishlist item into the cart
// POST /api/v1/wishlist/:product_id/move-to-cart
func (h *WishlistHandler) MoveToCart(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.wishlistService.MoveToCart(userID, uint(productID)); err != nil {
		if err.Error() == "item not found in wishlist" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to move item to cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item moved to cart successfully",
	})
}
