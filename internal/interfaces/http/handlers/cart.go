// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// Get returns the user's cart with items and totals
// GET /api/v1/cart
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	resp, err := h.cartService.GetCart(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AddItem adds a product to the cart
// POST /api/v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.cartService.AddItem(userID, &req)
	if err != nil {
		if err.Error() == "product not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateItem sets the quantity of a cart item; zero removes it
// PUT /api/v1/cart/items/:product_id
func (h *CartHandler) UpdateItem(c *gin.Context) {
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

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.cartService.UpdateItemQuantity(userID, uint(productID), *req.Quantity)
	if err != nil {
		if err.Error() == "item not found in cart" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart item",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RemoveItem removes a product from the cart
// DELETE /api/v1/cart/items/:product_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
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

	resp, err := h.cartService.RemoveItem(userID, uint(productID))
	if err != nil {
		if err.Error() == "item not found in cart" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove cart item",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Clear removes all items from the cart
// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.cartService.ClearCart(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

// Count returns the total quantity across the user's cart
// GET /api/v1/cart/count
func (h *CartHandler) Count(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	count, err := h.cartService.GetCartItemCount(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart count",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": count,
	})
}
