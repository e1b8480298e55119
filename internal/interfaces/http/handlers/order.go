// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

// OrderHandler handles checkout and order endpoints
type OrderHandler struct {
	orderService *order.Service
	pdfService   *pdf.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, pdfService *pdf.Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		pdfService:   pdfService,
	}
}

// Checkout converts the user's cart into an order
// POST /api/v1/checkout
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	placed, err := h.orderService.PlaceOrder(userID)
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Cart is empty",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to place order",
		})
		return
	}

	c.JSON(http.StatusCreated, placed)
}

// Track retrieves one of the user's orders by its code
// GET /api/v1/orders/:code
func (h *OrderHandler) Track(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	code := c.Param("code")
	if !order.IsValidOrderCode(code) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order code format",
		})
		return
	}

	found, err := h.orderService.TrackOrder(userID, code)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return
	}

	c.JSON(http.StatusOK, found)
}

// List retrieves the user's orders, newest first
// GET /api/v1/orders
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.orderService.ListUserOrders(userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve orders",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Receipt streams a PDF receipt for one of the user's orders
// GET /api/v1/orders/:code/receipt
func (h *OrderHandler) Receipt(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	code := c.Param("code")
	if !order.IsValidOrderCode(code) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order code format",
		})
		return
	}

	found, err := h.orderService.TrackOrder(userID, code)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve order",
		})
		return
	}

	receipt, err := h.pdfService.GenerateReceipt(found)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate receipt",
		})
		return
	}

	filename := fmt.Sprintf("receipt-%d.pdf", found.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", receipt.Bytes())
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status order.OrderStatus `json:"status" binding:"required"`
}

// UpdateStatus sets an order's status (admin)
// PUT /api/v1/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.orderService.UpdateOrderStatus(uint(id), req.Status); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
	})
}
