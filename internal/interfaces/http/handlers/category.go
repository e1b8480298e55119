// internal/interfaces/http/handlers/category.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	catalogService *catalog.Service
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(catalogService *catalog.Service) *CategoryHandler {
	return &CategoryHandler{
		catalogService: catalogService,
	}
}

// Tree returns all categories with their subcategories
// GET /api/v1/categories
func (h *CategoryHandler) Tree(c *gin.Context) {
	categories, err := h.catalogService.GetCategoryTree(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}
