// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

const categoryTreeCacheKey = "catalog:category_tree"

// Service handles catalog business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page          int    `form:"page,default=1"`
	Limit         int    `form:"limit"`
	CategoryID    *uint  `form:"category"`
	SubCategoryID *uint  `form:"subcategory"`
	Search        string `form:"item_name"`
}

// ProductListResponse represents products with pagination
type ProductListResponse struct {
	Products   []Product  `json:"products"`
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

// CreateProductRequest represents admin product creation data
type CreateProductRequest struct {
	Name          string `json:"name" binding:"required"`
	Price         int64  `json:"price" binding:"required,min=1"`
	Discount      int64  `json:"discount"`
	CategoryID    *uint  `json:"category_id"`
	SubCategoryID *uint  `json:"subcategory_id"`
	Description   string `json:"description"`
	ImageURL      string `json:"image_url"`
}

// UpdateProductRequest represents admin product update data
type UpdateProductRequest struct {
	Name          *string `json:"name"`
	Price         *int64  `json:"price"`
	Discount      *int64  `json:"discount"`
	CategoryID    *uint   `json:"category_id"`
	SubCategoryID *uint   `json:"subcategory_id"`
	Description   *string `json:"description"`
	ImageURL      *string `json:"image_url"`
}

// ListProducts retrieves products with category/subcategory filters, name
// search and pagination
func (s *Service) ListProducts(req *ProductListRequest) (*ProductListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = s.config.Catalog.PageSize
	}

	query := s.db.Model(&Product{}).Preload("Category").Preload("SubCategory")

	if req.CategoryID != nil {
		query = query.Where("category_id = ?", *req.CategoryID)
	}

	if req.SubCategoryID != nil {
		query = query.Where("sub_category_id = ?", *req.SubCategoryID)
	}

	if req.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+req.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ProductListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	result := s.db.Preload("Category").Preload("SubCategory").First(&product, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// GetCategoryTree retrieves all categories with their subcategories, cached
// in Redis for the configured TTL
func (s *Service) GetCategoryTree(ctx context.Context) ([]Category, error) {
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, categoryTreeCacheKey).Result(); err == nil {
			var categories []Category
			if err := json.Unmarshal([]byte(cached), &categories); err == nil {
				return categories, nil
			}
		}
	}

	var categories []Category
	if err := s.db.Preload("SubCategories").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(categories); err == nil {
			s.redisClient.Set(ctx, categoryTreeCacheKey, data, s.config.Catalog.CategoryCacheTTL)
		}
	}

	return categories, nil
}

// CreateProduct creates a new product (admin)
func (s *Service) CreateProduct(req *CreateProductRequest) (*Product, error) {
	product := Product{
		Name:          req.Name,
		Price:         req.Price,
		Discount:      req.Discount,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}

// UpdateProduct updates an existing product (admin)
func (s *Service) UpdateProduct(id uint, req *UpdateProductRequest) (*Product, error) {
	var product Product
	if err := s.db.First(&product, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Discount != nil {
		updates["discount"] = *req.Discount
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.SubCategoryID != nil {
		updates["sub_category_id"] = *req.SubCategoryID
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return &product, nil
}

// DeleteProduct soft-deletes a product (admin)
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product not found")
	}
	return nil
}
