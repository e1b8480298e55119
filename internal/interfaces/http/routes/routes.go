// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes onto the given router group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	userService := user.NewService(db, cfg)
	catalogService := catalog.NewService(db, redisClient, cfg)
	cartService := cart.NewService(db, cfg)
	orderService := order.NewService(db, cfg)
	wishlistService := wishlist.NewService(db, cfg)
	pdfService := pdf.NewService(cfg)

	authHandler := handlers.NewAuthHandler(userService)
	productHandler := handlers.NewProductHandler(catalogService)
	categoryHandler := handlers.NewCategoryHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, pdfService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)

	setupAuthRoutes(rg, authHandler, cfg)
	setupCatalogRoutes(rg, productHandler, categoryHandler, cfg)
	setupCartRoutes(rg, cartHandler, cfg)
	setupOrderRoutes(rg, orderHandler, cfg)
	setupWishlistRoutes(rg, wishlistHandler, cfg)
	setupAdminRoutes(rg, productHandler, orderHandler, cfg)
}

// setupAuthRoutes sets up authentication related routes
func setupAuthRoutes(rg *gin.RouterGroup, h *handlers.AuthHandler, cfg *config.Config) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", h.Profile)
		}
	}
}

// setupCatalogRoutes sets up public catalog browsing routes
func setupCatalogRoutes(rg *gin.RouterGroup, products *handlers.ProductHandler, categories *handlers.CategoryHandler, cfg *config.Config) {
	p := rg.Group("/products")
	p.Use(middleware.OptionalAuthMiddleware(cfg)) // Optional auth for personalization
	{
		p.GET("", products.List)
		p.GET("/:id", products.Get)
	}

	rg.GET("/categories", categories.Tree)
}

// setupCartRoutes sets up cart routes, all requiring authentication
func setupCartRoutes(rg *gin.RouterGroup, h *handlers.CartHandler, cfg *config.Config) {
	c := rg.Group("/cart")
	c.Use(middleware.AuthMiddleware(cfg))
	{
		c.GET("", h.Get)
		c.DELETE("", h.Clear)
		c.GET("/count", h.Count)
		c.POST("/items", h.AddItem)
		c.PUT("/items/:product_id", h.UpdateItem)
		c.DELETE("/items/:product_id", h.RemoveItem)
	}
}

// setupOrderRoutes sets up checkout and order tracking routes
func setupOrderRoutes(rg *gin.RouterGroup, h *handlers.OrderHandler, cfg *config.Config) {
	checkout := rg.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(cfg))
	{
		checkout.POST("", h.Checkout)
	}

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", h.List)
		orders.GET("/:code", h.Track)
		orders.GET("/:code/receipt", h.Receipt)
	}
}

// setupWishlistRoutes sets up wishlist routes, all requiring authentication
func setupWishlistRoutes(rg *gin.RouterGroup, h *handlers.WishlistHandler, cfg *config.Config) {
	w := rg.Group("/wishlist")
	w.Use(middleware.AuthMiddleware(cfg))
	{
		w.GET("", h.Get)
		w.POST("/:product_id/toggle", h.Toggle)
		w.POST("/:product_id/move-to-cart", h.MoveToCart)
	}
}

// setupAdminRoutes sets up admin-only management routes
func setupAdminRoutes(rg *gin.RouterGroup, products *handlers.ProductHandler, orders *handlers.OrderHandler, cfg *config.Config) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/products", products.Create)
		admin.PUT("/products/:id", products.Update)
		admin.DELETE("/products/:id", products.Delete)

		admin.PUT("/orders/:id/status", orders.UpdateStatus)
	}
}
