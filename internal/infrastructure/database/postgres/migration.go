// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&user.User{},

		&catalog.Category{},
		&catalog.SubCategory{},
		&catalog.Product{},

		&cart.Cart{},
		&cart.CartItem{},

		&order.Order{},
		&order.OrderItem{},

		&wishlist.WishlistItem{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_username_active ON users(username, is_active)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_subcategory ON products(sub_category_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_name_lower ON products(LOWER(name))",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items(cart_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",

		// Wishlist indexes
		"CREATE INDEX IF NOT EXISTS idx_wishlist_items_user ON wishlist_items(user_id)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedCategories creates the default category/subcategory tree
func (m *Migration) seedCategories() error {
	tree := map[string][]string{
		"Electronics & Gadgets": {"Mobiles", "Laptops", "Tablets", "Audio", "Cameras", "Gaming"},
		"Fashion":               {"Men", "Women", "Kids", "Sportswear", "Accessories"},
		"Home & Living":         {"Furniture", "Decor", "Kitchen", "Lighting"},
		"Beauty & Care":         {"Skincare", "Haircare", "Makeup", "Fragrances"},
		"Sports & Outdoors":     {"Fitness", "Cycling", "Sports Gear", "Gym Equipment"},
		"Books, Music & Media":  {"Books", "E-books", "Music", "Movies", "Games"},
		"Automotive & Tools":    {"Car Accessories", "Bike Accessories", "Tools", "Car Care"},
		"Pet Supplies":          {"Food", "Accessories", "Toys"},
		"Others":                {},
	}

	for name, subs := range tree {
		var category catalog.Category
		if err := m.db.Where(catalog.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("failed to seed category %q: %w", name, err)
		}

		for _, sub := range subs {
			var subCategory catalog.SubCategory
			err := m.db.Where(catalog.SubCategory{Name: sub, CategoryID: category.ID}).
				FirstOrCreate(&subCategory).Error
			if err != nil {
				return fmt.Errorf("failed to seed subcategory %q: %w", sub, err)
			}
		}
	}

	return nil
}
