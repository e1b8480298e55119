// internal/domain/wishlist/service_test.go
package wishlist

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalog.Category{},
		&catalog.SubCategory{},
		&catalog.Product{},
		&cart.Cart{},
		&cart.CartItem{},
		&WishlistItem{},
	))

	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Catalog.PageSize = 4
	return cfg
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64) catalog.Product {
	t.Helper()
	p := catalog.Product{Name: name, Price: price}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestToggleAddsThenRemoves(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	p := seedProduct(t, db, "Headphones", 7999)

	result, err := svc.Toggle(userID, p.ID)
	require.NoError(t, err)
	assert.True(t, result.Added)

	inWishlist, err := svc.IsInWishlist(userID, p.ID)
	require.NoError(t, err)
	assert.True(t, inWishlist)

	// Second toggle removes
	result, err = svc.Toggle(userID, p.ID)
	require.NoError(t, err)
	assert.False(t, result.Added)

	inWishlist, err = svc.IsInWishlist(userID, p.ID)
	require.NoError(t, err)
	assert.False(t, inWishlist)
}

func TestToggleUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.Toggle(1, 42)
	assert.Error(t, err)
}

func TestGetWishlist(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	a := seedProduct(t, db, "Headphones", 7999)
	b := seedProduct(t, db, "Keyboard", 4999)

	_, err := svc.Toggle(userID, a.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(userID, b.ID)
	require.NoError(t, err)

	resp, err := svc.GetWishlist(userID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Items, 2)
	require.NotNil(t, resp.Items[0].Product)

	// Other users see an empty wishlist
	other, err := svc.GetWishlist(2)
	require.NoError(t, err)
	assert.Zero(t, other.Count)
}

func TestMoveToCart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	cartService := cart.NewService(db, testConfig())
	const userID = 1

	p := seedProduct(t, db, "Headphones", 7999)
	_, err := svc.Toggle(userID, p.ID)
	require.NoError(t, err)

	require.NoError(t, svc.MoveToCart(userID, p.ID))

	inWishlist, err := svc.IsInWishlist(userID, p.ID)
	require.NoError(t, err)
	assert.False(t, inWishlist)

	cartResp, err := cartService.GetCart(userID)
	require.NoError(t, err)
	require.Len(t, cartResp.Items, 1)
	assert.Equal(t, p.ID, cartResp.Items[0].ProductID)
	assert.Equal(t, 1, cartResp.Items[0].Quantity)
}

func TestMoveToCartNotInWishlist(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	p := seedProduct(t, db, "Headphones", 7999)
	assert.Error(t, svc.MoveToCart(1, p.ID))
}
