// internal/domain/cart/service_test.go
package cart

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
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
		&Cart{},
		&CartItem{},
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

func TestAddItemCreatesCartLazily(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	var count int64
	require.NoError(t, db.Model(&Cart{}).Count(&count).Error)
	assert.Zero(t, count)

	p := seedProduct(t, db, "Notebook", 350)
	resp, err := svc.AddItem(userID, &AddToCartRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)

	require.NoError(t, db.Model(&Cart{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	p := seedProduct(t, db, "Notebook", 350)

	_, err := svc.AddItem(userID, &AddToCartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	resp, err := svc.AddItem(userID, &AddToCartRequest{ProductID: p.ID, Quantity: 3})
	require.NoError(t, err)

	// One line, accumulated quantity
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
	assert.Equal(t, 1, resp.Totals.ItemCount)
	assert.Equal(t, 5, resp.Totals.TotalQuantity)
}

func TestAddItemKeepsOriginalPriceSnapshot(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	p := seedProduct(t, db, "Notebook", 350)

	_, err := svc.AddItem(userID, &AddToCartRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, db.Model(&catalog.Product{}).Where("id = ?", p.ID).
		Update("price", int64(999)).Error)

	resp, err := svc.AddItem(userID, &AddToCartRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(350), resp.Items[0].Price)
	assert.Equal(t, int64(700), resp.Totals.TotalPrice)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.AddItem(1, &AddToCartRequest{ProductID: 42, Quantity: 1})
	assert.Error(t, err)
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	p := seedProduct(t, db, "Notebook", 350)

	resp, err := svc.AddItem(userID, &AddToCartRequest{ProductID: p.ID})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Items[0].Quantity)
}

func TestUpdateItemQuantity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	p := seedProduct(t, db, "Notebook", 350)
	_, err := svc.AddItem(userID, &AddToCartRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	resp, err := svc.UpdateItemQuantity(userID, p.ID, 4)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 4, resp.Items[0].Quantity)

	// Zero removes the line
	resp, err = svc.UpdateItemQuantity(userID, p.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	_, err = svc.UpdateItemQuantity(userID, p.ID, 2)
	assert.Error(t, err)
}

func TestRemoveItemNotInCart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.RemoveItem(1, 42)
	assert.Error(t, err)
}

func TestClearCartKeepsCartRow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	p := seedProduct(t, db, "Notebook", 350)
	_, err := svc.AddItem(userID, &AddToCartRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(userID))

	resp, err := svc.GetCart(userID)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.Totals.TotalPrice)

	var cartCount int64
	require.NoError(t, db.Model(&Cart{}).Where("user_id = ?", userID).Count(&cartCount).Error)
	assert.Equal(t, int64(1), cartCount)
}

func TestGetCartItemCount(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	a := seedProduct(t, db, "Notebook", 350)
	b := seedProduct(t, db, "Pencil", 50)

	_, err := svc.AddItem(userID, &AddToCartRequest{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(userID, &AddToCartRequest{ProductID: b.ID, Quantity: 3})
	require.NoError(t, err)

	count, err := svc.GetCartItemCount(userID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestComputeTotals(t *testing.T) {
	items := []CartItem{
		{Quantity: 2, Price: 1999},
		{Quantity: 1, Price: 500},
	}

	totals := ComputeTotals(items)
	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, 3, totals.TotalQuantity)
	assert.Equal(t, int64(4498), totals.TotalPrice)

	assert.Zero(t, ComputeTotals(nil).TotalPrice)
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	p := seedProduct(t, db, "Notebook", 350)
	_, err := svc.AddItem(1, &AddToCartRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	resp, err := svc.GetCart(2)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}
