// internal/domain/order/service_test.go
package order

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
		&Order{},
		&OrderItem{},
	))

	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Catalog.PageSize = 4
	return cfg
}

func seedCartScenario(t *testing.T, db *gorm.DB, userID uint) (catalog.Product, catalog.Product) {
	t.Helper()

	book := catalog.Product{Name: "Paperback novel", Price: 1999}
	mug := catalog.Product{Name: "Coffee mug", Price: 500}
	require.NoError(t, db.Create(&book).Error)
	require.NoError(t, db.Create(&mug).Error)

	cartService := cart.NewService(db, testConfig())
	_, err := cartService.AddItem(userID, &cart.AddToCartRequest{ProductID: book.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = cartService.AddItem(userID, &cart.AddToCartRequest{ProductID: mug.ID, Quantity: 1})
	require.NoError(t, err)

	return book, mug
}

func TestPlaceOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	seedCartScenario(t, db, userID)

	placed, err := svc.PlaceOrder(userID)
	require.NoError(t, err)

	assert.True(t, IsValidOrderCode(placed.OrderCode))
	assert.Equal(t, OrderStatusPending, placed.Status)
	assert.Equal(t, int64(4498), placed.TotalPrice)
	require.Len(t, placed.Items, 2)

	lineTotal := int64(0)
	for _, item := range placed.Items {
		lineTotal += item.LineTotal()
	}
	assert.Equal(t, placed.TotalPrice, lineTotal)

	// The cart is emptied but its row survives
	var itemCount int64
	require.NoError(t, db.Model(&cart.CartItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	var cartCount int64
	require.NoError(t, db.Model(&cart.Cart{}).Where("user_id = ?", userID).Count(&cartCount).Error)
	assert.Equal(t, int64(1), cartCount)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.PlaceOrder(1)
	assert.ErrorIs(t, err, ErrEmptyCart)

	// Rejection leaves nothing behind
	var orderCount int64
	require.NoError(t, db.Model(&Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestPlaceOrderTwiceSecondIsRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	seedCartScenario(t, db, userID)

	_, err := svc.PlaceOrder(userID)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(userID)
	assert.ErrorIs(t, err, ErrEmptyCart)

	var orderCount int64
	require.NoError(t, db.Model(&Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(1), orderCount)
}

func TestPlaceOrderSnapshotSurvivesCatalogEdits(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	book, mug := seedCartScenario(t, db, userID)

	// Catalog changes between add and checkout must not leak into the order
	require.NoError(t, db.Model(&catalog.Product{}).Where("id = ?", book.ID).
		Update("price", int64(9999)).Error)
	require.NoError(t, db.Model(&catalog.Product{}).Where("id = ?", mug.ID).
		Update("name", "Renamed mug").Error)

	placed, err := svc.PlaceOrder(userID)
	require.NoError(t, err)

	assert.Equal(t, int64(4498), placed.TotalPrice)

	prices := map[string]int64{}
	for _, item := range placed.Items {
		prices[item.ProductName] = item.Price
	}
	assert.Equal(t, int64(1999), prices["Paperback novel"])

	// The name is copied at checkout, so the rename is visible but the
	// snapshot price is not
	assert.Equal(t, int64(500), prices["Renamed mug"])
}

func TestPlaceOrderProductDeletedAfterAdd(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	book, _ := seedCartScenario(t, db, userID)

	require.NoError(t, db.Delete(&catalog.Product{}, book.ID).Error)

	placed, err := svc.PlaceOrder(userID)
	require.NoError(t, err)

	// The vanished product still produces a line with its snapshot price
	assert.Equal(t, int64(4498), placed.TotalPrice)
	require.Len(t, placed.Items, 2)
}

func TestPlaceOrderRedrawsCollidingCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	require.NoError(t, db.Create(&Order{
		OrderCode:  "#ORD-AAAAA",
		UserID:     99,
		Status:     OrderStatusPending,
		TotalPrice: 100,
	}).Error)

	suffixes := []string{"AAAAA", "BBBBB"}
	svc.newCodeSuffix = func() (string, error) {
		next := suffixes[0]
		if len(suffixes) > 1 {
			suffixes = suffixes[1:]
		}
		return next, nil
	}

	seedCartScenario(t, db, userID)

	placed, err := svc.PlaceOrder(userID)
	require.NoError(t, err)
	assert.Equal(t, "#ORD-BBBBB", placed.OrderCode)
}

func TestPlaceOrderCodeExhaustion(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	require.NoError(t, db.Create(&Order{
		OrderCode:  "#ORD-AAAAA",
		UserID:     99,
		Status:     OrderStatusPending,
		TotalPrice: 100,
	}).Error)

	// Every draw collides
	svc.newCodeSuffix = func() (string, error) {
		return "AAAAA", nil
	}

	seedCartScenario(t, db, userID)

	_, err := svc.PlaceOrder(userID)
	assert.ErrorIs(t, err, ErrOrderCodeExhausted)

	// The failed checkout must not have consumed the cart
	var itemCount int64
	require.NoError(t, db.Model(&cart.CartItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(2), itemCount)
}

func TestTrackOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	seedCartScenario(t, db, userID)
	placed, err := svc.PlaceOrder(userID)
	require.NoError(t, err)

	found, err := svc.TrackOrder(userID, placed.OrderCode)
	require.NoError(t, err)
	assert.Equal(t, placed.OrderCode, found.OrderCode)
	assert.Equal(t, placed.TotalPrice, found.TotalPrice)
	assert.Len(t, found.Items, 2)
}

func TestTrackOrderNotFoundAndNotOwned(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const owner = 1
	const stranger = 2

	seedCartScenario(t, db, owner)
	placed, err := svc.PlaceOrder(owner)
	require.NoError(t, err)

	// A stranger's lookup and a bogus code are indistinguishable
	_, err = svc.TrackOrder(stranger, placed.OrderCode)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.TrackOrder(owner, "#ORD-ZZZZZ")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListUserOrders(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	for i := 0; i < 3; i++ {
		seedCartScenario(t, db, userID)
		_, err := svc.PlaceOrder(userID)
		require.NoError(t, err)
	}

	resp, err := svc.ListUserOrders(userID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.True(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)

	// Another user sees nothing
	other, err := svc.ListUserOrders(2, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, other.Orders)
}

func TestUpdateOrderStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	const userID = 1

	seedCartScenario(t, db, userID)
	placed, err := svc.PlaceOrder(userID)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateOrderStatus(placed.ID, OrderStatusShipped))

	found, err := svc.TrackOrder(userID, placed.OrderCode)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, found.Status)

	err = svc.UpdateOrderStatus(placed.ID, OrderStatus("teleported"))
	assert.Error(t, err)

	err = svc.UpdateOrderStatus(9999, OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderStatusIsValid(t *testing.T) {
	for _, status := range []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled,
	} {
		assert.True(t, status.IsValid(), "%s should be valid", status)
	}

	assert.False(t, OrderStatus("").IsValid())
	assert.False(t, OrderStatus("returned").IsValid())
}
