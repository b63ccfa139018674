package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{4}$`)

func TestPlaceOrderHappyPath(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := createUser(t, db, "buyer@example.com")
	hub := createProduct(t, db, "usb-c-hub", 30.00, 10)
	mouse := createProduct(t, db, "wireless-mouse", 20.00, 5)

	order, err := svc.PlaceOrder(user.ID, defaultAddress(), "cod", []CheckoutItem{
		{ProductID: hub.ID, Quantity: 2},
		{ProductID: mouse.ID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Regexp(t, orderNumberPattern, order.OrderNumber)
	assert.Equal(t, 3, order.TotalItems)
	// 2×30 + 1×20 = 80, plus the 9.99 fee under the free-shipping threshold.
	assert.InDelta(t, 89.99, order.TotalAmount, 0.001)
	assert.Equal(t, "pending", order.Status)
	require.Len(t, order.Items, 2)

	var hubAfter, mouseAfter models.Product
	require.NoError(t, db.First(&hubAfter, hub.ID).Error)
	require.NoError(t, db.First(&mouseAfter, mouse.ID).Error)
	assert.Equal(t, 8, hubAfter.Stock)
	assert.Equal(t, 4, mouseAfter.Stock)
}

func TestPlaceOrderNumberEmbedsDate(t *testing.T) {
	db := newTestDB(t)
	pinned := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc := NewOrderService(db).WithClock(func() time.Time { return pinned })
	user := createUser(t, db, "buyer@example.com")
	hub := createProduct(t, db, "usb-c-hub", 30.00, 10)

	order, err := svc.PlaceOrder(user.ID, defaultAddress(), "cod", []CheckoutItem{
		{ProductID: hub.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^ORD-20260314-[0-9A-F]{4}$`, order.OrderNumber)
}

func TestPlaceOrderShippingFeeBoundary(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := createUser(t, db, "buyer@example.com")

	// Exactly at the threshold: fee still applies.
	at := createProduct(t, db, "at-threshold", 100.00, 10)
	order, err := svc.PlaceOrder(user.ID, defaultAddress(), "cod", []CheckoutItem{
		{ProductID: at.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.InDelta(t, 109.99, order.TotalAmount, 0.001)

	// One cent above: shipping is free.
	above := createProduct(t, db, "above-threshold", 100.01, 10)
	order, err = svc.PlaceOrder(user.ID, defaultAddress(), "cod", []CheckoutItem{
		{ProductID: above.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.InDelta(t, 100.01, order.TotalAmount, 0.001)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := createUser(t, db, "buyer@example.com")

	_, err := svc.PlaceOrder(user.ID, defaultAddress(), "cod", nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderOutOfStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := createUser(t, db, "buyer@example.com")
	gone := createProduct(t, db, "sold-out", 30.00, 0)

	_, err := svc.PlaceOrder(user.ID, defaultAddress(), "cod", []CheckoutItem{
		{ProductID: gone.ID, Quantity: 1},
	})

	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, "sold-out", oos.ProductName)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := createUser(t, db, "buyer@example.com")
	hub := createProduct(t, db, "usb-c-hub", 30.00, 10)
	scarce := createProduct(t, db, "scarce", 20.00, 2)

	_, err := svc.PlaceOrder(user.ID, defaultAddress(), "cod", []CheckoutItem{
		{ProductID: hub.ID, Quantity: 2}, // would succeed alone
		{ProductID: scarce.ID, Quantity: 3},
	})

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 2, insufficient.Available)

	// The whole transaction rolled back: no order rows, no stock drift.
	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)

	var hubAfter models.Product
	require.NoError(t, db.First(&hubAfter, hub.ID).Error)
	assert.Equal(t, 10, hubAfter.Stock, "earlier lines in a failed checkout must not decrement stock")
}

func TestOrderItemsSnapshotPriceAndName(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := createUser(t, db, "buyer@example.com")
	hub := createProduct(t, db, "usb-c-hub", 30.00, 10)

	order, err := svc.PlaceOrder(user.ID, defaultAddress(), "cod", []CheckoutItem{
		{ProductID: hub.ID, Quantity: 1},
	})
	require.NoError(t, err)

	// Reprice and rename the product after the sale.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", hub.ID).
		Updates(map[string]interface{}{"price": 99.00, "name": "usb-c-hub-v2"}).Error)

	loaded, err := svc.FindForUser(user.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "usb-c-hub", loaded.Items[0].ProductName)
	assert.InDelta(t, 30.00, loaded.Items[0].ProductPrice, 0.001)
}

func TestOrdersForUserNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := createUser(t, db, "buyer@example.com")
	other := createUser(t, db, "other@example.com")
	hub := createProduct(t, db, "usb-c-hub", 30.00, 100)

	for i := 0; i < 3; i++ {
		_, err := svc.PlaceOrder(user.ID, defaultAddress(), "cod", []CheckoutItem{
			{ProductID: hub.ID, Quantity: 1},
		})
		require.NoError(t, err)
	}
	_, err := svc.PlaceOrder(other.ID, defaultAddress(), "cod", []CheckoutItem{
		{ProductID: hub.ID, Quantity: 1},
	})
	require.NoError(t, err)

	orders, pagination, err := svc.ForUser(user.ID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, orders, 3, "only the owner's orders")
	assert.EqualValues(t, 3, pagination.Total)

	// Scoped detail lookups never leak across users.
	_, err = svc.FindForUser(other.ID, orders[0].ID)
	assert.Error(t, err)
}

func TestPlaceOrderRetriesTakenNumber(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "buyer@example.com")
	hub := createProduct(t, db, "usb-c-hub", 30.00, 10)

	// Another checkout already claimed this number.
	taken := models.Order{
		OrderNumber:   "ORD-20260314-AAAA",
		UserID:        createUser(t, db, "other@example.com").ID,
		TotalItems:    1,
		TotalAmount:   39.99,
		Address:       defaultAddress(),
		PaymentMethod: "cod",
		Status:        "pending",
	}
	require.NoError(t, db.Create(&taken).Error)

	// First draw collides on the unique index inside the transaction; the
	// second succeeds.
	draws := []string{"ORD-20260314-AAAA", "ORD-20260314-BBBB"}
	svc := NewOrderService(db).WithNumberSource(func() (string, error) {
		n := draws[0]
		draws = draws[1:]
		return n, nil
	})

	order, err := svc.PlaceOrder(user.ID, defaultAddress(), "cod", []CheckoutItem{
		{ProductID: hub.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260314-BBBB", order.OrderNumber)
	assert.Empty(t, draws, "both numbers drawn")

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 2, count, "failed attempt left no order behind")
}
