package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/session"
)

func TestAddToCartAccumulates(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	user := createUser(t, db, "cart@example.com")
	product := createProduct(t, db, "usb-c-hub", 29.99, 50)

	require.NoError(t, svc.AddToCart(user.ID, product.ID, 2))
	require.NoError(t, svc.AddToCart(user.ID, product.ID, 3))

	items, err := svc.Items(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1, "repeated adds must collapse into one line")
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddToCartConcurrentAddsAllLand(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	user := createUser(t, db, "cart@example.com")
	product := createProduct(t, db, "usb-c-hub", 29.99, 50)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.AddToCart(user.ID, product.ID, 1))
		}()
	}
	wg.Wait()

	items, err := svc.Items(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Quantity, "no increment may be lost")
}

func TestAddToCartRejectsUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	user := createUser(t, db, "cart@example.com")

	err := svc.AddToCart(user.ID, 999, 1)
	assert.Error(t, err)
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	user := createUser(t, db, "cart@example.com")
	product := createProduct(t, db, "usb-c-hub", 29.99, 50)

	assert.Error(t, svc.AddToCart(user.ID, product.ID, 0))
	assert.Error(t, svc.AddToCart(user.ID, product.ID, -2))
}

func TestSessionCartMerge(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	user := createUser(t, db, "guest@example.com")
	hub := createProduct(t, db, "usb-c-hub", 29.99, 50)
	mouse := createProduct(t, db, "wireless-mouse", 19.99, 50)

	sess := session.New()
	require.NoError(t, svc.AddToSessionCart(sess, hub.ID, 2))
	require.NoError(t, svc.AddToSessionCart(sess, hub.ID, 1))
	require.NoError(t, svc.AddToSessionCart(sess, mouse.ID, 4))

	// Already one line in the DB cart; the merge must accumulate onto it.
	require.NoError(t, svc.AddToCart(user.ID, hub.ID, 1))

	require.NoError(t, svc.MergeSessionCart(user.ID, sess))

	items, err := svc.Items(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byProduct := map[uint]int{}
	for _, item := range items {
		byProduct[item.ProductID] = item.Quantity
	}
	assert.Equal(t, 4, byProduct[hub.ID])
	assert.Equal(t, 4, byProduct[mouse.ID])
	assert.Empty(t, sess.Cart(), "merge must clear the session cart")
}

func TestSessionCartMergeSkipsVanishedProducts(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	user := createUser(t, db, "guest@example.com")
	hub := createProduct(t, db, "usb-c-hub", 29.99, 50)

	sess := session.New()
	require.NoError(t, svc.AddToSessionCart(sess, hub.ID, 2))

	// The product disappears between browsing and login.
	require.NoError(t, db.Unscoped().Delete(&models.Product{}, hub.ID).Error)

	require.NoError(t, svc.MergeSessionCart(user.ID, sess))

	items, err := svc.Items(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateSilentlyRejectsOutOfRangeQuantities(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	user := createUser(t, db, "cart@example.com")
	product := createProduct(t, db, "usb-c-hub", 29.99, 10)

	require.NoError(t, svc.AddToCart(user.ID, product.ID, 3))
	items, err := svc.Items(user.ID)
	require.NoError(t, err)
	itemID := items[0].ID

	for _, quantity := range []int{0, -1, 11} {
		require.NoError(t, svc.Update(user.ID, itemID, quantity))
		items, err = svc.Items(user.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, items[0].Quantity, "quantity %d must be rejected silently", quantity)
	}

	// The boundary value equal to stock is accepted.
	require.NoError(t, svc.Update(user.ID, itemID, 10))
	items, err = svc.Items(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, items[0].Quantity)
}

func TestUpdateRejectsLineForVanishedProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	user := createUser(t, db, "cart@example.com")
	product := createProduct(t, db, "usb-c-hub", 29.99, 10)

	require.NoError(t, svc.AddToCart(user.ID, product.ID, 3))
	items, err := svc.Items(user.ID)
	require.NoError(t, err)
	itemID := items[0].ID

	// The product disappears while the line is still in the cart. With no
	// stock to check against, the update must fail rather than accept any
	// quantity.
	require.NoError(t, db.Unscoped().Delete(&models.Product{}, product.ID).Error)

	err = svc.Update(user.ID, itemID, 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRemoveAndClear(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db)
	user := createUser(t, db, "cart@example.com")
	hub := createProduct(t, db, "usb-c-hub", 29.99, 50)
	mouse := createProduct(t, db, "wireless-mouse", 19.99, 50)

	require.NoError(t, svc.AddToCart(user.ID, hub.ID, 1))
	require.NoError(t, svc.AddToCart(user.ID, mouse.ID, 1))

	items, err := svc.Items(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NoError(t, svc.Remove(user.ID, items[0].ID))
	items, err = svc.Items(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, svc.Clear(user.ID))
	items, err = svc.Items(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
