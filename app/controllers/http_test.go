package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/app/routes"
	"github.com/Zin-Mg-Nyunt/shopping/app/services"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/auth"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/database"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/router"
)

type apiEnvelope struct {
	Status  int                    `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Errors  map[string]string      `json:"errors"`
}

// newApp stands up the full route table over a fresh in-memory database.
func newApp(t *testing.T) *router.Router {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Brand{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.AddressBook{},
		&models.PasswordResetToken{},
	))
	database.DB = db

	r := router.New()
	routes.Register(r, services.NewMemoryProofStore())
	return r
}

func doJSON(t *testing.T, r *router.Router, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	var env apiEnvelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env),
			"body: %s", rec.Body.String())
	}
	return rec, env
}

func signIn(t *testing.T, email string) (models.User, string) {
	t.Helper()
	user := models.User{Name: "Shopper", Email: email, Password: "irrelevant", Role: "user"}
	require.NoError(t, database.DB.Create(&user).Error)
	token, err := auth.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func TestCatalogEndpoints(t *testing.T) {
	r := newApp(t)
	require.NoError(t, database.DB.Create(&models.Product{
		Name: "USB-C Hub", Slug: "usb-c-hub", Price: 29.99, Stock: 5,
	}).Error)

	rec, env := doJSON(t, r, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, env.Data["products"])

	rec, _ = doJSON(t, r, http.MethodGet, "/products/usb-c-hub", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, r, http.MethodGet, "/products/no-such-thing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartRequiresAuthExceptAdd(t *testing.T) {
	r := newApp(t)
	require.NoError(t, database.DB.Create(&models.Product{
		Name: "USB-C Hub", Slug: "usb-c-hub", Price: 29.99, Stock: 5,
	}).Error)

	// Guests may add; the quantity lands in their session.
	rec, _ := doJSON(t, r, http.MethodPost, "/cart/1", "", map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Everything else needs a token.
	rec, _ = doJSON(t, r, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddToCartValidation(t *testing.T) {
	r := newApp(t)
	_, token := signIn(t, "shopper@example.com")
	require.NoError(t, database.DB.Create(&models.Product{
		Name: "USB-C Hub", Slug: "usb-c-hub", Price: 29.99, Stock: 5,
	}).Error)

	rec, env := doJSON(t, r, http.MethodPost, "/cart/1", token, map[string]int{"quantity": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "quantity")
}

func TestCheckoutFlow(t *testing.T) {
	r := newApp(t)
	user, token := signIn(t, "shopper@example.com")
	product := models.Product{Name: "USB-C Hub", Slug: "usb-c-hub", Price: 30.00, Stock: 5}
	require.NoError(t, database.DB.Create(&product).Error)

	rec, _ := doJSON(t, r, http.MethodPost, fmt.Sprintf("/cart/%d", product.ID), token,
		map[string]int{"quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, r, http.MethodPost, "/addresses", token, map[string]interface{}{
		"contact_name":       "Shopper",
		"phone":              "0912345678",
		"street_address":     "1 Main St",
		"quarter_or_village": "Riverside",
		"township":           "Downtown",
		"state_or_region":    "Yangon",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doJSON(t, r, http.MethodPost, "/checkout", token,
		map[string]string{"payment_method": "cod"})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	assert.Regexp(t, `^ORD-\d{8}-[0-9A-F]{4}$`, env.Data["order_number"])

	// Stock went down, the cart is empty, and the order shows up in history.
	var after models.Product
	require.NoError(t, database.DB.First(&after, product.ID).Error)
	assert.Equal(t, 3, after.Stock)

	rec, env = doJSON(t, r, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.Data["items"])

	rec, env = doJSON(t, r, http.MethodGet, "/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items, ok := env.Data["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 1)

	// Another account cannot read the order.
	_, otherToken := signIn(t, "stranger@example.com")
	var order models.Order
	require.NoError(t, database.DB.Where("user_id = ?", user.ID).First(&order).Error)
	rec, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutWithEmptyCart(t *testing.T) {
	r := newApp(t)
	_, token := signIn(t, "shopper@example.com")

	rec, _ := doJSON(t, r, http.MethodPost, "/addresses", token, map[string]interface{}{
		"contact_name":       "Shopper",
		"phone":              "0912345678",
		"street_address":     "1 Main St",
		"quarter_or_village": "Riverside",
		"township":           "Downtown",
		"state_or_region":    "Yangon",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = doJSON(t, r, http.MethodPost, "/checkout", token,
		map[string]string{"payment_method": "cod"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCheckoutWithoutAddress(t *testing.T) {
	r := newApp(t)
	_, token := signIn(t, "shopper@example.com")
	product := models.Product{Name: "USB-C Hub", Slug: "usb-c-hub", Price: 30.00, Stock: 5}
	require.NoError(t, database.DB.Create(&product).Error)

	rec, _ := doJSON(t, r, http.MethodPost, fmt.Sprintf("/cart/%d", product.ID), token,
		map[string]int{"quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doJSON(t, r, http.MethodPost, "/checkout", token,
		map[string]string{"payment_method": "cod"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "address_id")
}
