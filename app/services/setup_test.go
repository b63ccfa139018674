package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
)

// newTestDB opens a fresh in-memory SQLite database. The pool is capped at
// one connection so every query sees the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Name: "Test User", Email: email, Password: "irrelevant", Role: "user"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:  name,
		Slug:  name,
		Price: price,
		Stock: stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func createCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name, Slug: name}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func attachCategories(t *testing.T, db *gorm.DB, product *models.Product, categories ...models.Category) {
	t.Helper()
	require.NoError(t, db.Model(product).Association("Categories").Append(&categories))
	product.Categories = append(product.Categories, categories...)
}

func defaultAddress() models.AddressSnapshot {
	return models.AddressSnapshot{
		"contact_name":   "Test User",
		"phone":          "0912345678",
		"street_address": "1 Main St",
		"township":       "Downtown",
	}
}
