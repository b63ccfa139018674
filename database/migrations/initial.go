package migrations

import (
	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/migration"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/queue"
)

func init() {
	migration.Register("20260115000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260115000001_create_brands_table", &CreateBrandsTable{})
	migration.Register("20260115000002_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20260115000003_create_products_table", &CreateProductsTable{})
	migration.Register("20260115000004_create_cart_items_table", &CreateCartItemsTable{})
	migration.Register("20260115000005_create_orders_table", &CreateOrdersTable{})
	migration.Register("20260115000006_create_address_books_table", &CreateAddressBooksTable{})
	migration.Register("20260115000007_create_password_reset_tokens_table", &CreatePasswordResetTokensTable{})
	migration.Register("20260115000008_create_failed_jobs_table", &CreateFailedJobsTable{})
}

// -------- 0000: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0001: brands --------

type CreateBrandsTable struct{}

func (m *CreateBrandsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Brand{})
}

func (m *CreateBrandsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("brands")
}

// -------- 0002: categories --------

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categories")
}

// -------- 0003: products (plus category_product pivot) --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("category_product"); err != nil {
		return err
	}
	return db.Migrator().DropTable("products")
}

// -------- 0004: cart_items --------

type CreateCartItemsTable struct{}

func (m *CreateCartItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.CartItem{})
}

func (m *CreateCartItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("cart_items")
}

// -------- 0005: orders + order_items --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("order_items"); err != nil {
		return err
	}
	return db.Migrator().DropTable("orders")
}

// -------- 0006: address_books --------

type CreateAddressBooksTable struct{}

func (m *CreateAddressBooksTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.AddressBook{})
}

func (m *CreateAddressBooksTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("address_books")
}

// -------- 0007: password_reset_tokens --------

type CreatePasswordResetTokensTable struct{}

func (m *CreatePasswordResetTokensTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.PasswordResetToken{})
}

func (m *CreatePasswordResetTokensTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("password_reset_tokens")
}

// -------- 0008: failed_jobs --------

type CreateFailedJobsTable struct{}

func (m *CreateFailedJobsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&queue.FailedJobRecord{})
}

func (m *CreateFailedJobsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("failed_jobs")
}
