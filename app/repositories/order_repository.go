package repositories

import (
	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/orm"
)

// OrderRepository handles database operations for orders. Writes happen
// inside the checkout transaction and go through the tx handle directly;
// this repository covers the read side.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// NumberExists reports whether an order number is already taken.
func (r *OrderRepository) NumberExists(number string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("order_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

// ForUser returns one page of the user's orders, newest first.
func (r *OrderRepository) ForUser(userID uint, page, perPage int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	pagination, err := orm.Wrap(r.db).Model(&models.Order{}).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		GetWithPagination(&orders, page, perPage)
	return orders, pagination, err
}

// FindForUser loads one order with line items, scoped to the owner.
func (r *OrderRepository) FindForUser(userID, orderID uint) (models.Order, error) {
	var order models.Order
	err := orm.Wrap(r.db).Model(&models.Order{}).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order)
	return order, err
}
