package repositories

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/orm"
)

// CartRepository handles database operations for cart items.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// ItemsForUser returns the user's cart lines with products loaded,
// oldest first.
func (r *CartRepository) ItemsForUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := orm.Wrap(r.db).Model(&models.CartItem{}).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Get(&items)
	return items, err
}

// FindForUser loads one cart line (with product) owned by the user.
func (r *CartRepository) FindForUser(userID, itemID uint) (models.CartItem, error) {
	var item models.CartItem
	err := orm.Wrap(r.db).Model(&models.CartItem{}).
		Preload("Product").
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item)
	return item, err
}

// AccumulateItem adds quantity to the user's line for the product,
// creating the line if absent. The increment happens in SQL, so two
// concurrent adds both land.
func (r *CartRepository) AccumulateItem(userID, productID uint, quantity int) error {
	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", quantity),
		}),
	}).Create(&item).Error
}

// SetQuantity replaces the quantity on one line.
func (r *CartRepository) SetQuantity(itemID uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

// Remove deletes one line owned by the user. Cart lines are hard-deleted:
// a soft-deleted row would still occupy the (user_id, product_id) unique
// index and swallow the next accumulating upsert.
func (r *CartRepository) Remove(userID, itemID uint) error {
	return r.db.Unscoped().
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{}).Error
}

// Clear empties the user's cart.
func (r *CartRepository) Clear(userID uint) error {
	return r.db.Unscoped().
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
