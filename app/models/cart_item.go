package models

import "gorm.io/gorm"

// CartItem is one product line in a signed-in user's cart.
// (user_id, product_id) is unique: adding the same product again
// accumulates onto the existing row.
type CartItem struct {
	gorm.Model
	UserID    uint `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// Subtotal is the line total at the product's current price.
func (c *CartItem) Subtotal() float64 {
	if c.Product == nil {
		return 0
	}
	return c.Product.Price * float64(c.Quantity)
}
