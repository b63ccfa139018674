package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// AddressSnapshot is the shipping address frozen into the order at checkout,
// stored as a JSON column.
type AddressSnapshot map[string]string

// Value implements driver.Valuer so GORM stores the snapshot as JSON text.
func (a AddressSnapshot) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (a *AddressSnapshot) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = AddressSnapshot{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return fmt.Errorf("models: cannot scan %T into AddressSnapshot", src)
}

// Order is a placed order. TotalAmount includes the shipping fee.
type Order struct {
	gorm.Model
	OrderNumber   string          `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	TotalItems    int             `gorm:"not null" json:"total_items"`
	TotalAmount   float64         `gorm:"not null" json:"total_amount"`
	Address       AddressSnapshot `gorm:"type:text" json:"address"`
	PaymentMethod string          `gorm:"size:50;not null" json:"payment_method"`
	Status        string          `gorm:"size:50;default:pending" json:"status"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem snapshots one product line at purchase time. Name and price are
// copied so later catalogue edits never rewrite order history.
type OrderItem struct {
	gorm.Model
	OrderID      uint    `gorm:"not null;index" json:"order_id"`
	ProductName  string  `gorm:"size:255;not null" json:"product_name"`
	ProductPrice float64 `gorm:"not null" json:"product_price"`
	Quantity     int     `gorm:"not null" json:"quantity"`
}

// LineTotal is quantity times the snapshotted price.
func (i *OrderItem) LineTotal() float64 {
	return i.ProductPrice * float64(i.Quantity)
}
