package models

import "gorm.io/gorm"

// Product represents a product in the catalogue.
type Product struct {
	gorm.Model
	UserID             uint     `gorm:"not null;index" json:"user_id"`
	BrandID            uint     `gorm:"not null;index" json:"brand_id"`
	Thumbnail          string   `gorm:"size:255" json:"thumbnail"`
	Name               string   `gorm:"size:255;not null;index" json:"name"`
	Slug               string   `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Description        string   `gorm:"type:text;not null" json:"description"`
	Price              float64  `gorm:"not null" json:"price"`
	DiscountPrice      *float64 `json:"discount_price"`
	DiscountPercentage *float64 `json:"discount_percentage"`
	Stock              int      `gorm:"not null" json:"stock"`

	Brand      *Brand     `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Categories []Category `gorm:"many2many:category_product" json:"categories,omitempty"`
}

// Brand is a product manufacturer.
type Brand struct {
	gorm.Model
	Name string `gorm:"size:255;not null" json:"name"`
	Slug string `gorm:"size:255;uniqueIndex;not null" json:"slug"`
}

// Category groups products; a product may belong to several.
type Category struct {
	gorm.Model
	Name string `gorm:"size:255;not null" json:"name"`
	Slug string `gorm:"size:255;uniqueIndex;not null" json:"slug"`
}
