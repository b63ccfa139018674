package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/auth"
)

func init() {
	Register("users", SeedUsers)
}

// SeedUsers creates one admin and one regular account. Re-running the
// seeder leaves existing rows untouched.
func SeedUsers(db *gorm.DB) error {
	password, err := auth.HashPassword("159357")
	if err != nil {
		return err
	}

	users := []models.User{
		{Name: "Admin", Email: "admin@gmail.com", Password: password, Role: "admin"},
		{Name: "User", Email: "user@gmail.com", Password: password, Role: "user"},
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&users).Error
}
