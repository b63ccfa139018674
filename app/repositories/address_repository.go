package repositories

import (
	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/orm"
)

// AddressRepository handles database operations for the address book.
type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// ForUser returns all of the user's saved addresses, default first.
func (r *AddressRepository) ForUser(userID uint) ([]models.AddressBook, error) {
	var addresses []models.AddressBook
	err := orm.Wrap(r.db).Model(&models.AddressBook{}).
		Where("user_id = ?", userID).
		Order("is_default desc, created_at asc").
		Get(&addresses)
	return addresses, err
}

// FindForUser loads one address scoped to its owner.
func (r *AddressRepository) FindForUser(userID, addressID uint) (models.AddressBook, error) {
	var address models.AddressBook
	err := orm.Wrap(r.db).Model(&models.AddressBook{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&address)
	return address, err
}

// Default returns the user's default address.
func (r *AddressRepository) Default(userID uint) (models.AddressBook, error) {
	var address models.AddressBook
	err := orm.Wrap(r.db).Model(&models.AddressBook{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		First(&address)
	return address, err
}

// Create persists a new address. When it is flagged default, any previous
// default is cleared in the same transaction.
func (r *AddressRepository) Create(address *models.AddressBook) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := clearDefault(tx, address.UserID); err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
}

// Update saves changes to an existing address, keeping the single-default
// invariant.
func (r *AddressRepository) Update(address *models.AddressBook) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := clearDefault(tx, address.UserID); err != nil {
				return err
			}
		}
		return tx.Save(address).Error
	})
}

// SetDefault marks one address as the default, clearing the previous one.
func (r *AddressRepository) SetDefault(userID, addressID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := clearDefault(tx, userID); err != nil {
			return err
		}
		return tx.Model(&models.AddressBook{}).
			Where("id = ? AND user_id = ?", addressID, userID).
			Update("is_default", true).Error
	})
}

// Delete removes one address owned by the user.
func (r *AddressRepository) Delete(userID, addressID uint) error {
	return r.db.Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&models.AddressBook{}).Error
}

func clearDefault(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.AddressBook{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}
