package services

import (
	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/app/repositories"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/collection"
)

// AddressService manages a user's address book.
type AddressService struct {
	addresses *repositories.AddressRepository
}

func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{addresses: repositories.NewAddressRepository(db)}
}

// List returns the user's addresses, default first.
func (s *AddressService) List(userID uint) ([]models.AddressBook, error) {
	return s.addresses.ForUser(userID)
}

// Find loads one address scoped to its owner.
func (s *AddressService) Find(userID, addressID uint) (models.AddressBook, error) {
	return s.addresses.FindForUser(userID, addressID)
}

// Default returns the user's default address — the one checkout snapshots.
func (s *AddressService) Default(userID uint) (models.AddressBook, error) {
	return s.addresses.Default(userID)
}

// Create saves a new address, rejecting exact duplicates. The first address
// a user saves becomes the default automatically.
func (s *AddressService) Create(userID uint, address *models.AddressBook) error {
	existing, err := s.addresses.ForUser(userID)
	if err != nil {
		return err
	}

	if collection.Contains(existing, func(a models.AddressBook) bool {
		return a.Matches(address)
	}) {
		return ErrDuplicateAddress
	}

	address.UserID = userID
	if len(existing) == 0 {
		address.IsDefault = true
	}
	return s.addresses.Create(address)
}

// Update saves changes to an address owned by the user.
func (s *AddressService) Update(userID uint, address *models.AddressBook) error {
	if _, err := s.addresses.FindForUser(userID, address.ID); err != nil {
		return err
	}
	address.UserID = userID
	return s.addresses.Update(address)
}

// SetDefault marks one of the user's addresses as the default.
func (s *AddressService) SetDefault(userID, addressID uint) error {
	if _, err := s.addresses.FindForUser(userID, addressID); err != nil {
		return err
	}
	return s.addresses.SetDefault(userID, addressID)
}

// Delete removes one of the user's addresses.
func (s *AddressService) Delete(userID, addressID uint) error {
	return s.addresses.Delete(userID, addressID)
}
