package models

import "gorm.io/gorm"

// AddressBook is a saved shipping address. One address per user may be the
// default; checkout snapshots the default address into the order.
type AddressBook struct {
	gorm.Model
	UserID           uint   `gorm:"not null;index" json:"user_id"`
	ContactName      string `gorm:"size:255;not null" json:"contact_name"`
	Phone            string `gorm:"size:50;not null" json:"phone"`
	StreetAddress    string `gorm:"size:255;not null" json:"street_address"`
	QuarterOrVillage string `gorm:"size:255" json:"quarter_or_village"`
	Township         string `gorm:"size:255" json:"township"`
	StateOrRegion    string `gorm:"size:255" json:"state_or_region"`
	IsDefault        bool   `gorm:"not null;default:false" json:"is_default"`
}

// Matches reports whether other describes the same place and contact.
// Used to reject duplicate entries on create.
func (a *AddressBook) Matches(other *AddressBook) bool {
	return a.Phone == other.Phone &&
		a.ContactName == other.ContactName &&
		a.StreetAddress == other.StreetAddress &&
		a.QuarterOrVillage == other.QuarterOrVillage &&
		a.Township == other.Township &&
		a.StateOrRegion == other.StateOrRegion
}

// Snapshot freezes the address into the map shape stored on orders.
func (a *AddressBook) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		"contact_name":       a.ContactName,
		"phone":              a.Phone,
		"street_address":     a.StreetAddress,
		"quarter_or_village": a.QuarterOrVillage,
		"township":           a.Township,
		"state_or_region":    a.StateOrRegion,
	}
}
