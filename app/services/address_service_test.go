package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
)

func sampleAddress(contact string) models.AddressBook {
	return models.AddressBook{
		ContactName:      contact,
		Phone:            "0912345678",
		StreetAddress:    "1 Main St",
		QuarterOrVillage: "Riverside",
		Township:         "Downtown",
		StateOrRegion:    "Yangon",
	}
}

func TestFirstAddressBecomesDefault(t *testing.T) {
	db := newTestDB(t)
	svc := NewAddressService(db)
	user := createUser(t, db, "addr@example.com")

	first := sampleAddress("First")
	require.NoError(t, svc.Create(user.ID, &first))
	assert.True(t, first.IsDefault)

	second := sampleAddress("Second")
	require.NoError(t, svc.Create(user.ID, &second))
	assert.False(t, second.IsDefault)

	def, err := svc.Default(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, def.ID)
}

func TestCreateRejectsDuplicateAddress(t *testing.T) {
	db := newTestDB(t)
	svc := NewAddressService(db)
	user := createUser(t, db, "addr@example.com")

	original := sampleAddress("Same")
	require.NoError(t, svc.Create(user.ID, &original))

	duplicate := sampleAddress("Same")
	err := svc.Create(user.ID, &duplicate)
	assert.ErrorIs(t, err, ErrDuplicateAddress)

	// The same address under another account is fine.
	other := createUser(t, db, "other@example.com")
	theirs := sampleAddress("Same")
	assert.NoError(t, svc.Create(other.ID, &theirs))
}

func TestSetDefaultKeepsSingleDefault(t *testing.T) {
	db := newTestDB(t)
	svc := NewAddressService(db)
	user := createUser(t, db, "addr@example.com")

	first := sampleAddress("First")
	require.NoError(t, svc.Create(user.ID, &first))
	second := sampleAddress("Second")
	require.NoError(t, svc.Create(user.ID, &second))

	require.NoError(t, svc.SetDefault(user.ID, second.ID))

	var defaults int64
	require.NoError(t, db.Model(&models.AddressBook{}).
		Where("user_id = ? AND is_default = ?", user.ID, true).
		Count(&defaults).Error)
	assert.EqualValues(t, 1, defaults)

	def, err := svc.Default(user.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)
}

func TestSetDefaultScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewAddressService(db)
	user := createUser(t, db, "addr@example.com")
	other := createUser(t, db, "other@example.com")

	mine := sampleAddress("Mine")
	require.NoError(t, svc.Create(user.ID, &mine))

	err := svc.SetDefault(other.ID, mine.ID)
	assert.Error(t, err, "another user's address cannot become my default")
}

func TestDeleteAddress(t *testing.T) {
	db := newTestDB(t)
	svc := NewAddressService(db)
	user := createUser(t, db, "addr@example.com")

	address := sampleAddress("Gone")
	require.NoError(t, svc.Create(user.ID, &address))
	require.NoError(t, svc.Delete(user.ID, address.ID))

	list, err := svc.List(user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
