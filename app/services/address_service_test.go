package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/auth"
)

func addressInput(label string, def bool) AddressInput {
	return AddressInput{Label: label, FullName: "Kofi Boateng", Phone: "+233241112233",
		Street: "4 Ring Road", City: "Kumasi", Country: "Ghana", IsDefault: def}
}

func defaults(t *testing.T, db *gorm.DB, userID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).Pluck("id", &ids).Error)
	return ids
}

func TestAddressFirstBecomesDefault(t *testing.T) {
	db := newDB(t)
	u := makeUser(t, db, auth.RoleCustomer)
	svc := NewAddressService()

	first, err := svc.Create(bg, as(u), addressInput("Home", false))
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.Create(bg, as(u), addressInput("Work", false))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
	assert.Equal(t, []uint{first.ID}, defaults(t, db, u.ID))
}

func TestAddressSingleDefault(t *testing.T) {
	db := newDB(t)
	u := makeUser(t, db, auth.RoleCustomer)
	svc := NewAddressService()

	a, err := svc.Create(bg, as(u), addressInput("Home", false))
	require.NoError(t, err)
	b, err := svc.Create(bg, as(u), addressInput("Work", true))
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, defaults(t, db, u.ID))

	_, err = svc.SetDefault(bg, as(u), a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID}, defaults(t, db, u.ID))

	_, err = svc.Update(bg, as(u), b.ID, addressInput("Office", true))
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, defaults(t, db, u.ID))
}

func TestAddressDeletePromotesNewest(t *testing.T) {
	db := newDB(t)
	u := makeUser(t, db, auth.RoleCustomer)
	svc := NewAddressService()

	home, err := svc.Create(bg, as(u), addressInput("Home", false))
	require.NoError(t, err)
	_, err = svc.Create(bg, as(u), addressInput("Work", false))
	require.NoError(t, err)
	latest, err := svc.Create(bg, as(u), addressInput("Gym", false))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(bg, as(u), home.ID))
	assert.Equal(t, []uint{latest.ID}, defaults(t, db, u.ID))
}

func TestAddressIsPrivate(t *testing.T) {
	db := newDB(t)
	owner := makeUser(t, db, auth.RoleCustomer)
	other := makeUser(t, db, auth.RoleCustomer)
	a := makeAddress(t, db, owner.ID, true)
	svc := NewAddressService()

	_, err := svc.SetDefault(bg, as(other), a.ID)
	requireStatus(t, err, http.StatusNotFound)
	requireStatus(t, svc.Delete(bg, as(other), a.ID), http.StatusNotFound)

	list, err := svc.List(bg, as(other))
	require.NoError(t, err)
	assert.Empty(t, list)
}
