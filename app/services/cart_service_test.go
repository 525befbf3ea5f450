package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
)

func TestCartAddMergesLines(t *testing.T) {
	db := newDB(t)
	_, prof := makeProfessional(t, db)
	p := makeProduct(t, db, prof, "120.00", 10)
	u := makeUser(t, db, auth.RoleCustomer)
	svc := NewCartService()

	_, err := svc.Add(bg, as(u), AddToCartInput{ProductID: p.ID, Quantity: 1, Size: "M"})
	require.NoError(t, err)
	item, err := svc.Add(bg, as(u), AddToCartInput{ProductID: p.ID, Quantity: 2, Size: "M"})
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	_, err = svc.Add(bg, as(u), AddToCartInput{ProductID: p.ID, Quantity: 1, Size: "L"})
	require.NoError(t, err)

	cart, err := svc.Get(bg, as(u))
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 4, cart.ItemCount)
	assert.Equal(t, "480", cart.Subtotal.String())
}

func TestCartAddBoundedByStock(t *testing.T) {
	db := newDB(t)
	_, prof := makeProfessional(t, db)
	p := makeProduct(t, db, prof, "50.00", 3)
	u := makeUser(t, db, auth.RoleCustomer)
	svc := NewCartService()

	_, err := svc.Add(bg, as(u), AddToCartInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.Add(bg, as(u), AddToCartInput{ProductID: p.ID, Quantity: 2})
	requireStatus(t, err, http.StatusBadRequest)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Only 3 in stock", ae.Message)

	var line models.CartItem
	require.NoError(t, db.Where("user_id = ?", u.ID).First(&line).Error)
	assert.Equal(t, 2, line.Quantity)
}

func TestCartAddMissingProduct(t *testing.T) {
	db := newDB(t)
	u := makeUser(t, db, auth.RoleCustomer)

	_, err := NewCartService().Add(bg, as(u), AddToCartInput{ProductID: 999, Quantity: 1})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestCartUpdateQuantityBounds(t *testing.T) {
	db := newDB(t)
	_, prof := makeProfessional(t, db)
	p := makeProduct(t, db, prof, "75.00", 5)
	u := makeUser(t, db, auth.RoleCustomer)
	svc := NewCartService()

	item, err := svc.Add(bg, as(u), AddToCartInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	for _, qty := range []int{0, -1, 6} {
		_, err := svc.UpdateQuantity(bg, as(u), item.ID, qty)
		requireStatus(t, err, http.StatusBadRequest)
	}
	var line models.CartItem
	require.NoError(t, db.First(&line, item.ID).Error)
	assert.Equal(t, 2, line.Quantity)

	updated, err := svc.UpdateQuantity(bg, as(u), item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
}

func TestCartLinesArePrivate(t *testing.T) {
	db := newDB(t)
	_, prof := makeProfessional(t, db)
	p := makeProduct(t, db, prof, "75.00", 5)
	owner := makeUser(t, db, auth.RoleCustomer)
	other := makeUser(t, db, auth.RoleCustomer)
	svc := NewCartService()

	item, err := svc.Add(bg, as(owner), AddToCartInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	requireStatus(t, svc.Remove(bg, as(other), item.ID), http.StatusNotFound)
	_, err = svc.UpdateQuantity(bg, as(other), item.ID, 2)
	requireStatus(t, err, http.StatusNotFound)

	require.NoError(t, svc.Clear(bg, as(owner)))
	cart, err := svc.Get(bg, as(owner))
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Subtotal.IsZero())
}
