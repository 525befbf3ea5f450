package services

import (
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/pkg/auth"
)

func TestProductCreate(t *testing.T) {
	db := newDB(t)
	proUser, _ := makeProfessional(t, db)
	customer := makeUser(t, db, auth.RoleCustomer)
	cat := makeCategory(t, db, nil)
	products := NewProductService()

	in := ProductInput{Name: "Ankara Shirt", Price: decimal.RequireFromString("19.999"), StockQuantity: 4,
		CategoryID: cat.ID, Sizes: []string{"M", "L"}}

	_, err := products.Create(bg, as(customer), in)
	requireStatus(t, err, http.StatusForbidden)

	free := in
	free.Price = decimal.Zero
	_, err = products.Create(bg, as(proUser), free)
	requireStatus(t, err, http.StatusBadRequest)

	free.Price = decimal.RequireFromString("-5")
	_, err = products.Create(bg, as(proUser), free)
	requireStatus(t, err, http.StatusBadRequest)

	noCat := in
	noCat.CategoryID = 9999
	_, err = products.Create(bg, as(proUser), noCat)
	requireStatus(t, err, http.StatusBadRequest)

	p, err := products.Create(bg, as(proUser), in)
	require.NoError(t, err)
	assert.Equal(t, "20", p.Price.String())
	assert.True(t, p.IsActive)

	got, err := products.Find(bg, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"M", "L"}, []string(got.Sizes))
	assert.Zero(t, got.AverageRating)
}

func TestProductUpdateOwnership(t *testing.T) {
	db := newDB(t)
	_, prof := makeProfessional(t, db)
	otherPro, _ := makeProfessional(t, db)
	product := makeProduct(t, db, prof, "50", 2)

	_, err := NewProductService().Update(bg, as(otherPro), product.ID, ProductInput{
		Name: "Stolen", Price: decimal.NewFromInt(1), CategoryID: product.CategoryID,
	})
	requireStatus(t, err, http.StatusForbidden)
	requireStatus(t, NewProductService().Delete(bg, as(otherPro), product.ID), http.StatusForbidden)
}

func TestMonthlyGrowth(t *testing.T) {
	assert.Equal(t, 0.0, MonthlyGrowth(5, 0))
	assert.Equal(t, 50.0, MonthlyGrowth(15, 10))
	assert.Equal(t, -22.22, MonthlyGrowth(7, 9))
	assert.Equal(t, -100.0, MonthlyGrowth(0, 3))
}

func TestDashboardRequiresAdmin(t *testing.T) {
	db := newDB(t)
	customer := makeUser(t, db, auth.RoleCustomer)
	_, err := NewDashboardService(nil).Stats(bg, as(customer))
	requireStatus(t, err, http.StatusForbidden)
}

func TestShowcaseRollupAndInvalidation(t *testing.T) {
	db := newDB(t)
	_, prof := makeProfessional(t, db)
	super := makeUser(t, db, auth.RoleSuperAdmin)
	admin := makeUser(t, db, auth.RoleAdmin)
	customer := makeUser(t, db, auth.RoleCustomer)
	featured := makeProduct(t, db, prof, "90", 2)
	makeProduct(t, db, prof, "40", 2)

	var flushed []string
	prev := flushCache
	flushCache = func(prefix string) error {
		flushed = append(flushed, prefix)
		return nil
	}
	t.Cleanup(func() { flushCache = prev })

	products := NewProductService()
	page, err := products.Showcase(bg, Page{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = products.SetShowcase(bg, as(admin), featured.ID, true)
	requireStatus(t, err, http.StatusForbidden)
	assert.Empty(t, flushed)

	p, err := products.SetShowcase(bg, as(super), featured.ID, true)
	require.NoError(t, err)
	assert.True(t, p.IsShowcaseApproved)
	assert.Equal(t, []string{showcaseCachePrefix}, flushed)

	page, err = products.Showcase(bg, Page{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 0.0, page.Items[0].AverageRating)
	assert.EqualValues(t, 0, page.Items[0].ReviewCount)
	assert.NotNil(t, page.Items[0].Professional)

	_, err = NewReviewService().Create(bg, as(customer), ReviewInput{ProductID: &featured.ID, Rating: 5})
	require.NoError(t, err)
	assert.Len(t, flushed, 2)

	page, err = products.Showcase(bg, Page{})
	require.NoError(t, err)
	assert.Equal(t, 5.0, page.Items[0].AverageRating)
	assert.EqualValues(t, 1, page.Items[0].ReviewCount)

	assert.True(t, strings.HasPrefix(showcaseKey(2, 20), showcaseCachePrefix))
}
