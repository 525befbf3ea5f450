package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/auth"
)

func TestCategoryDeleteGuards(t *testing.T) {
	db := newDB(t)
	admin := makeUser(t, db, auth.RoleAdmin)
	_, prof := makeProfessional(t, db)
	categories := NewCategoryService()

	product := makeProduct(t, db, prof, "60", 1)
	err := categories.Delete(bg, as(admin), product.CategoryID)
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "existing products")

	parent := makeCategory(t, db, nil)
	makeCategory(t, db, &parent.ID)
	err = categories.Delete(bg, as(admin), parent.ID)
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "subcategories")

	var n int64
	require.NoError(t, db.Model(&models.Category{}).Where("id IN ?", []uint{product.CategoryID, parent.ID}).Count(&n).Error)
	assert.Equal(t, int64(2), n)

	empty := makeCategory(t, db, nil)
	require.NoError(t, categories.Delete(bg, as(admin), empty.ID))
	requireStatus(t, categories.Delete(bg, as(admin), empty.ID), http.StatusNotFound)
}

func TestCategoryCreateAndReparent(t *testing.T) {
	db := newDB(t)
	admin := makeUser(t, db, auth.RoleAdmin)
	categories := NewCategoryService()

	top, err := categories.Create(bg, as(admin), CategoryInput{Name: "Women Wear"})
	require.NoError(t, err)
	assert.Equal(t, "women-wear", top.Slug)
	assert.True(t, top.IsActive)

	_, err = categories.Create(bg, as(admin), CategoryInput{Name: "Women wear"})
	requireStatus(t, err, http.StatusConflict)

	missing := uint(4040)
	_, err = categories.Create(bg, as(admin), CategoryInput{Name: "Orphan", ParentID: &missing})
	requireStatus(t, err, http.StatusBadRequest)

	child, err := categories.Create(bg, as(admin), CategoryInput{Name: "Dresses", ParentID: &top.ID})
	require.NoError(t, err)

	_, err = categories.Update(bg, as(admin), top.ID, CategoryInput{Name: "Women Wear", ParentID: &child.ID})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = categories.Update(bg, as(admin), top.ID, CategoryInput{Name: "Women Wear", ParentID: &top.ID})
	requireStatus(t, err, http.StatusBadRequest)
}
