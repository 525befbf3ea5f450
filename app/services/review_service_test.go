package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/pkg/auth"
)

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 4.3, AverageRating([]int{5, 4, 4}))
	assert.Equal(t, 5.0, AverageRating([]int{5}))
}

func TestReviewCreateRules(t *testing.T) {
	db := newDB(t)
	proUser, prof := makeProfessional(t, db)
	product := makeProduct(t, db, prof, "80", 3)
	customer := makeUser(t, db, auth.RoleCustomer)
	reviews := NewReviewService()

	r, err := reviews.Create(bg, as(customer), ReviewInput{ProductID: &product.ID, Rating: 4, Comment: "Fits well"})
	require.NoError(t, err)
	assert.Equal(t, 4, r.Rating)

	_, err = reviews.Create(bg, as(customer), ReviewInput{ProductID: &product.ID, Rating: 5})
	requireStatus(t, err, http.StatusConflict)

	_, err = reviews.Create(bg, as(proUser), ReviewInput{ProfessionalID: &prof.ID, Rating: 5})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = reviews.Create(bg, as(proUser), ReviewInput{ProductID: &product.ID, Rating: 5})
	requireStatus(t, err, http.StatusBadRequest)
	assert.Contains(t, err.Error(), "your own product")

	_, err = reviews.Create(bg, as(customer), ReviewInput{ProductID: &product.ID, ProfessionalID: &prof.ID, Rating: 3})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = reviews.Create(bg, as(customer), ReviewInput{ProfessionalID: &prof.ID, Rating: 6})
	requireStatus(t, err, http.StatusBadRequest)

	missing := uint(9999)
	_, err = reviews.Create(bg, as(customer), ReviewInput{ProductID: &missing, Rating: 3})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = reviews.Create(bg, as(customer), ReviewInput{ProfessionalID: &prof.ID, Rating: 5})
	require.NoError(t, err)

	rated, err := NewProductService().Find(bg, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, rated.AverageRating)
	assert.Equal(t, int64(1), rated.ReviewCount)
}

func TestReviewDeleteOwnership(t *testing.T) {
	db := newDB(t)
	_, prof := makeProfessional(t, db)
	product := makeProduct(t, db, prof, "80", 3)
	author := makeUser(t, db, auth.RoleCustomer)
	other := makeUser(t, db, auth.RoleCustomer)
	admin := makeUser(t, db, auth.RoleAdmin)
	reviews := NewReviewService()

	r, err := reviews.Create(bg, as(author), ReviewInput{ProductID: &product.ID, Rating: 2})
	require.NoError(t, err)

	requireStatus(t, reviews.Delete(bg, as(other), r.ID), http.StatusForbidden)
	require.NoError(t, reviews.Delete(bg, as(admin), r.ID))
	requireStatus(t, reviews.Delete(bg, as(admin), r.ID), http.StatusNotFound)

	var audits int64
	require.NoError(t, db.Table("audit_logs").Where("action = ?", "review.deleted").Count(&audits).Error)
	assert.Equal(t, int64(1), audits)
}
