package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/apperr"
	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/testkit"
)

var seq atomic.Int64

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testkit.NewDB(t, models.All()...)
}

func as(u models.User) auth.Principal { return u.Principal() }

func makeUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	n := seq.Add(1)
	u := models.User{
		Name:     fmt.Sprintf("User %d", n),
		Email:    fmt.Sprintf("user%d@trendiwear.test", n),
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func makeProfessional(t *testing.T, db *gorm.DB) (models.User, models.ProfessionalProfile) {
	t.Helper()
	u := makeUser(t, db, auth.RoleProfessional)
	pt := models.ProfessionalType{Name: fmt.Sprintf("Tailor %d", seq.Add(1)), IsActive: true}
	require.NoError(t, db.Create(&pt).Error)
	p := models.ProfessionalProfile{UserID: u.ID, ProfessionalTypeID: pt.ID, BusinessName: "Atelier " + u.Name}
	require.NoError(t, db.Create(&p).Error)
	return u, p
}

func makeCategory(t *testing.T, db *gorm.DB, parent *uint) models.Category {
	t.Helper()
	n := seq.Add(1)
	c := models.Category{Name: fmt.Sprintf("Category %d", n), Slug: fmt.Sprintf("category-%d", n), ParentID: parent, IsActive: true}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func makeProduct(t *testing.T, db *gorm.DB, prof models.ProfessionalProfile, price string, stock int) models.Product {
	t.Helper()
	cat := makeCategory(t, db, nil)
	p := models.Product{
		Name:           fmt.Sprintf("Kente Dress %d", seq.Add(1)),
		Price:          decimal.RequireFromString(price),
		StockQuantity:  stock,
		CategoryID:     cat.ID,
		ProfessionalID: prof.ID,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func makeAddress(t *testing.T, db *gorm.DB, userID uint, isDefault bool) models.Address {
	t.Helper()
	a := models.Address{UserID: userID, FullName: "Ama Mensah", Phone: "+233201234567",
		Street: "12 Oxford St", City: "Accra", Country: "Ghana", IsDefault: isDefault}
	require.NoError(t, db.Create(&a).Error)
	return a
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.StockQuantity
}

// requireStatus asserts err is an *apperr.Error with the given status.
func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, status, apperr.StatusOf(err), "error: %v", err)
}

var bg = context.Background()
