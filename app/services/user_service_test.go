package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/app/models"
	"github.com/PascalSeth/trendiwear/pkg/auth"
)

func ptr[T any](v T) *T { return &v }

func TestUserUpdateRoleRules(t *testing.T) {
	db := newDB(t)
	super := makeUser(t, db, auth.RoleSuperAdmin)
	admin := makeUser(t, db, auth.RoleAdmin)
	customer := makeUser(t, db, auth.RoleCustomer)
	users := NewUserService()

	_, err := users.Update(bg, as(customer), customer.ID, UpdateUserInput{Role: ptr(auth.RoleProfessional)})
	requireStatus(t, err, http.StatusForbidden)

	_, err = users.Update(bg, as(admin), customer.ID, UpdateUserInput{Role: ptr(auth.RoleAdmin)})
	requireStatus(t, err, http.StatusForbidden)
	_, err = users.Update(bg, as(admin), super.ID, UpdateUserInput{IsActive: ptr(false)})
	requireStatus(t, err, http.StatusForbidden)
	_, err = users.Update(bg, as(super), super.ID, UpdateUserInput{Role: ptr(auth.RoleCustomer)})
	requireStatus(t, err, http.StatusBadRequest)

	u, err := users.Update(bg, as(super), customer.ID, UpdateUserInput{Role: ptr(auth.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, u.Role)

	name, err := users.Update(bg, as(customer), customer.ID, UpdateUserInput{Name: ptr("Ama Owusu")})
	require.NoError(t, err)
	assert.Equal(t, "Ama Owusu", name.Name)

	var audits int64
	require.NoError(t, db.Table("audit_logs").Where("action = ?", "user.updated").Count(&audits).Error)
	assert.EqualValues(t, 1, audits)
}

func TestUserChangesRefreshPrincipal(t *testing.T) {
	db := newDB(t)
	super := makeUser(t, db, auth.RoleSuperAdmin)
	admin := makeUser(t, db, auth.RoleAdmin)
	customer := makeUser(t, db, auth.RoleCustomer)

	var forgotten []string
	prev := forgetCache
	forgetCache = func(key string) error {
		forgotten = append(forgotten, key)
		return nil
	}
	t.Cleanup(func() { forgetCache = prev })

	authn := NewAuthService()
	p, err := authn.Principal(bg, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, p.Role)

	users := NewUserService()
	_, err = users.Update(bg, as(super), admin.ID, UpdateUserInput{Role: ptr(auth.RoleCustomer)})
	require.NoError(t, err)
	assert.Equal(t, []string{principalKey(admin.ID)}, forgotten)
	p, err = authn.Principal(bg, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleCustomer, p.Role)

	_, err = users.Update(bg, as(super), admin.ID, UpdateUserInput{IsActive: ptr(false)})
	require.NoError(t, err)
	_, err = authn.Principal(bg, admin.ID)
	assert.True(t, errors.Is(err, auth.ErrAccountDisabled))

	require.NoError(t, users.Delete(bg, as(super), customer.ID))
	assert.Contains(t, forgotten, principalKey(customer.ID))
	_, err = authn.Principal(bg, customer.ID)
	assert.True(t, errors.Is(err, auth.ErrAccountNotFound))

	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", customer.ID).Count(&n).Error)
	assert.Zero(t, n)
}
