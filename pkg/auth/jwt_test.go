package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	tok, err := GenerateToken(42, RoleProfessional)
	require.NoError(t, err)

	claims, err := ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: 42, Role: RoleProfessional}, claims.Principal())
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	refresh, err := GenerateRefreshToken(1, RoleCustomer)
	require.NoError(t, err)
	_, err = ValidateToken(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenKind)

	access, err := GenerateToken(1, RoleCustomer)
	require.NoError(t, err)
	_, err = ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenKind)

	_, err = ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestPrincipal(t *testing.T) {
	admin := Principal{UserID: 1, Role: RoleAdmin}
	cust := Principal{UserID: 2, Role: RoleCustomer}

	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.Owns(99))
	assert.False(t, cust.IsAdmin())
	assert.True(t, cust.Owns(2))
	assert.False(t, cust.Owns(3))

	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	p, ok := FromContext(WithPrincipal(context.Background(), cust))
	assert.True(t, ok)
	assert.Equal(t, cust, p)

	assert.True(t, ValidRole(RoleSuperAdmin))
	assert.False(t, ValidRole("ROOT"))
}
