package auth

import (
	"context"
	"errors"
)

const (
	RoleCustomer     = "CUSTOMER"
	RoleProfessional = "PROFESSIONAL"
	RoleAdmin        = "ADMIN"
	RoleSuperAdmin   = "SUPER_ADMIN"
)

// Returned by principal loaders when a token outlives its account.
var (
	ErrAccountNotFound = errors.New("auth: account not found")
	ErrAccountDisabled = errors.New("auth: account disabled")
)

// Principal is the authenticated caller.
type Principal struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"`
}

// HasRole reports whether the caller holds any of roles.
func (p Principal) HasRole(roles ...string) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin is true for ADMIN and SUPER_ADMIN.
func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin, RoleSuperAdmin)
}

// Owns reports whether userID is the caller, or the caller is an admin.
func (p Principal) Owns(userID uint) bool {
	return p.UserID == userID || p.IsAdmin()
}

// ValidRole reports whether role is one of the four known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleProfessional, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal set by the auth middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.UserID != 0
}
