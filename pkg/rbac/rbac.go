// Package rbac gates routes by the caller's role. Mount after middleware.Auth.
//
//	r.With(rbac.HasRole(auth.RoleAdmin, auth.RoleSuperAdmin)).Post(...)
package rbac

import (
	"net/http"

	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/middleware"
	"github.com/PascalSeth/trendiwear/pkg/response"
)

// HasRole allows only callers holding one of roles.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok {
				response.Unauthorized(w)
				return
			}
			if !allowed[role] {
				response.Error(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin allows ADMIN and SUPER_ADMIN.
func Admin() func(http.Handler) http.Handler {
	return HasRole(auth.RoleAdmin, auth.RoleSuperAdmin)
}

// SuperAdmin allows SUPER_ADMIN only.
func SuperAdmin() func(http.Handler) http.Handler {
	return HasRole(auth.RoleSuperAdmin)
}

// Guest blocks callers that are already authenticated.
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.UserIDFromCtx(r); ok {
			response.Error(w, http.StatusConflict, "Already authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}
