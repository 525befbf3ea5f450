package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/PascalSeth/trendiwear/pkg/auth"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/response"
)

// bearer extracts the token from the Authorization header, falling back to
// the token query parameter (browsers cannot set headers on websockets).
func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return r.URL.Query().Get("token")
}

// PrincipalLoader resolves the caller from storage so a role change or a
// disabled account takes effect before the token expires.
type PrincipalLoader func(ctx context.Context, userID uint) (auth.Principal, error)

var (
	loaderMu sync.RWMutex
	loader   PrincipalLoader
)

// SetPrincipalLoader installs fn for Auth and OptionalAuth. With no loader
// the signed claims are trusted as-is.
func SetPrincipalLoader(fn PrincipalLoader) {
	loaderMu.Lock()
	loader = fn
	loaderMu.Unlock()
}

func resolve(ctx context.Context, claims *auth.Claims) (auth.Principal, error) {
	loaderMu.RLock()
	fn := loader
	loaderMu.RUnlock()
	if fn == nil {
		return claims.Principal(), nil
	}
	return fn(ctx, claims.UserID)
}

func withPrincipal(r *http.Request, p auth.Principal) *http.Request {
	ctx := auth.WithPrincipal(r.Context(), p)
	ctx = logger.InjectLogger(ctx, logger.WithCtx(ctx).With("user_id", p.UserID))
	return r.WithContext(ctx)
}

// Auth rejects requests without a valid access token and stores the
// caller's principal in the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearer(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		p, err := resolve(r.Context(), claims)
		switch {
		case errors.Is(err, auth.ErrAccountDisabled):
			response.Error(w, http.StatusForbidden, "Account is disabled")
			return
		case errors.Is(err, auth.ErrAccountNotFound):
			response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		case err != nil:
			logger.WithCtx(r.Context()).Error("resolve principal", "error", err)
			response.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		next.ServeHTTP(w, withPrincipal(r, p))
	})
}

// OptionalAuth attaches the principal when a valid token is present and
// lets anonymous requests through otherwise.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearer(r); token != "" {
			if claims, err := auth.ValidateToken(token); err == nil {
				if p, err := resolve(r.Context(), claims); err == nil {
					r = withPrincipal(r, p)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func PrincipalFromCtx(r *http.Request) (auth.Principal, bool) {
	return auth.FromContext(r.Context())
}

func RoleFromCtx(r *http.Request) (string, bool) {
	p, ok := auth.FromContext(r.Context())
	return p.Role, ok
}

func UserIDFromCtx(r *http.Request) (uint, bool) {
	p, ok := auth.FromContext(r.Context())
	return p.UserID, ok
}
