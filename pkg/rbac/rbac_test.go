package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PascalSeth/trendiwear/pkg/auth"
)

func serve(h http.Handler, p *auth.Principal) int {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if p != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), *p))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAdmin(t *testing.T) {
	called := 0
	h := Admin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called++ }))

	assert.Equal(t, http.StatusUnauthorized, serve(h, nil))
	assert.Equal(t, http.StatusForbidden, serve(h, &auth.Principal{UserID: 1, Role: auth.RoleCustomer}))
	assert.Equal(t, http.StatusForbidden, serve(h, &auth.Principal{UserID: 1, Role: auth.RoleProfessional}))
	assert.Equal(t, 0, called)

	assert.Equal(t, http.StatusOK, serve(h, &auth.Principal{UserID: 1, Role: auth.RoleAdmin}))
	assert.Equal(t, http.StatusOK, serve(h, &auth.Principal{UserID: 1, Role: auth.RoleSuperAdmin}))
	assert.Equal(t, 2, called)
}

func TestSuperAdmin(t *testing.T) {
	h := SuperAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	assert.Equal(t, http.StatusForbidden, serve(h, &auth.Principal{UserID: 1, Role: auth.RoleAdmin}))
	assert.Equal(t, http.StatusOK, serve(h, &auth.Principal{UserID: 1, Role: auth.RoleSuperAdmin}))
}

func TestGuest(t *testing.T) {
	h := Guest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	assert.Equal(t, http.StatusOK, serve(h, nil))
	assert.Equal(t, http.StatusConflict, serve(h, &auth.Principal{UserID: 3, Role: auth.RoleCustomer}))
}
