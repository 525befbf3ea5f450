package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PascalSeth/trendiwear/pkg/ctx"
	"github.com/PascalSeth/trendiwear/pkg/database"
	"github.com/PascalSeth/trendiwear/pkg/router"
	"github.com/PascalSeth/trendiwear/pkg/testkit"
)

func serve(h http.Handler, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestHealth(t *testing.T) {
	testkit.NewDB(t)
	h := New().Handler()

	rec, body := serve(h, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["data"].(map[string]any)["database"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHealthWithoutDatabase(t *testing.T) {
	prev := database.DB
	database.DB = nil
	t.Cleanup(func() { database.DB = prev })

	rec, body := serve(New().Handler(), http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "database unavailable", body["error"])
}

func TestRoutesAndFallbacks(t *testing.T) {
	a := New().Routes(func(r *router.Router) {
		r.Get("/api/ping", "ping", ctx.Wrap(func(c *ctx.Context) { c.Message("pong") }))
	})
	h := a.Handler()

	rec, body := serve(h, http.MethodGet, "/api/ping")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", body["data"].(map[string]any)["message"])

	rec, body = serve(h, http.MethodGet, "/api/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", body["error"])

	rec, _ = serve(h, http.MethodDelete, "/api/ping")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	names := map[string]bool{}
	for _, rt := range a.Router().Routes() {
		names[rt.Name] = true
	}
	assert.True(t, names["ping"])
}
