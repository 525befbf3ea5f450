package reqid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PascalSeth/trendiwear/config"
)

func TestMiddleware(t *testing.T) {
	var seen string
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromCtx(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(Header))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Header, "upstream-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-1", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Header, strings.Repeat("x", 500))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Len(t, seen, 36)
}

func TestClientIP(t *testing.T) {
	var ip string
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = ClientIP(r.Context())
	})
	h := Middleware()(capture)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "10.0.0.9", ip)

	req.Header.Set("X-Forwarded-For", "203.0.113.4, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "10.0.0.9", ip, "untrusted peers cannot set their address")

	prev := config.Get("TRUSTED_PROXIES", "")
	config.Set("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.7")
	t.Cleanup(func() { config.Set("TRUSTED_PROXIES", prev) })
	h = Middleware()(capture)

	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "203.0.113.4", ip)

	req.Header.Set("X-Forwarded-For", "198.51.100.1, 203.0.113.4, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "203.0.113.4", ip, "hops left of the first untrusted one are ignored")
}

func TestParseProxies(t *testing.T) {
	ps := ParseProxies("10.0.0.0/8, 192.0.2.7, junk,")
	assert.Len(t, ps, 2)
	assert.True(t, ps.contains("10.200.1.1"))
	assert.True(t, ps.contains("192.0.2.7"))
	assert.False(t, ps.contains("192.0.2.8"))
	assert.False(t, ps.contains("not-an-ip"))
}
