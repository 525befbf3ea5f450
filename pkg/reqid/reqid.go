// Package reqid propagates a per-request ID through context and the
// X-Request-ID header, along with the caller's IP for audit rows and rate
// limiting. X-Forwarded-For is only read when the direct peer is listed in
// TRUSTED_PROXIES (comma-separated IPs or CIDRs).
//
//	id := reqid.FromCtx(r.Context())
package reqid

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/google/uuid"

	"github.com/PascalSeth/trendiwear/config"
)

type ctxKey struct{}

type ipKey struct{}

// Header carries the ID in both directions.
const Header = "X-Request-ID"

// maxLen caps client-supplied IDs.
const maxLen = 128

func New() string {
	return uuid.NewString()
}

func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx returns "" when no ID is present.
func FromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Middleware reuses an upstream X-Request-ID or mints a new one, and
// echoes it on the response.
func Middleware() func(http.Handler) http.Handler {
	trusted := ParseProxies(config.Get("TRUSTED_PROXIES", ""))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if id == "" || len(id) > maxLen {
				id = New()
			}
			w.Header().Set(Header, id)
			ctx := WithClientIP(WithValue(r.Context(), id), trusted.ClientIP(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipKey{}, ip)
}

func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ipKey{}).(string)
	return ip
}

// Proxies is a set of trusted proxy ranges.
type Proxies []netip.Prefix

// ParseProxies skips entries that are neither an IP nor a CIDR.
func ParseProxies(list string) Proxies {
	var out Proxies
	for _, f := range strings.Split(list, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if p, err := netip.ParsePrefix(f); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(f); err == nil {
			out = append(out, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return out
}

func (ps Proxies) contains(host string) bool {
	a, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range ps {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ClientIP walks X-Forwarded-For from the right while hops are trusted and
// returns the first untrusted one. An untrusted peer is taken as is.
func (ps Proxies) ClientIP(r *http.Request) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		peer = host
	}
	if !ps.contains(peer) {
		return peer
	}

	client := peer
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if _, err := netip.ParseAddr(hop); err != nil {
			break
		}
		client = hop
		if !ps.contains(hop) {
			break
		}
	}
	return client
}
