package app

import (
	"context"
	"net/http"
	"time"

	"github.com/PascalSeth/trendiwear/config"
	"github.com/PascalSeth/trendiwear/pkg/database"
	"github.com/PascalSeth/trendiwear/pkg/metrics"
	"github.com/PascalSeth/trendiwear/pkg/middleware"
	"github.com/PascalSeth/trendiwear/pkg/reqid"
	"github.com/PascalSeth/trendiwear/pkg/response"
	"github.com/PascalSeth/trendiwear/pkg/router"
)

// Handler assembles the global middleware stack, the operational
// endpoints and every registered route.
//
// Order, outermost first: metrics, recovery, request ID, request log,
// CORS, per-IP rate limit.
func (a *Application) Handler() http.Handler {
	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	stop := make(chan struct{})
	a.OnShutdown(func() { close(stop) })
	r.Use(middleware.RateLimit(config.Int("RATE_LIMIT_PER_MINUTE", 200), stop))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", "health", health)
	r.HandleFunc("/metrics", "metrics", metrics.Handler())

	for _, m := range a.mounts {
		r.Mount(m.path, m.h)
	}
	for _, fn := range a.routesFns {
		fn(r)
	}
	return r.Handler()
}

func health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		response.Write(w, http.StatusServiceUnavailable, map[string]any{
			"status": "error", "error": "database unavailable",
		})
		return
	}
	response.Success(w, map[string]any{"database": "ok", "time": time.Now().UTC()})
}
