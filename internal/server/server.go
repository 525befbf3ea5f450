// Package server wires the marketplace onto pkg/app: routes, the admin
// live feed, the storefront GraphQL endpoint, local file serving,
// listeners, queue workers and scheduled maintenance.
package server

import (
	"context"
	"net/http"

	"github.com/PascalSeth/trendiwear/app/graph"
	"github.com/PascalSeth/trendiwear/app/listeners"
	"github.com/PascalSeth/trendiwear/app/routes"
	"github.com/PascalSeth/trendiwear/config"
	"github.com/PascalSeth/trendiwear/pkg/app"
	"github.com/PascalSeth/trendiwear/pkg/graphql"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/notification"
	"github.com/PascalSeth/trendiwear/pkg/queue"
	"github.com/PascalSeth/trendiwear/pkg/router"
	"github.com/PascalSeth/trendiwear/pkg/schedule"
	"github.com/PascalSeth/trendiwear/pkg/storage"
	"github.com/PascalSeth/trendiwear/pkg/workerpool"
	"github.com/PascalSeth/trendiwear/pkg/ws"
)

// New assembles the application without touching external services, so
// route:list can use it too.
func New(hub *ws.Hub, pool *workerpool.Pool) (*app.Application, error) {
	schema, err := graph.Schema()
	if err != nil {
		return nil, err
	}
	a := app.New().
		Routes(func(r *router.Router) {
			routes.RegisterAPI(r, routes.Deps{Pool: pool, Live: hub})
			r.HandleFunc("/graphql", "graphql", graphql.Handler(schema).ServeHTTP)
		})
	if d, err := storage.Use("local"); err == nil {
		if local, ok := d.(*storage.LocalDisk); ok {
			a.Mount("/storage", http.StripPrefix("/storage", http.FileServer(http.Dir(local.Root()))))
		}
	}
	return a, nil
}

// Start boots every dependency and serves until ctx is cancelled.
func Start(ctx context.Context) error {
	if err := app.Boot(ctx); err != nil {
		return err
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	pool := workerpool.New(config.Int("WORKER_POOL_SIZE", 8))

	listeners.Register(hub)
	notification.RegisterJobs(queue.Default())

	if n := config.Int("QUEUE_WORKERS", 2); n > 0 {
		queue.StartWorkers(ctx, n)
	}

	RegisterTasks()
	if config.Bool("SCHEDULER_ENABLED", true) {
		if err := schedule.Start(ctx); err != nil {
			return err
		}
	}

	a, err := New(hub, pool)
	if err != nil {
		return err
	}
	a.OnShutdown(app.Shutdown).OnShutdown(pool.Shutdown)

	logger.Info("trendiwear ready", "queue", config.QueueDriver(), "storage", storage.Default().Name())
	return a.Serve(ctx)
}
