// Package app boots process-wide handles and runs the HTTP and gRPC
// servers. It knows nothing about routes or models; callers inject them.
//
//	a := app.New().
//	    Routes(func(r *router.Router) { routes.RegisterAPI(r, deps) }).
//	    OnShutdown(pool.Shutdown)
//	err := a.Serve(ctx)
package app

import (
	"net/http"

	"github.com/PascalSeth/trendiwear/pkg/router"
)

type Application struct {
	routesFns  []func(*router.Router)
	mounts     []mount
	onShutdown []func()
}

type mount struct {
	path string
	h    http.Handler
}

func New() *Application {
	return &Application{}
}

// Routes adds a route-registration callback. Callbacks run in order.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Mount attaches a handler that owns every path under path.
func (a *Application) Mount(path string, h http.Handler) *Application {
	a.mounts = append(a.mounts, mount{path: path, h: h})
	return a
}

// OnShutdown registers cleanup run after the servers stop, in reverse
// order of registration.
func (a *Application) OnShutdown(fn func()) *Application {
	a.onShutdown = append(a.onShutdown, fn)
	return a
}

// Router builds a router with every registered route; route:list uses it.
func (a *Application) Router() *router.Router {
	r := router.New()
	for _, fn := range a.routesFns {
		fn(r)
	}
	return r
}
