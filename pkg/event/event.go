// Package event is an in-process publish/subscribe bus. Services fire
// domain events; listeners push them to the admin live feed and queue
// notifications.
//
//	event.Listen(events.OrderPlaced, func(ctx context.Context, p any) { ... })
//	event.Fire(ctx, events.OrderPlaced, order)
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/PascalSeth/trendiwear/pkg/logger"
)

type Handler func(ctx context.Context, payload any)

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
	inflight sync.WaitGroup
)

func Listen(name string, h Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[name] = append(handlers[name], h)
}

func snapshot(name string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	return append([]Handler(nil), handlers[name]...)
}

// Fire runs every listener in the caller's goroutine. A panicking
// listener is logged and does not stop the others.
func Fire(ctx context.Context, name string, payload any) {
	for _, h := range snapshot(name) {
		call(ctx, name, h, payload)
	}
}

// FireAsync runs listeners in background goroutines. The context is
// detached from cancellation so work survives the end of the request.
func FireAsync(ctx context.Context, name string, payload any) {
	ctx = context.WithoutCancel(ctx)
	for _, h := range snapshot(name) {
		inflight.Add(1)
		go func(h Handler) {
			defer inflight.Done()
			call(ctx, name, h, payload)
		}(h)
	}
}

// Drain waits for FireAsync listeners still running. Called on shutdown.
func Drain() { inflight.Wait() }

func call(ctx context.Context, name string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event listener panicked", "event", name, "panic", fmt.Sprint(r))
		}
	}()
	h(ctx, payload)
}

// Flush removes every listener. Tests only.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
