package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PascalSeth/trendiwear/config"
	"github.com/PascalSeth/trendiwear/pkg/database"
	"github.com/PascalSeth/trendiwear/pkg/event"
	"github.com/PascalSeth/trendiwear/pkg/grpc"
	"github.com/PascalSeth/trendiwear/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Serve runs the HTTP server on APP_PORT and the gRPC health server on
// GRPC_PORT until ctx is cancelled, then drains both.
func (a *Application) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	gs, err := grpc.Start(config.GRPCPort(), database.Ping)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			gs.Stop()
			a.shutdown()
			return err
		}
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	gs.Stop()
	event.Drain()
	a.shutdown()
	logger.Info("shutdown complete")
	return nil
}

func (a *Application) shutdown() {
	for i := len(a.onShutdown) - 1; i >= 0; i-- {
		a.onShutdown[i]()
	}
}
