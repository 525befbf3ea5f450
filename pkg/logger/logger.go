// Package logger wraps log/slog with a process-wide logger and a
// request-scoped variant.
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", order.ID, "total", order.TotalPrice)
package logger

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/PascalSeth/trendiwear/config"
)

var L *slog.Logger

var (
	mongoMu   sync.Mutex
	mongoSink *MongoHandler
)

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

func baseHandler() slog.Handler {
	if config.IsProduction() {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// EnableMongo tees every record into MongoDB when LOG_MONGO_URI is set.
// A connection failure is logged and the stdout logger is kept.
func EnableMongo() {
	uri := config.Get("LOG_MONGO_URI", "")
	if uri == "" {
		return
	}

	mongoMu.Lock()
	defer mongoMu.Unlock()
	if mongoSink != nil {
		return
	}

	h, err := NewMongoHandler(uri,
		config.Get("LOG_MONGO_DB", "trendiwear"),
		config.Get("LOG_MONGO_COLLECTION", "logs"))
	if err != nil {
		L.Warn("mongo log sink disabled", "error", err)
		return
	}

	mongoSink = h
	L = slog.New(NewMultiHandler(baseHandler(), h))
	slog.SetDefault(L)
	L.Info("mongo log sink enabled")
}

// Close flushes the mongo sink, if any.
func Close() {
	mongoMu.Lock()
	defer mongoMu.Unlock()
	if mongoSink != nil {
		mongoSink.Close()
		mongoSink = nil
	}
}

type ctxKey struct{}

// WithCtx returns the request logger stored by the Logger middleware, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
