package app

import (
	"context"
	"fmt"

	"github.com/PascalSeth/trendiwear/config"
	"github.com/PascalSeth/trendiwear/pkg/cache"
	"github.com/PascalSeth/trendiwear/pkg/database"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/queue"
	"github.com/PascalSeth/trendiwear/pkg/storage"
)

// BootDB loads configuration and opens the database. Enough for the
// migrate and seed commands.
func BootDB() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.EnableMongo()
	return database.Connect()
}

// Boot brings up everything a serving or worker process needs. Redis is
// optional: without it the cache degrades to misses and the queue runs
// in memory.
func Boot(ctx context.Context) error {
	if err := BootDB(); err != nil {
		return err
	}

	redisUp := true
	if err := cache.Connect(); err != nil {
		redisUp = false
		logger.Warn("cache disabled", "error", err)
	}

	if err := storage.Connect(ctx); err != nil {
		return err
	}

	queue.UseDB(database.DB)
	switch config.QueueDriver() {
	case "redis":
		if !redisUp {
			return fmt.Errorf("queue: QUEUE_DRIVER=redis but redis is unreachable")
		}
		d := queue.NewRedisDriver(cache.RDB)
		go d.RunPromoter(ctx)
		queue.SetDriver(d)
	default:
		queue.SetDriver(queue.NewMemoryDriver(config.Int("QUEUE_BUFFER", 1024)))
	}
	return nil
}

// Shutdown releases process-wide handles opened by Boot.
func Shutdown() {
	queue.Wait()
	if err := database.Close(); err != nil {
		logger.Warn("database close", "error", err)
	}
	if cache.RDB != nil {
		_ = cache.RDB.Close()
	}
	logger.Close()
}
