package server

import (
	"context"
	"sync"

	"github.com/PascalSeth/trendiwear/app/services"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/schedule"
)

const (
	TaskAuditPrune     = "audit:prune"
	TaskBookingsExpire = "bookings:expire"
)

var registerOnce sync.Once

// RegisterTasks adds the maintenance jobs to the scheduler.
func RegisterTasks() {
	registerOnce.Do(func() {
		audit := services.NewAuditService()
		bookings := services.NewBookingService()

		if err := schedule.Daily().At("03:00").Name(TaskAuditPrune).WithoutOverlapping().
			Run(func(ctx context.Context) error {
				_, err := audit.Prune(ctx)
				return err
			}); err != nil {
			logger.Error("schedule audit prune", "error", err)
		}

		if err := schedule.Hourly().Name(TaskBookingsExpire).WithoutOverlapping().
			Run(func(ctx context.Context) error {
				_, err := bookings.ExpireStale(ctx)
				return err
			}); err != nil {
			logger.Error("schedule booking expiry", "error", err)
		}
	})
}
