package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/PascalSeth/trendiwear/internal/server"
	"github.com/PascalSeth/trendiwear/pkg/app"
	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/notification"
	"github.com/PascalSeth/trendiwear/pkg/queue"
	"github.com/PascalSeth/trendiwear/pkg/schedule"
)

var (
	queueWorkersFlag int
	scheduleOnceFlag string
)

var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Process queued notification jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := app.Boot(ctx); err != nil {
			return err
		}
		defer app.Shutdown()
		notification.RegisterJobs(queue.Default())

		workers := max(queueWorkersFlag, 1)
		logger.Info("queue worker started", "workers", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		logger.Info("queue worker stopping")
		return nil
	},
}

var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Run the maintenance scheduler, or one task with --once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := app.BootDB(); err != nil {
			return err
		}
		server.RegisterTasks()

		if scheduleOnceFlag != "" {
			return schedule.RunNow(ctx, scheduleOnceFlag)
		}

		for _, t := range schedule.List() {
			fmt.Println("  •", t)
		}
		if err := schedule.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "number of concurrent workers")
	scheduleRunCmd.Flags().StringVar(&scheduleOnceFlag, "once", "", "run the named task once and exit")
}
