// Package schedule registers recurring maintenance tasks and runs them on
// robfig/cron.
//
//	schedule.Daily().At("03:00").Name("audit:prune").Run(pruneAuditLogs)
//	schedule.Hourly().Name("bookings:expire").WithoutOverlapping().Run(expireBookings)
//	schedule.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/PascalSeth/trendiwear/pkg/logger"
)

type Task func(ctx context.Context) error

type entry struct {
	name      string
	spec      string
	task      Task
	noOverlap bool
}

// Schedule builds one entry; Run registers it.
type Schedule struct {
	e *entry
}

var (
	regMu   sync.Mutex
	entries = map[string]*entry{}
	runner  *cron.Cron
)

func EveryMinute() *Schedule { return Every(time.Minute) }
func Hourly() *Schedule      { return Cron("@hourly") }
func Daily() *Schedule       { return Cron("@daily") }
func Weekly() *Schedule      { return Cron("@weekly") }

// Every runs at a fixed interval.
func Every(d time.Duration) *Schedule {
	return Cron("@every " + d.String())
}

// Cron accepts a standard 5-field expression or a descriptor (@daily).
func Cron(spec string) *Schedule {
	return &Schedule{e: &entry{spec: spec}}
}

// At pins a Daily schedule to HH:MM. Malformed input keeps the previous spec.
func (s *Schedule) At(hhmm string) *Schedule {
	hs, ms, _ := strings.Cut(hhmm, ":")
	h, err1 := strconv.Atoi(hs)
	m, err2 := strconv.Atoi(ms)
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return s
	}
	s.e.spec = fmt.Sprintf("%d %d * * *", m, h)
	return s
}

func (s *Schedule) Name(name string) *Schedule {
	s.e.name = name
	return s
}

// WithoutOverlapping skips a run while the previous one is still going.
func (s *Schedule) WithoutOverlapping() *Schedule {
	s.e.noOverlap = true
	return s
}

// Run registers the task. An invalid spec is returned as an error.
func (s *Schedule) Run(t Task) error {
	if _, err := cron.ParseStandard(s.e.spec); err != nil {
		return fmt.Errorf("schedule: %q: %w", s.e.spec, err)
	}
	s.e.task = t

	regMu.Lock()
	defer regMu.Unlock()
	if s.e.name == "" {
		s.e.name = fmt.Sprintf("task-%d", len(entries)+1)
	}
	entries[s.e.name] = s.e
	return nil
}

// Start launches the cron runner; it stops when ctx is cancelled.
func Start(ctx context.Context) error {
	regMu.Lock()
	defer regMu.Unlock()

	c := cron.New(cron.WithChain(cron.Recover(cronLogger{})))
	for _, e := range entries {
		e := e
		var job cron.Job = cron.FuncJob(func() { execute(ctx, e) })
		if e.noOverlap {
			job = cron.NewChain(cron.SkipIfStillRunning(cronLogger{})).Then(job)
		}
		if _, err := c.AddJob(e.spec, job); err != nil {
			return fmt.Errorf("schedule: add %s: %w", e.name, err)
		}
	}
	c.Start()
	runner = c
	logger.Info("scheduler started", "tasks", len(entries))

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		logger.Info("scheduler stopped")
	}()
	return nil
}

// RunNow executes a registered task once, synchronously.
func RunNow(ctx context.Context, name string) error {
	regMu.Lock()
	e, ok := entries[name]
	regMu.Unlock()
	if !ok {
		return fmt.Errorf("schedule: no task named %q", name)
	}
	return e.task(ctx)
}

func execute(ctx context.Context, e *entry) {
	start := time.Now()
	if err := e.task(ctx); err != nil {
		logger.Error("scheduled task failed", "task", e.name, "error", err)
		return
	}
	logger.Info("scheduled task finished", "task", e.name, "duration", time.Since(start).String())
}

// List describes every registered task, sorted by name.
func List() []string {
	regMu.Lock()
	defer regMu.Unlock()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%-24s %s", e.name, e.spec))
	}
	sort.Strings(out)
	return out
}

// Reset clears the registry. Tests only.
func Reset() {
	regMu.Lock()
	entries = map[string]*entry{}
	regMu.Unlock()
}

// cronLogger adapts pkg/logger to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...interface{}) { logger.Debug("cron: "+msg, kv...) }
func (cronLogger) Error(err error, msg string, kv ...interface{}) {
	logger.Error("cron: "+msg, append(kv, "error", err)...)
}
