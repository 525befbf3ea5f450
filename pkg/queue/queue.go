// Package queue runs background jobs (e-mails, webhooks) outside the
// request path.
//
//	queue.Register("mail.order_placed", func() queue.Job { return &OrderPlacedMail{} })
//	_ = queue.Dispatch(ctx, &OrderPlacedMail{OrderID: o.ID})
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PascalSeth/trendiwear/pkg/logger"
	"github.com/PascalSeth/trendiwear/pkg/metrics"
)

// Job is a unit of background work. Name must be stable: it is the key
// used to rebuild the job from its JSON payload.
type Job interface {
	Name() string
	Handle(ctx context.Context) error
}

type FailedJob struct {
	Name     string
	Err      error
	FailedAt time.Time
	Attempts int
}

type Driver interface {
	Push(ctx context.Context, payload []byte) error
	// Pop blocks until a payload is ready; (nil, nil) means nothing yet.
	Pop(ctx context.Context) ([]byte, error)
}

// ErrUnknownJob is returned when a payload names an unregistered job.
var ErrUnknownJob = errors.New("queue: unknown job")

type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
	backoff  func(attempt int) time.Duration
	wg       sync.WaitGroup
}

func NewManager(d Driver) *Manager {
	return &Manager{
		driver:   d,
		registry: map[string]func() Job{},
		maxRetry: 3,
		backoff:  func(attempt int) time.Duration { return time.Duration(attempt) * time.Second },
	}
}

var defaultManager = NewManager(NewMemoryDriver(1000))

// Default is the process-wide manager used by the package functions.
func Default() *Manager { return defaultManager }

func SetDriver(d Driver) { defaultManager.SetDriver(d) }
func SetMaxRetry(n int) { defaultManager.SetMaxRetry(n) }
func SetBackoff(f func(attempt int) time.Duration) { defaultManager.SetBackoff(f) }
func Register(name string, factory func() Job) { defaultManager.Register(name, factory) }
func Dispatch(ctx context.Context, job Job) error { return defaultManager.Dispatch(ctx, job) }
func StartWorkers(ctx context.Context, n int) { defaultManager.StartWorkers(ctx, n) }
func Wait() { defaultManager.Wait() }
func FailedJobs() []FailedJob { return defaultManager.FailedJobs() }

func (m *Manager) SetDriver(d Driver) {
	m.mu.Lock()
	m.driver = d
	m.mu.Unlock()
}

func (m *Manager) SetMaxRetry(n int) {
	m.mu.Lock()
	m.maxRetry = n
	m.mu.Unlock()
}

func (m *Manager) SetBackoff(f func(attempt int) time.Duration) {
	m.mu.Lock()
	m.backoff = f
	m.mu.Unlock()
}

// Register makes a job type decodable by name. Call at boot.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	m.registry[name] = factory
	m.mu.Unlock()
}

type envelope struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Dispatched time.Time       `json:"dispatched"`
}

// Dispatch serialises job and pushes it onto the driver.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", job.Name(), err)
	}

	env, err := json.Marshal(envelope{Type: job.Name(), Payload: payload, Dispatched: time.Now()})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()

	return d.Push(ctx, env)
}

// StartWorkers launches n workers that run until ctx is cancelled.
func (m *Manager) StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		m.wg.Add(1)
		go m.work(ctx)
	}
	logger.Info("queue workers started", "count", n)
}

// Wait blocks until every worker has returned.
func (m *Manager) Wait() { m.wg.Wait() }

func (m *Manager) work(ctx context.Context) {
	defer m.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}

		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}

		if err := m.Process(ctx, raw); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("queue job dropped", "error", err)
		}
	}
}

// Process decodes one payload and runs it with retries.
func (m *Manager) Process(ctx context.Context, raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("queue: bad envelope: %w", err)
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, env.Type)
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		return fmt.Errorf("queue: unmarshal %s: %w", env.Type, err)
	}

	m.runWithRetry(ctx, job, env.Payload)
	return nil
}

func (m *Manager) runWithRetry(ctx context.Context, job Job, payload []byte) {
	m.mu.RLock()
	maxRetry, backoff := m.maxRetry, m.backoff
	m.mu.RUnlock()
	if maxRetry < 1 {
		maxRetry = 1
	}

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		if lastErr = job.Handle(ctx); lastErr == nil {
			metrics.RecordQueueJob(job.Name(), "ok", start)
			logger.Debug("queue job processed", "type", job.Name(), "attempt", attempt)
			return
		}
		logger.Warn("queue job failed", "type", job.Name(), "attempt", attempt, "error", lastErr)
		if attempt < maxRetry && !sleep(ctx, backoff(attempt)) {
			break
		}
	}

	metrics.RecordQueueJob(job.Name(), "failed", start)
	m.persistFailed(ctx, job.Name(), payload, lastErr, maxRetry)
}

// FailedJobs returns the failures seen by this process.
func (m *Manager) FailedJobs() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]FailedJob(nil), m.failed...)
}

// sleep waits d or until ctx ends; false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
