// Package queue provides background job processing for the bookstore.
//
// Jobs are serialized to JSON envelopes, pushed through a Driver (in-memory
// channel or Redis), and executed by a bounded worker pool. A Manager owns
// its driver and job registry, so tests construct a fresh one per case and
// the app wires exactly one at bootstrap.
//
//	q := queue.New(queue.NewMemoryDriver())
//	q.Register("jobs.OrderConfirmation", func() queue.Job { return &OrderConfirmationJob{} })
//	q.StartWorkers(ctx, 3)
//	q.Dispatch(&OrderConfirmationJob{OrderID: order.ID})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/yasithJay/online-bookstore-final-assessment/pkg/logger"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/metrics"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/workerpool"
)

// Job is the interface every queued job must satisfy.
type Job interface {
	// Handle executes the job. Return a non-nil error to signal failure.
	Handle() error
}

// FailedJob holds information about a job that exhausted its retries.
type FailedJob struct {
	Job      Job
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// DelayedDriver is implemented by drivers that can hold a job back natively
// (the Redis driver's sorted set). Others fall back to a timer goroutine.
type DelayedDriver interface {
	Driver
	PushDelayed(payload []byte, delay time.Duration) error
}

// ------------------- Manager -------------------

// Manager is the queue hub: registry, driver, retry policy, workers.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job // job name → constructor
	failed   []FailedJob
	maxRetry int
	backoff  time.Duration

	pool *workerpool.Pool
	wg   sync.WaitGroup
}

// New creates a Manager on the given driver with 3 retries and a 1s
// base backoff.
func New(driver Driver) *Manager {
	return &Manager{
		driver:   driver,
		registry: map[string]func() Job{},
		maxRetry: 3,
		backoff:  time.Second,
	}
}

// SetMaxRetry sets how many attempts a failing job gets.
func (m *Manager) SetMaxRetry(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > 0 {
		m.maxRetry = n
	}
}

// SetBackoff sets the base retry backoff (attempt N waits N × backoff).
// Tests shrink this so retry paths finish in milliseconds.
func (m *Manager) SetBackoff(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backoff = d
}

// Register makes a job type available for deserialization by name.
// Call once at boot for every job type the app dispatches.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[name] = factory
}

// ------------------- Dispatch -------------------

type jobEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch pushes job onto the queue immediately. The job's registered name
// is resolved by matching its factory product type, so jobs must be
// registered before the first dispatch.
func (m *Manager) Dispatch(job Job) error {
	name, err := m.nameFor(job)
	if err != nil {
		return err
	}
	return m.push(name, job)
}

// DispatchAfter pushes job onto the queue after a delay. Drivers with native
// delayed delivery (Redis) hold the job server-side; otherwise a timer
// goroutine re-dispatches it.
func (m *Manager) DispatchAfter(job Job, delay time.Duration) error {
	name, err := m.nameFor(job)
	if err != nil {
		return err
	}

	m.mu.RLock()
	dd, ok := m.driver.(DelayedDriver)
	m.mu.RUnlock()

	if ok {
		env, err := m.seal(name, job)
		if err != nil {
			return err
		}
		return dd.PushDelayed(env, delay)
	}

	go func() {
		time.Sleep(delay)
		if err := m.push(name, job); err != nil {
			logger.Error("queue: delayed dispatch failed", "type", name, "error", err)
		}
	}()
	return nil
}

// nameFor resolves the registered name for a job by its concrete type.
func (m *Manager) nameFor(job Job) (string, error) {
	typeName := fmt.Sprintf("%T", job)

	m.mu.RLock()
	defer m.mu.RUnlock()
	for name, factory := range m.registry {
		if fmt.Sprintf("%T", factory()) == typeName {
			return name, nil
		}
	}
	return "", fmt.Errorf("queue: job type %s not registered", typeName)
}

func (m *Manager) seal(name string, job Job) ([]byte, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal job %s: %w", name, err)
	}
	env, err := json.Marshal(jobEnvelope{Type: name, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return env, nil
}

func (m *Manager) push(name string, job Job) error {
	env, err := m.seal(name, job)
	if err != nil {
		return err
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()

	return d.Push(env)
}

// ------------------- Workers -------------------

// StartWorkers launches a drain loop feeding a bounded pool of n workers.
// Workers run until ctx is cancelled; in-flight jobs finish before Wait
// returns.
func (m *Manager) StartWorkers(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}

	m.mu.Lock()
	m.pool = workerpool.New(n)
	m.mu.Unlock()

	m.wg.Add(1)
	go m.drain(ctx)

	logger.Info("queue: workers started", "count", n)
}

// Wait blocks until the drain loop has stopped and all in-flight jobs are
// done. Call after cancelling the StartWorkers context.
func (m *Manager) Wait() {
	m.wg.Wait()

	m.mu.RLock()
	pool := m.pool
	m.mu.RUnlock()
	if pool != nil {
		pool.Shutdown()
	}
}

func (m *Manager) drain(ctx context.Context) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		m.mu.RLock()
		d := m.driver
		pool := m.pool
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}

		payload := raw
		if err := pool.SubmitWait(func() { m.process(payload) }); err != nil {
			logger.Error("queue: submit to pool failed", "error", err)
			return
		}
	}
}

func (m *Manager) process(raw []byte) {
	var env jobEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()

	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.runWithRetry(job, env.Type)
}

func (m *Manager) runWithRetry(job Job, typeName string) {
	start := time.Now()

	m.mu.RLock()
	maxRetry := m.maxRetry
	backoff := m.backoff
	m.mu.RUnlock()

	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		if err := job.Handle(); err != nil {
			lastErr = err
			logger.Warn("queue: job failed, retrying",
				"type", typeName, "attempt", attempt, "error", err)
			time.Sleep(time.Duration(attempt) * backoff)
			continue
		}
		logger.Info("queue: job processed", "type", typeName)
		metrics.RecordQueueJob(typeName, "success", start)
		return
	}

	m.persistFailed(job, typeName, lastErr, maxRetry)
	metrics.RecordQueueJob(typeName, "failed", start)
	logger.Error("queue: job exhausted retries", "type", typeName, "error", lastErr)
}

// FailedJobs returns a snapshot of all failed jobs held in memory.
func (m *Manager) FailedJobs() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FailedJob, len(m.failed))
	copy(out, m.failed)
	return out
}
