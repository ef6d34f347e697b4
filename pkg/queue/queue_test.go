package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yasithJay/online-bookstore-final-assessment/pkg/queue"
)

// ─── Job types ────────────────────────────────────────────────────────────────

var echoCalls atomic.Int32

type echoJob struct {
	Val string `json:"val"`
}

func (j *echoJob) Handle() error {
	echoCalls.Add(1)
	return nil
}

var failAttempts atomic.Int32

type failJob struct{}

func (j *failJob) Handle() error {
	failAttempts.Add(1)
	return errors.New("always fails")
}

func newManager(t *testing.T) (*queue.Manager, context.CancelFunc) {
	t.Helper()

	m := queue.New(queue.NewMemoryDriver())
	m.SetBackoff(10 * time.Millisecond)
	m.Register("test.echo", func() queue.Job { return &echoJob{} })
	m.Register("test.fail", func() queue.Job { return &failJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	m.StartWorkers(ctx, 2)
	return m, cancel
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestDispatchAndProcess(t *testing.T) {
	m, cancel := newManager(t)
	defer cancel()

	before := echoCalls.Load()
	if err := m.Dispatch(&echoJob{Val: "hello"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for echoCalls.Load() == before && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if echoCalls.Load() == before {
		t.Error("echo job was never processed")
	}
}

func TestUnregisteredJobRejected(t *testing.T) {
	m := queue.New(queue.NewMemoryDriver())
	if err := m.Dispatch(&echoJob{Val: "x"}); err == nil {
		t.Error("expected error dispatching unregistered job type")
	}
}

func TestFailedJobRetry(t *testing.T) {
	m, cancel := newManager(t)
	defer cancel()
	m.SetMaxRetry(2)

	before := failAttempts.Load()
	if err := m.Dispatch(&failJob{}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(m.FailedJobs()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if len(m.FailedJobs()) == 0 {
		t.Fatal("expected at least one failed job")
	}
	if got := failAttempts.Load() - before; got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestDispatchConcurrent(t *testing.T) {
	m, cancel := newManager(t)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			m.Dispatch(&echoJob{Val: "c"}) //nolint:errcheck
		}()
	}
	wg.Wait()
}
