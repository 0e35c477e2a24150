package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Scheduler triggers sync runs on a fixed interval in serve mode. Runs
// are single-flight: a tick or manual trigger arriving while a run is in
// progress is dropped.
type Scheduler struct {
	runner   *Runner
	interval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	trigger chan struct{}

	mu         sync.Mutex
	running    bool
	lastResult *Result
	lastError  string
}

func NewScheduler(runner *Runner, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		runner:   runner,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		trigger:  make(chan struct{}, 1),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.runOnce()
			case <-s.trigger:
				s.runOnce()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// TriggerSync queues a manual run. Returns an error when a run is already
// in flight.
func (s *Scheduler) TriggerSync() error {
	if s.IsRunning() {
		return fmt.Errorf("sync already in progress")
	}

	select {
	case s.trigger <- struct{}{}:
		return nil
	default:
		return fmt.Errorf("sync already queued")
	}
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastResult returns the most recent run outcome and the error message of
// the most recent failed run, if any.
func (s *Scheduler) LastResult() (*Result, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult, s.lastError
}

func (s *Scheduler) runOnce() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	result, err := s.runner.Run(s.ctx)

	s.mu.Lock()
	s.running = false
	if err != nil {
		s.lastError = err.Error()
		slog.Error("Scheduled sync failed", "error", err)
	} else {
		s.lastError = ""
	}
	if result != nil {
		s.lastResult = result
	}
	s.mu.Unlock()
}
