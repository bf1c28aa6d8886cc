package lifecycle

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Sweeper is a reconciliation pass over one kind of record.
type Sweeper interface {
	Kind() Kind
	Run(ctx context.Context) *Report
}

// SweepJob adapts a Sweeper to a Job, logging the report of every pass.
func SweepJob(s Sweeper) Job {
	return func(ctx context.Context) error {
		report := s.Run(ctx)
		report.Log()
		return report.Err
	}
}

// Scheduler fires a Job at a fixed interval on its own goroutine.
// Passes never overlap: a pass that outlasts the interval delays the next one.
// A failing or panicking pass is logged and the schedule carries on.
type Scheduler struct {
	name     string
	interval time.Duration
	job      Job

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(name string, interval time.Duration, job Job) *Scheduler {
	return &Scheduler{name: name, interval: interval, job: job}
}

func (s *Scheduler) Name() string { return s.name }

// Start begins firing. The schedule ends when Stop is called or ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runningLocked() {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done

	go s.loop(ctx, done)

	log.Printf("Scheduled %s started with interval %v", s.name, s.interval)
	return nil
}

// Stop ends the schedule and waits for an in-flight pass to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runningLocked()
}

func (s *Scheduler) runningLocked() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// RunOnce executes a single pass synchronously, outside the timer.
func (s *Scheduler) RunOnce(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
			log.Printf("scheduled_job_panic name=%s panic=%v stack=%s", s.name, r, debug.Stack())
		}
		if err != nil {
			log.Printf("scheduled_job_error name=%s duration=%s error=%q", s.name, time.Since(start), err)
		}
	}()
	return s.job(ctx)
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = s.RunOnce(ctx)
		case <-ctx.Done():
			log.Printf("Scheduled %s stopped", s.name)
			return
		}
	}
}
