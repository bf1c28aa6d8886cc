package lifecycle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_FiresRepeatedly(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler("test", 5*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.True(t, s.IsRunning())
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
}

func TestScheduler_SurvivesFailingAndPanickingPasses(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler("flaky", 5*time.Millisecond, func(context.Context) error {
		switch runs.Add(1) {
		case 1:
			panic("boom")
		case 2:
			return errors.New("store unavailable")
		}
		return nil
	})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 4 }, time.Second, time.Millisecond)
	assert.True(t, s.IsRunning())
}

func TestScheduler_StartStopLifecycle(t *testing.T) {
	s := NewScheduler("lifecycle", time.Hour, func(context.Context) error { return nil })

	assert.False(t, s.IsRunning())
	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()

	require.NoError(t, s.Start(context.Background()), "a stopped scheduler can be restarted")
	s.Stop()
}

func TestScheduler_StopWaitsForInflightPass(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	s := NewScheduler("slow", time.Millisecond, func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		finished.Store(true)
		return ctx.Err()
	})

	require.NoError(t, s.Start(context.Background()))
	<-started
	s.Stop()

	assert.True(t, finished.Load())
}

func TestScheduler_ParentContextEndsSchedule(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler("ctx", time.Hour, func(context.Context) error { return nil })

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, time.Millisecond)
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	s := NewScheduler("bad", 0, func(context.Context) error { return nil })
	assert.ErrorIs(t, s.Start(context.Background()), ErrInvalidInterval)
	assert.False(t, s.IsRunning())
}

func TestScheduler_RunOnce(t *testing.T) {
	want := errors.New("nope")
	s := NewScheduler("once", time.Hour, func(context.Context) error { return want })
	assert.ErrorIs(t, s.RunOnce(context.Background()), want)

	p := NewScheduler("panic", time.Hour, func(context.Context) error { panic("boom") })
	assert.ErrorIs(t, p.RunOnce(context.Background()), ErrJobPanicked)
}

type stubSweeper struct {
	report *Report
}

func (s stubSweeper) Kind() Kind                  { return s.report.Kind }
func (s stubSweeper) Run(context.Context) *Report { return s.report }

func TestSweepJob_ReturnsPassError(t *testing.T) {
	ok := SweepJob(stubSweeper{report: &Report{Kind: KindTokens, Deleted: []string{"token:1"}}})
	assert.NoError(t, ok(context.Background()))

	aborted := SweepJob(stubSweeper{report: &Report{Kind: KindAttachments, Err: ErrStoreUnavailable}})
	assert.ErrorIs(t, aborted(context.Background()), ErrStoreUnavailable)
}
