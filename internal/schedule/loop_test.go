package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsActionOnInterval(t *testing.T) {
	var loop Loop
	var calls atomic.Int64

	loop.Start(10*time.Millisecond, func(context.Context) {
		calls.Add(1)
	})
	defer loop.Stop()

	require.Eventually(t, func() bool {
		return calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestLoop_StopDuringSleepPreventsAction(t *testing.T) {
	var loop Loop
	var calls atomic.Int64

	loop.Start(80*time.Millisecond, func(context.Context) {
		calls.Add(1)
	})
	time.Sleep(10 * time.Millisecond)
	loop.Stop()

	// Wait past the pending interval: the interrupted sleep must not have
	// been treated as "sleep completed, run the action anyway".
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int64(0), calls.Load())
}

func TestLoop_StopFreezesCallCount(t *testing.T) {
	var loop Loop
	var calls atomic.Int64

	loop.Start(10*time.Millisecond, func(context.Context) {
		calls.Add(1)
	})
	require.Eventually(t, func() bool {
		return calls.Load() >= 1
	}, time.Second, 2*time.Millisecond)

	loop.Stop()
	after := calls.Load()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestLoop_StartRestarts(t *testing.T) {
	var loop Loop
	var first, second atomic.Int64

	loop.Start(10*time.Millisecond, func(context.Context) {
		first.Add(1)
	})
	loop.Start(10*time.Millisecond, func(context.Context) {
		second.Add(1)
	})
	defer loop.Stop()

	require.Eventually(t, func() bool {
		return second.Load() >= 2
	}, time.Second, 2*time.Millisecond)

	// The first loop was stopped by the restart; its count is frozen.
	frozen := first.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, frozen, first.Load())
}

func TestLoop_StopWhenIdle(t *testing.T) {
	var loop Loop
	loop.Stop()
	loop.Stop()
}

func TestLoop_ActionsDoNotOverlap(t *testing.T) {
	var loop Loop
	var running atomic.Int64
	var overlapped atomic.Bool

	loop.Start(5*time.Millisecond, func(context.Context) {
		if running.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(15 * time.Millisecond)
		running.Add(-1)
	})

	time.Sleep(100 * time.Millisecond)
	loop.Stop()
	assert.False(t, overlapped.Load())
}
