// Package schedule runs a recurring action on a fixed interval with
// cooperative cancellation.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Loop drives an action on a fixed interval. Start restarts an already
// running loop; Stop is safe to call when idle. Action invocations never
// overlap: each iteration waits for the action to return before sleeping
// again.
type Loop struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Start begins the sleep-then-act cycle, stopping any existing run first.
func (l *Loop) Start(interval time.Duration, action func(context.Context)) {
	l.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	l.mu.Lock()
	l.cancel = cancel
	l.done = done
	l.mu.Unlock()

	go func() {
		defer close(done)
		timer := time.NewTimer(interval)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			// A cancellation that races the timer must still win:
			// an interrupted sleep never runs the action.
			if ctx.Err() != nil {
				return
			}
			action(ctx)
			timer.Reset(interval)
		}
	}()
}

// Stop cancels the running loop, if any, and waits for it to exit. A
// cancellation during an in-progress action lets that action finish but
// prevents the next one.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
