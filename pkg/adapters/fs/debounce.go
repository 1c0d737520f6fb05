package fs

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// debouncer collapses a burst of triggers into one call after delay of quiet.
type debouncer struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	delay   time.Duration
	timer   clockwork.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(clock clockwork.Clock, delay time.Duration) *debouncer {
	return &debouncer{clock: clock, delay: delay}
}

// trigger (re)arms the timer; only the last fn of a burst runs.
func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	d.timer = d.clock.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		fn()
	})
}

// stopAndWait cancels the pending call and waits up to timeout for a running one.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
