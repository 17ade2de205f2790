package util

import (
	"sync"
	"time"
)

// Debouncer runs fn once the calls to Trigger have been quiet for wait.
// Every Trigger resets the timer; Cancel drops a pending run.
type Debouncer struct {
	wait time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending func()
	stopped bool
}

func NewDebouncer(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Trigger schedules fn, replacing whatever was pending.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// a newer Trigger or a Cancel already replaced this timer
	if d.gen != gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Cancel drops the pending call, if any. It reports whether one was dropped.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	had := d.pending != nil
	d.pending = nil
	return had
}

// Flush runs the pending call now instead of waiting.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer == nil || d.pending == nil {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	fn := d.pending
	d.timer = nil
	d.gen++
	d.pending = nil
	d.mu.Unlock()

	fn()
	return true
}

// Stop cancels the pending call and ignores every later Trigger.
func (d *Debouncer) Stop() {
	d.Cancel()
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}
