package ui

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid triggers into one callback after a quiet
// period. Each Trigger supersedes the pending one; the generation counter
// guards against a stale timer firing after a newer trigger won the lock.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the quiet period, cancelling any pending call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		stale := gen != d.gen
		d.mu.Unlock()
		if !stale {
			fn()
		}
	})
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
