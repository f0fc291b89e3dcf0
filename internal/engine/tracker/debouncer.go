package tracker

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of Schedule calls into one callback per quiet period.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	stopped  bool
	window   time.Duration
	callback func()
}

// NewDebouncer creates a new debouncer with the given quiet period and callback.
func NewDebouncer(window time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		window:   window,
		callback: callback,
	}
}

// Schedule (re)arms the timer so the callback fires one window after the
// most recent call. It does nothing once the debouncer is stopped.
func (d *Debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	// Reset the timer if it exists, or create a new one.
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

// fire is called when the debounce window expires.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()

	// A newer Schedule, Flush or Stop superseded this timer.
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.callback()
}

// Pending reports whether a fire is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.timer != nil
}

// Flush fires the callback immediately if a timer is pending.
// It runs the callback on the calling goroutine.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	d.mu.Unlock()

	d.callback()
}

// Stop cancels a pending fire and disarms the debouncer for good.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
