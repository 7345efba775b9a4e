package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into one call after a quiet window.
// Each Trigger supersedes the pending one; a superseded call never runs.
// Calls run outside the debouncer lock, so fn may take other locks freely.
type Debouncer struct {
	mu      sync.Mutex
	wait    time.Duration
	timer   *time.Timer
	pending func()
	seq     uint64
	stopped bool
}

func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Trigger schedules fn to run after the quiet window, replacing any pending call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.cancelLocked()
	d.seq++
	seq := d.seq
	d.pending = fn
	d.timer = time.AfterFunc(d.wait, func() { d.fire(seq) })
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}

// Flush runs the pending call now. Reports whether there was one.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return false
	}
	fn := d.pending
	d.cancelLocked()
	d.seq++
	d.mu.Unlock()

	fn()
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Shutdown cancels the pending call and ignores later triggers.
func (d *Debouncer) Shutdown() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.seq++
	d.stopped = true
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
