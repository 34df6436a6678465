package pipeline

import (
	"sync"
	"time"

	"engrave-prep/internal/models"
)

// Debouncer coalesces rapid parameter changes into a single callback after a
// quiescent window. Scheduling cancels any pending callback, so of N calls
// within the window only the last one's parameters execute. Executions are
// serialized: a firing callback holds runMu, and a generation check discards
// timers that went stale while waiting for it.
//
// Recompute and persistence use separate instances; their cancellation
// windows must never interfere.
type Debouncer struct {
	mu    sync.Mutex
	runMu sync.Mutex
	delay time.Duration
	fire  func(models.AdjustmentParams)

	timer      *time.Timer
	generation uint64
	pending    *models.AdjustmentParams
}

// NewDebouncer creates a scheduler firing fn after delay of quiescence.
func NewDebouncer(delay time.Duration, fn func(models.AdjustmentParams)) *Debouncer {
	return &Debouncer{delay: delay, fire: fn}
}

// Schedule replaces any pending callback with one for params.
func (d *Debouncer) Schedule(params models.AdjustmentParams) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation
	p := params
	d.pending = &p
	d.timer = time.AfterFunc(d.delay, func() {
		d.run(gen, params)
	})
}

func (d *Debouncer) run(gen uint64, params models.AdjustmentParams) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	d.mu.Lock()
	if gen != d.generation {
		// superseded while waiting; the newer timer owns the execution
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.mu.Unlock()

	d.fire(params)
}

// Flush executes any pending callback immediately and synchronously. Used on
// shutdown so a queued persistence write is not lost, and by the CLI to force
// a render without waiting out the window.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	pending := d.pending
	d.pending = nil
	d.generation++
	d.mu.Unlock()

	if pending == nil {
		return
	}
	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.fire(*pending)
}

// Stop cancels any pending callback without executing it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.generation++
}
