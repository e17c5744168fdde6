package watch

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer collapses a burst of filesystem events into one callback. Editors
// typically emit several writes (and sometimes a rename) per save.
type Debouncer struct {
	interval time.Duration
	fire     func(path string, events int)

	mu     sync.Mutex
	timer  *time.Timer
	path   string
	events int
}

// NewDebouncer returns a Debouncer that calls fire once interval has passed
// without a new Trigger. fire receives the last path and the number of
// events that were collapsed into the call.
func NewDebouncer(interval time.Duration, fire func(path string, events int)) *Debouncer {
	return &Debouncer{interval: interval, fire: fire}
}

// Trigger records an event and restarts the quiet period.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.path = path
	d.events++

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, d.flush)
}

// Pending reports how many events are waiting for the quiet period to end.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.events
}

// Stop drops any pending events without firing.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.events = 0
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	path, events := d.path, d.events
	d.events = 0
	d.timer = nil
	d.mu.Unlock()

	if events == 0 {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("debounced callback panicked", slog.Any("error", r))
		}
	}()

	d.fire(path, events)
}
