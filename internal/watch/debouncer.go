package watch

import (
	"context"
	"sync"
	"time"
)

// debouncer batches events for the same path within a time window,
// keeping only the latest event kind per path, and delivers the whole
// batch to flush once the window elapses with no further activity on any
// path (one timer, reset by every event). Grounded on the teacher's
// eventDebouncer.
type debouncer struct {
	mu     sync.Mutex
	events map[string]EventType
	delay  time.Duration
	timer  *time.Timer
	flush  func(events map[string]EventType)
}

func newDebouncer(delay time.Duration, flush func(events map[string]EventType)) *debouncer {
	return &debouncer{
		events: make(map[string]EventType),
		delay:  delay,
		flush:  flush,
	}
}

// add records path's latest event kind and resets the flush timer.
func (d *debouncer) add(path string, eventType EventType) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events[path] = eventType
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.drain)
}

func (d *debouncer) drain() {
	d.mu.Lock()
	events := d.events
	d.events = make(map[string]EventType)
	d.mu.Unlock()
	d.flush(events)
}

// run blocks until ctx is cancelled. Events pending at cancellation are
// intentionally left undelivered: flushing on shutdown risks calling back
// into a caller that is itself tearing down.
func (d *debouncer) run(ctx context.Context) {
	<-ctx.Done()
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.events = make(map[string]EventType)
}
