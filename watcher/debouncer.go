package watcher

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// DebouncedEvent is the last change seen for one path within a quiet window.
type DebouncedEvent struct {
	Path string
	Op   EventOp
}

type EventOp int

const (
	OpCreate EventOp = iota
	OpWrite
	OpRemove
	OpRename
)

func (op EventOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	}
	return "unknown"
}

// Debouncer batches events and emits them, sorted by path, once no new event
// has arrived for interval. Editors that save through a temp file and rename
// produce a burst that collapses into one batch.
type Debouncer struct {
	interval time.Duration

	mu     sync.Mutex
	events map[string]DebouncedEvent
	timer  *time.Timer
	closed bool
	output chan []DebouncedEvent
}

func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		events:   make(map[string]DebouncedEvent),
		output:   make(chan []DebouncedEvent, 16),
	}
}

// Output receives batches until Stop is called.
func (d *Debouncer) Output() <-chan []DebouncedEvent {
	return d.output
}

// Add records op for path, replacing any earlier op, and restarts the quiet window.
func (d *Debouncer) Add(path string, op EventOp) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.events[path] = DebouncedEvent{Path: path, Op: op}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

// Stop drops pending events and closes Output.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.events = nil
	close(d.output)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || len(d.events) == 0 {
		return
	}

	batch := make([]DebouncedEvent, 0, len(d.events))
	for _, event := range d.events {
		batch = append(batch, event)
	}
	slices.SortFunc(batch, func(a, b DebouncedEvent) int {
		return strings.Compare(a.Path, b.Path)
	})
	d.events = make(map[string]DebouncedEvent)

	select {
	case d.output <- batch:
	default:
		// consumer is behind; a reload reads the file's latest state anyway
	}
}
