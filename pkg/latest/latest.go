// Package latest coalesces bursts of requests so only the most recent one
// takes effect.
package latest

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long input must stay still before a debounced call fires
const DefaultQuietPeriod = 500 * time.Millisecond

// Debouncer runs the last function handed to Trigger once no new call has
// arrived for the quiet period.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer. A non-positive delay uses DefaultQuietPeriod.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultQuietPeriod
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing anything scheduled earlier
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Cancel drops the pending call, if any
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Stop cancels the pending call and ignores later triggers
func (d *Debouncer) Stop() {
	d.Cancel()

	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}

// Sequencer hands out increasing sequence numbers. A response is applied only
// if it carries the number of the most recently issued request.
type Sequencer struct {
	mu     sync.Mutex
	latest uint64
}

// Next issues a new sequence number, making every earlier one stale
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// IsLatest reports whether seq is the most recently issued number
func (s *Sequencer) IsLatest(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.latest
}

// Invalidate makes every issued number stale without starting a request
func (s *Sequencer) Invalidate() {
	s.Next()
}

// Run issues a sequence number, calls fn and reports whether its result is
// still the latest. Stale results are returned with ok false and should be dropped.
func Run[T any](s *Sequencer, fn func() (T, error)) (result T, ok bool, err error) {
	seq := s.Next()
	result, err = fn()
	return result, s.IsLatest(seq), err
}
