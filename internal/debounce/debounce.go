// Package debounce holds a value that settles after a quiet period.
//
// A Value tracks the live-edit value and the settled value separately. Every
// Set restarts the timer, so only the last edit of a burst settles (trailing
// edge). Settled values are published on C; when the consumer falls behind
// only the newest one is kept.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used for search input.
const DefaultDelay = 300 * time.Millisecond

// Value is safe for concurrent use.
type Value[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	current T
	settled T
	gen     uint64
	timer   *time.Timer
	out     chan T
	closed  bool
}

// New returns a Value seeded with initial. A non-positive delay uses
// DefaultDelay.
func New[T any](initial T, delay time.Duration) *Value[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Value[T]{
		delay:   delay,
		current: initial,
		settled: initial,
		out:     make(chan T, 1),
	}
}

// Set records an edit and restarts the quiet period.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.current = value
	v.gen++
	gen := v.gen
	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(v.delay, func() { v.settle(gen) })
}

// Current returns the live-edit value.
func (v *Value[T]) Current() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Settled returns the last value that survived the quiet period.
func (v *Value[T]) Settled() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.settled
}

// Pending reports whether an edit is waiting to settle.
func (v *Value[T]) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.timer != nil
}

// C delivers settled values. It is closed by Close.
func (v *Value[T]) C() <-chan T {
	return v.out
}

// Close stops any pending timer and closes C. Later edits are ignored.
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	close(v.out)
}

func (v *Value[T]) settle(gen uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	// A newer Set may have raced with this timer; Stop does not guarantee the
	// old callback never runs.
	if v.closed || gen != v.gen {
		return
	}
	v.timer = nil
	v.settled = v.current
	select {
	case v.out <- v.settled:
	default:
		select {
		case <-v.out:
		default:
		}
		v.out <- v.settled
	}
}
