package audio

import "sync"

// Latch holds at most one pending value. Set overwrites any value not yet
// taken; Take returns the pending value and clears it in one step, so each
// value is observed by at most one Take.
type Latch[T any] struct {
	mu      sync.Mutex
	value   T
	pending bool
}

// Set stores v as the pending value.
func (l *Latch[T]) Set(v T) {
	l.mu.Lock()
	l.value = v
	l.pending = true
	l.mu.Unlock()
}

// Take returns the pending value and clears it. ok is false when nothing
// was set since the last Take.
func (l *Latch[T]) Take() (v T, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.pending {
		return v, false
	}
	v = l.value
	var zero T
	l.value = zero
	l.pending = false
	return v, true
}

// Pending reports whether a value is waiting, without clearing it.
func (l *Latch[T]) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}
