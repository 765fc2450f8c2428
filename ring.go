// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import "iter"

// OverwriteRing is a fixed-capacity history buffer that never blocks.
//
// PushHead always succeeds. While the ring has room a write only fills a free
// slot; once full, each write evicts the oldest unread value. Reads consume
// from the oldest end. Availability wins over completeness, which suits
// rolling samples such as per-frame timings.
//
// The ring tracks a write position (writes since the last reset) and a
// remaining-capacity counter in [0, capacity]. The oldest readable value sits
// at (position - size) mod capacity.
//
// OverwriteRing is not synchronized. Concurrent writers, concurrent readers,
// or a writer racing a reader must be serialized by the caller, for example
// with a TicketMutex; [History] packages exactly that.
type OverwriteRing[T any] struct {
	buffer    []T
	capacity  uint64
	position  uint64 // Writes since last reset
	remaining uint64 // Free slots
}

// NewOverwriteRing creates a ring holding up to capacity values.
// Panics if capacity < 1. Use [BuildRing] for an error instead.
func NewOverwriteRing[T any](capacity int) *OverwriteRing[T] {
	return must(BuildRing[T](New(capacity)))
}

func newOverwriteRing[T any](capacity int) *OverwriteRing[T] {
	n := uint64(capacity)
	return &OverwriteRing[T]{
		buffer:    make([]T, n),
		capacity:  n,
		remaining: n,
	}
}

// PushHead writes *elem at the head and reports whether the write evicted
// the oldest unread value.
func (r *OverwriteRing[T]) PushHead(elem *T) (overwritten bool) {
	r.buffer[r.position%r.capacity] = *elem
	r.position++
	if r.remaining == 0 {
		return true
	}
	r.remaining--
	return false
}

// CatchTail removes and returns the oldest readable value.
//
// The value stays in the backing slot until a later write reuses it; only
// the read position moves. On an empty ring CatchTail returns the zero value
// of T and leaves the ring unchanged.
func (r *OverwriteRing[T]) CatchTail() T {
	if r.IsEmpty() {
		var zero T
		return zero
	}
	elem := r.buffer[r.tailIndex()]
	r.remaining++
	return elem
}

// PeekTail returns the oldest readable value without consuming it.
// Returns (zero-value, false) if the ring is empty.
func (r *OverwriteRing[T]) PeekTail() (T, bool) {
	if r.IsEmpty() {
		var zero T
		return zero, false
	}
	return r.buffer[r.tailIndex()], true
}

// All iterates over the readable values from oldest to newest without
// consuming them. The ring must not be modified during iteration.
func (r *OverwriteRing[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		start := r.position - r.size()
		for i := start; i < r.position; i++ {
			if !yield(r.buffer[i%r.capacity]) {
				return
			}
		}
	}
}

// Size returns the number of readable values.
func (r *OverwriteRing[T]) Size() int {
	return int(r.size())
}

// IsEmpty reports whether no value is readable.
func (r *OverwriteRing[T]) IsEmpty() bool {
	return r.remaining == r.capacity
}

// IsFull reports whether the next PushHead will evict a value.
func (r *OverwriteRing[T]) IsFull() bool {
	return r.remaining == 0
}

// Cap returns the ring capacity.
func (r *OverwriteRing[T]) Cap() int {
	return int(r.capacity)
}

// Empty resets the ring to its initial state. Backing storage is kept and
// not cleared.
func (r *OverwriteRing[T]) Empty() {
	r.position = 0
	r.remaining = r.capacity
}

func (r *OverwriteRing[T]) size() uint64 {
	return r.capacity - r.remaining
}

// tailIndex applies the single read-cursor rule. size never exceeds
// position, so the subtraction cannot wrap.
func (r *OverwriteRing[T]) tailIndex() uint64 {
	return (r.position - r.size()) % r.capacity
}
