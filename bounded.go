// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// BoundedQueue is a blocking multi-producer multi-consumer bounded FIFO.
//
// Producers and consumers claim positions with Fetch-And-Add on two counters
// (head for producers, tail for consumers). Position p maps to slot
// p % capacity in generation p / capacity, and each slot carries a ticket that
// hands the slot back and forth:
//
//	2g     slot is empty, producer of generation g may construct
//	2g + 1 slot holds a value, consumer of generation g may take it
//
// The party whose turn the ticket announces owns the slot exclusively. Once
// done it advances the ticket by one and wakes whoever is parked on the slot.
// No lock serializes producers or consumers; contention is limited to the
// head/tail cache lines and to individual slot tickets.
//
// FIFO order is the order in which the head/tail increments linearize. For a
// single producer goroutine this is the order of its Push calls.
//
// Push and Poll wait without bound and cannot be cancelled. TryPush and
// TryPoll never wait and can be mixed freely with the blocking calls.
//
// Memory: capacity slots, each padded past a cache line.
type BoundedQueue[T any] struct {
	_        pad
	head     atomix.Uint64 // Producer position (FAA)
	_        pad
	tail     atomix.Uint64 // Consumer position (FAA)
	_        pad
	parked   atomix.Uint64 // Waits that had to sleep
	_        pad
	buffer   []boundedSlot[T]
	capacity uint64
	spins    int
}

type boundedSlot[T any] struct {
	ticket atomix.Uint64
	wp     waitpoint
	cell   cell[T]
	_      pad // Keep neighbouring tickets off this line
}

// QueueStats is a snapshot of a BoundedQueue's counters.
type QueueStats struct {
	// Pushed counts claimed producer positions, including pushes still
	// waiting for their slot.
	Pushed uint64
	// Polled counts claimed consumer positions, including polls still
	// waiting for a value.
	Polled uint64
	// Parked counts waits that gave up spinning and slept.
	Parked uint64
	// OwnerTransitions counts cell acquisitions. Non-zero only in the
	// ownercheck build.
	OwnerTransitions uint64
}

// NewBoundedQueue creates a BoundedQueue holding exactly capacity items.
// Panics if capacity < 1. Use [BuildBounded] for an error instead.
func NewBoundedQueue[T any](capacity int) *BoundedQueue[T] {
	return must(BuildBounded[T](New(capacity)))
}

func newBoundedQueue[T any](opts Options) *BoundedQueue[T] {
	// Zero tickets: every slot starts empty in generation 0.
	return &BoundedQueue[T]{
		buffer:   make([]boundedSlot[T], opts.capacity),
		capacity: uint64(opts.capacity),
		spins:    opts.spins,
	}
}

// Push adds an element, blocking while the queue is full.
// The element is copied into the queue; *elem may be reused on return.
func (q *BoundedQueue[T]) Push(elem *T) {
	pos := q.head.AddAcqRel(1) - 1
	slot := &q.buffer[pos%q.capacity]
	q.await(slot, pos/q.capacity*2)
	slot.cell.construct(elem)
	q.release(slot)
}

// Poll removes and returns the oldest element, blocking while none is
// available.
func (q *BoundedQueue[T]) Poll() T {
	pos := q.tail.AddAcqRel(1) - 1
	slot := &q.buffer[pos%q.capacity]
	q.await(slot, pos/q.capacity*2+1)
	elem := slot.cell.take()
	q.release(slot)
	return elem
}

// TryPush adds an element if its slot is free right now.
// Returns ErrWouldBlock if the queue is full; nothing is claimed in that case.
func (q *BoundedQueue[T]) TryPush(elem *T) error {
	sw := spin.Wait{}
	for {
		pos := q.head.LoadAcquire()
		slot := &q.buffer[pos%q.capacity]
		turn := pos / q.capacity * 2
		ticket := slot.ticket.LoadAcquire()

		if ticket == turn {
			if q.head.CompareAndSwapAcqRel(pos, pos+1) {
				slot.cell.construct(elem)
				q.release(slot)
				return nil
			}
		} else if ticket < turn {
			return ErrWouldBlock // Previous generation not consumed yet
		}
		sw.Once()
	}
}

// TryPoll removes and returns the oldest element if one is published.
// Returns (zero-value, ErrWouldBlock) if none is; nothing is claimed in that case.
func (q *BoundedQueue[T]) TryPoll() (T, error) {
	sw := spin.Wait{}
	for {
		pos := q.tail.LoadAcquire()
		slot := &q.buffer[pos%q.capacity]
		turn := pos/q.capacity*2 + 1
		ticket := slot.ticket.LoadAcquire()

		if ticket == turn {
			if q.tail.CompareAndSwapAcqRel(pos, pos+1) {
				elem := slot.cell.take()
				q.release(slot)
				return elem, nil
			}
		} else if ticket < turn {
			var zero T
			return zero, ErrWouldBlock // Empty, or producer still constructing
		}
		sw.Once()
	}
}

// Drain removes every published element, passing each to release in FIFO
// order, and returns how many were removed. A nil release only discards.
//
// Drain is the teardown path: call it when no other goroutine uses the
// queue, so that values still held by slots are handed back instead of
// silently dropped. The queue is empty and reusable afterwards.
func (q *BoundedQueue[T]) Drain(release func(T)) int {
	n := 0
	for {
		elem, err := q.TryPoll()
		if err != nil {
			return n
		}
		if release != nil {
			release(elem)
		}
		n++
	}
}

// Cap returns the queue capacity.
func (q *BoundedQueue[T]) Cap() int {
	return int(q.capacity)
}

// Stats returns a snapshot of the queue counters.
func (q *BoundedQueue[T]) Stats() QueueStats {
	s := QueueStats{
		Pushed: q.head.LoadAcquire(),
		Polled: q.tail.LoadAcquire(),
		Parked: q.parked.LoadAcquire(),
	}
	if OwnershipCheckEnabled {
		for i := range q.buffer {
			s.OwnerTransitions += q.buffer[i].cell.owner.count()
		}
	}
	return s
}

// await returns once the slot's ticket announces turn.
// Only the holder of the preceding ticket can advance it to turn, so
// equality is the exact condition.
func (q *BoundedQueue[T]) await(slot *boundedSlot[T], turn uint64) {
	if slot.ticket.LoadAcquire() == turn {
		return
	}
	if slot.wp.await(q.spins, func() bool { return slot.ticket.LoadAcquire() == turn }) {
		q.parked.AddAcqRel(1)
	}
}

// release hands the slot to the next ticket holder and wakes the slot's
// sleepers. Several generations may be parked on one slot, so all are woken.
func (q *BoundedQueue[T]) release(slot *boundedSlot[T]) {
	slot.ticket.Add(1)
	slot.wp.wakeAll()
}
