// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import "code.hybscloud.com/atomix"

// compactAfter is the number of consumed entries a LockedQueue tolerates at
// the front of its slice before shifting the live entries down.
const compactAfter = 64

// LockedQueue is an unbounded FIFO serialized by a TicketMutex.
//
// It is the lock-based counterpart of BoundedQueue: every Push and Poll
// passes through one fair lock, and a counting availability signal lets
// Poll sleep while the queue is empty. Push never waits for space.
//
// Use it where the number of in-flight items cannot be bounded up front,
// or as a baseline when measuring BoundedQueue.
type LockedQueue[T any] struct {
	mu        TicketMutex
	items     []T
	head      int // Index of the oldest item in items
	_         pad
	available atomix.Uint64 // Pushed items not yet claimed by a consumer
	_         padShort
	wp        waitpoint
}

// NewLockedQueue creates an empty LockedQueue.
func NewLockedQueue[T any]() *LockedQueue[T] {
	return &LockedQueue[T]{}
}

// Push appends an element. It blocks only for the lock.
func (q *LockedQueue[T]) Push(elem *T) {
	q.mu.Lock()
	q.items = append(q.items, *elem)
	q.mu.Unlock()

	q.available.Add(1)
	q.wp.wakeOne()
}

// TryPush appends an element. An unbounded queue never refuses one, so the
// error is always nil.
func (q *LockedQueue[T]) TryPush(elem *T) error {
	q.Push(elem)
	return nil
}

// Poll removes and returns the oldest element, blocking while the queue is
// empty.
func (q *LockedQueue[T]) Poll() T {
	for !q.claim() {
		q.wp.await(defaultSpins, func() bool { return q.available.LoadAcquire() > 0 })
	}
	return q.pop()
}

// TryPoll removes and returns the oldest element.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *LockedQueue[T]) TryPoll() (T, error) {
	if !q.claim() {
		var zero T
		return zero, ErrWouldBlock
	}
	return q.pop(), nil
}

// Len returns the number of queued elements.
func (q *LockedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// claim reserves one pushed element for the caller.
func (q *LockedQueue[T]) claim() bool {
	for {
		n := q.available.LoadAcquire()
		if n == 0 {
			return false
		}
		if q.available.CompareAndSwapAcqRel(n, n-1) {
			return true
		}
	}
}

// pop removes the oldest element. The caller must hold a claim, which
// guarantees one is present.
func (q *LockedQueue[T]) pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	elem := q.items[q.head]
	var zero T
	q.items[q.head] = zero
	q.head++

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= compactAfter && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return elem
}
