// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

// Queue is the combined producer-consumer interface for a FIFO queue.
//
// Queue offers both blocking (Push, Poll) and non-blocking (TryPush,
// TryPoll) operations. The non-blocking forms return ErrWouldBlock where the
// blocking forms would wait.
//
// The interface intentionally excludes length: in BoundedQueue an accurate
// count would need a snapshot of both position counters and every in-flight
// slot. Use [BoundedQueue.Stats] for an approximate view.
//
// Example:
//
//	var q handoff.Queue[Frame] = handoff.NewBoundedQueue[Frame](64)
//
//	// Capture goroutine
//	q.Push(&frame)
//
//	// Detection goroutine
//	frame := q.Poll()
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
}

// Producer is the interface for enqueueing elements.
//
// The element is passed by pointer to avoid copying large structs. The queue
// stores a copy of the pointed-to value, so the original can be reused after
// the call returns.
type Producer[T any] interface {
	// Push adds an element, blocking while the queue is full.
	Push(elem *T)

	// TryPush adds an element without blocking.
	// Returns nil on success, ErrWouldBlock if the queue is full.
	TryPush(elem *T) error
}

// Consumer is the interface for dequeueing elements.
//
// The element is returned by value and the queue's copy is cleared, so the
// queue keeps no reference to objects the element points at.
type Consumer[T any] interface {
	// Poll removes and returns the oldest element, blocking while the queue
	// is empty.
	Poll() T

	// TryPoll removes and returns the oldest element without blocking.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	TryPoll() (T, error)
}

var (
	_ Queue[int] = (*BoundedQueue[int])(nil)
	_ Queue[int] = (*LockedQueue[int])(nil)
	_ Queue[int] = (*Connector[int])(nil)
)
