// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import "code.hybscloud.com/atomix"

// Connector slot states.
const (
	connEmpty   = iota // Free for a producer
	connWriting        // A producer is constructing the value
	connFull           // Value published, free for a consumer
	connReading        // A consumer is taking the value
)

// Connector is a single-slot rendezvous between producers and consumers.
//
// Push waits while the slot holds a value, publishes its own and wakes one
// consumer. Poll waits for a value, takes it and wakes one producer. At most
// one value is ever in flight, so each Push is matched by exactly one Poll and
// a producer can run at most one value ahead of its consumer.
//
// The slot state moves empty → writing → full → reading → empty; claiming a
// transition is a CAS, so any number of producers and consumers may share a
// Connector. Producers and consumers sleep on separate waitpoints so that a
// wake-up always reaches the side that can use it.
//
// The zero value is an empty Connector. A Connector must not be copied after
// first use.
type Connector[T any] struct {
	_        pad
	state    atomix.Uint64
	_        padShort
	value    T
	notFull  waitpoint
	notEmpty waitpoint
}

// NewConnector creates an empty Connector.
func NewConnector[T any]() *Connector[T] {
	return &Connector[T]{}
}

// Push hands over an element, blocking while the previous one is unconsumed.
// The element is copied; *elem may be reused on return.
func (c *Connector[T]) Push(elem *T) {
	for !c.state.CompareAndSwapAcqRel(connEmpty, connWriting) {
		c.notFull.await(defaultSpins, func() bool { return c.state.LoadAcquire() == connEmpty })
	}
	c.publish(elem)
}

// TryPush hands over an element if the slot is free.
// Returns ErrWouldBlock if a value is still waiting for a consumer.
func (c *Connector[T]) TryPush(elem *T) error {
	if !c.state.CompareAndSwapAcqRel(connEmpty, connWriting) {
		return ErrWouldBlock
	}
	c.publish(elem)
	return nil
}

// Poll takes the handed-over element, blocking until one is published.
func (c *Connector[T]) Poll() T {
	for !c.state.CompareAndSwapAcqRel(connFull, connReading) {
		c.notEmpty.await(defaultSpins, func() bool { return c.state.LoadAcquire() == connFull })
	}
	return c.take()
}

// TryPoll takes the handed-over element if one is published.
// Returns (zero-value, ErrWouldBlock) otherwise.
func (c *Connector[T]) TryPoll() (T, error) {
	if !c.state.CompareAndSwapAcqRel(connFull, connReading) {
		var zero T
		return zero, ErrWouldBlock
	}
	return c.take(), nil
}

func (c *Connector[T]) publish(elem *T) {
	c.value = *elem
	c.state.StoreRelease(connFull)
	c.notEmpty.wakeOne()
}

func (c *Connector[T]) take() T {
	v := c.value
	var zero T
	c.value = zero
	c.state.StoreRelease(connEmpty)
	c.notFull.wakeOne()
	return v
}
