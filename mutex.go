// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"sync"

	"code.hybscloud.com/atomix"
)

var (
	_ sync.Locker = (*SpinMutex)(nil)
	_ sync.Locker = (*TicketMutex)(nil)
)

// SpinMutex is a non-fair test-and-set lock.
//
// Lock tries to set a single flag. On failure the goroutine spins briefly,
// then parks until the flag clears and tries again. Unlock clears the flag
// and wakes one parked goroutine.
//
// SpinMutex guarantees mutual exclusion only. A newcomer may take the lock
// ahead of goroutines that have been waiting, so a waiter can starve. Use
// TicketMutex where admission order matters.
//
// The zero value is an unlocked mutex. A SpinMutex must not be copied after
// first use.
type SpinMutex struct {
	_    pad
	flag atomix.Uint64
	_    padShort
	wp   waitpoint
}

// Lock acquires the mutex, blocking until it is available.
func (m *SpinMutex) Lock() {
	for !m.flag.CompareAndSwapAcqRel(0, 1) {
		m.wp.await(defaultSpins, func() bool { return m.flag.LoadAcquire() == 0 })
	}
}

// TryLock acquires the mutex if it is free and reports whether it did.
func (m *SpinMutex) TryLock() bool {
	return m.flag.CompareAndSwapAcqRel(0, 1)
}

// Unlock releases the mutex.
// Unlocking an unlocked SpinMutex panics.
func (m *SpinMutex) Unlock() {
	// A failed CAS leaves the flag intact, so a recovered panic does not
	// wedge the mutex.
	if !m.flag.CompareAndSwap(1, 0) {
		panic("handoff: unlock of unlocked SpinMutex")
	}
	m.wp.wakeOne()
}

// TicketMutex is a fair FIFO lock.
//
// Lock draws a ticket from next and waits until serving reaches it; Unlock
// advances serving and wakes every parked goroutine, of which only the one
// holding the new ticket proceeds. Goroutines acquire the lock in exactly the
// order in which they drew tickets.
//
// Fairness costs throughput: a descheduled ticket holder stalls everyone
// behind it.
//
// The zero value is an unlocked mutex. A TicketMutex must not be copied after
// first use.
type TicketMutex struct {
	_       pad
	next    atomix.Uint64 // Next ticket to hand out
	_       padShort
	serving atomix.Uint64 // Ticket allowed to hold the lock
	_       padShort
	wp      waitpoint
}

// Lock acquires the mutex in ticket order, blocking until it is this
// caller's turn.
func (m *TicketMutex) Lock() {
	m.lock()
}

// lock acquires the mutex and returns the ticket it was admitted with.
func (m *TicketMutex) lock() uint64 {
	ticket := m.next.AddAcqRel(1) - 1
	if m.serving.LoadAcquire() == ticket {
		return ticket
	}
	m.wp.await(defaultSpins, func() bool { return m.serving.LoadAcquire() == ticket })
	return ticket
}

// TryLock acquires the mutex only if nobody holds it or waits for it, and
// reports whether it did.
func (m *TicketMutex) TryLock() bool {
	serving := m.serving.LoadAcquire()
	return m.next.CompareAndSwapAcqRel(serving, serving+1)
}

// Unlock releases the mutex to the next ticket holder.
// Unlocking an unlocked TicketMutex panics and leaves it unchanged.
func (m *TicketMutex) Unlock() {
	for {
		serving := m.serving.Load()
		if serving == m.next.Load() {
			panic("handoff: unlock of unlocked TicketMutex")
		}
		if m.serving.CompareAndSwap(serving, serving+1) {
			break
		}
	}
	m.wp.wakeAll()
}
