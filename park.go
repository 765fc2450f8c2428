// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// waitpoint is the block/wake primitive behind every wait in the package.
//
// A waiter spins for a bounded number of rounds, then registers itself and
// sleeps on a condition variable until its predicate holds. A waker publishes
// its state change first and only then checks the waiter count, taking the
// mutex only when someone is registered.
//
// The waiter increments the count then reads the state; the waker writes the
// state then reads the count. A full barrier sits between the write and the
// read on both sides, so at least one side observes the other and no wake-up
// is lost. Predicates must read with acquire ordering: returning true hands
// the caller whatever the waker published.
//
// The zero value is ready to use. A waitpoint must not be copied.
type waitpoint struct {
	waiters atomix.Int64
	mu      sync.Mutex
	cond    sync.Cond
}

// await blocks until ready reports true. It reports whether the caller had to
// park, which is the only case worth counting as contention.
func (w *waitpoint) await(spins int, ready func() bool) (parked bool) {
	sw := spin.Wait{}
	for range spins {
		if ready() {
			return false
		}
		sw.Once()
	}

	w.mu.Lock()
	if w.cond.L == nil {
		w.cond.L = &w.mu
	}
	w.waiters.Add(1)
	atomix.BarrierAcqRel()
	for !ready() {
		parked = true
		w.cond.Wait()
	}
	w.waiters.Add(-1)
	w.mu.Unlock()
	return parked
}

// wakeAll wakes every parked waiter. Each re-evaluates its own predicate.
func (w *waitpoint) wakeAll() {
	atomix.BarrierAcqRel()
	if w.waiters.Load() == 0 {
		return
	}
	w.mu.Lock()
	w.cond.Broadcast()
	w.mu.Unlock()
}

// wakeOne wakes a single parked waiter.
func (w *waitpoint) wakeOne() {
	atomix.BarrierAcqRel()
	if w.waiters.Load() == 0 {
		return
	}
	w.mu.Lock()
	w.cond.Signal()
	w.mu.Unlock()
}
