// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package handoff provides in-process primitives for handing work between
// producer and consumer goroutines.
//
// The package offers:
//
//   - BoundedQueue: blocking MPMC FIFO coordinated by per-slot tickets
//   - LockedQueue: unbounded FIFO behind a single fair lock
//   - Connector: single-slot rendezvous, one value in flight
//   - OverwriteRing: fixed-size history that evicts the oldest value
//   - History: an OverwriteRing guarded by a lock
//   - SpinMutex: non-fair test-and-set lock
//   - TicketMutex: fair FIFO lock
//
// # Quick Start
//
// Direct constructors (panic on capacity < 1):
//
//	q := handoff.NewBoundedQueue[Frame](64)
//	r := handoff.NewOverwriteRing[time.Duration](120)
//
// Builder API (reports configuration errors instead of panicking):
//
//	q, err := handoff.BuildBounded[Frame](handoff.New(64).Spins(32))
//	if errors.Is(err, handoff.ErrInvalidCapacity) {
//	    // bad configuration
//	}
//
// # Basic Usage
//
// BoundedQueue applies backpressure instead of dropping:
//
//	q := handoff.NewBoundedQueue[Detection](256)
//
//	// Detector goroutine: blocks while 256 detections are unconsumed
//	go func() {
//	    for d := range detections {
//	        q.Push(&d)
//	    }
//	}()
//
//	// Renderer goroutine: blocks while nothing is queued
//	go func() {
//	    for {
//	        d := q.Poll()
//	        draw(d)
//	    }
//	}()
//
// Non-blocking forms return [ErrWouldBlock]:
//
//	if err := q.TryPush(&d); handoff.IsWouldBlock(err) {
//	    // queue full - skip this frame
//	}
//
// # Ticket Handoff
//
// BoundedQueue has no queue-wide lock. Position p (claimed by Fetch-And-Add
// on head or tail) maps to slot p % capacity in generation g = p / capacity.
// A slot's ticket is 2g while the slot waits for generation g's producer and
// 2g+1 while it holds generation g's value. Whoever the ticket names owns the
// slot; finishing advances the ticket and wakes the slot's sleepers. Delivery
// order is the linearization order of the head/tail increments, which for a
// single producer goroutine is its call order.
//
// # Blocking
//
// Every wait in the package (slot tickets, both mutexes, LockedQueue.Poll,
// Connector)
// spins for a bounded number of CPU-pause rounds and then parks the
// goroutine on a condition variable. Nothing busy-polls without bound.
//
// Waits are not cancellable: a goroutine parked in Push, Poll or Lock leaves
// only when another goroutine completes the matching operation. Use TryPush
// and TryPoll with [code.hybscloud.com/iox.Backoff] where a deadline is
// needed:
//
//	backoff := iox.Backoff{}
//	for {
//	    v, err := q.TryPoll()
//	    if err == nil {
//	        return v, nil
//	    }
//	    if time.Now().After(deadline) {
//	        return v, context.DeadlineExceeded
//	    }
//	    backoff.Wait()
//	}
//
// # Single-slot Handoff
//
// Connector holds at most one value. Push waits until the previous value has
// been taken, so a producer can never run more than one item ahead:
//
//	var c handoff.Connector[Result]
//	go func() { c.Push(&r) }()
//	r := c.Poll()
//
// # Rolling History
//
// OverwriteRing never blocks the writer. When full, PushHead evicts the
// oldest unread value and reports it:
//
//	r := handoff.NewOverwriteRing[int](3)
//	for _, v := range []int{1, 2, 3, 4} {
//	    evicted := r.PushHead(&v) // false, false, false, true
//	}
//	r.CatchTail() // 2
//
// CatchTail on an empty ring returns the zero value of T. OverwriteRing is
// not synchronized; History wraps one in a TicketMutex:
//
//	h := handoff.NewHistory[time.Duration](120)
//	h.Record(time.Since(start))
//	s := handoff.Summarize(h.Snapshot(nil))
//	fmt.Printf("avg %v, %.1f fps\n", s.Mean, s.Rate())
//
// # Locks
//
// SpinMutex and TicketMutex implement sync.Locker and their zero values are
// unlocked. SpinMutex lets a newcomer overtake parked waiters. TicketMutex
// admits goroutines strictly in the order they called Lock.
//
// # Teardown
//
// Values still held by a BoundedQueue when it is retired can be handed back
// with Drain, once no other goroutine uses the queue:
//
//	q.Drain(func(f Frame) { f.Release() })
//
// # Race Detection
//
// Queue values and ring storage are plain memory protected by atomix tickets
// and counters. Go's race detector cannot observe the happens-before edges
// those atomics establish, so it may report false positives. Concurrent tests
// skip themselves when [RaceEnabled] is true.
//
// Building with -tags ownercheck instruments every slot: each access asserts
// that no other goroutine holds the same slot and counts owner transitions
// (see [QueueStats]).
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause instructions, and
// [golang.org/x/sys/cpu] for cache line sizes.
package handoff
