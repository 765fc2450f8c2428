// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// defaultSpins is the number of spin.Wait rounds a waiter burns before it
// parks on a waitpoint.
const defaultSpins = 16

// Options configures primitive creation.
type Options struct {
	// Exact capacity (never rounded)
	capacity int

	// Spin rounds before parking
	spins int

	// Lock guarding a History (nil selects a TicketMutex)
	locker sync.Locker
}

// Builder creates primitives with fluent configuration.
//
// Example:
//
//	// Bounded ticket queue with a longer spin phase
//	q, err := handoff.BuildBounded[Frame](handoff.New(256).Spins(64))
//
//	// Rolling history guarded by a SpinMutex instead of the default TicketMutex
//	h, err := handoff.BuildHistory[time.Duration](handoff.New(120).Locker(&handoff.SpinMutex{}))
type Builder struct {
	opts Options
}

// New creates a builder with the given capacity.
//
// Capacity is used as given: a queue of capacity 3 holds exactly 3 items.
// The capacity is validated when a primitive is built; see [Builder.Validate].
func New(capacity int) *Builder {
	return &Builder{opts: Options{capacity: capacity, spins: defaultSpins}}
}

// Spins sets how many CPU-pause rounds a blocked Push, Poll or Lock spends
// before parking the goroutine. Zero parks immediately.
func (b *Builder) Spins(n int) *Builder {
	b.opts.spins = max(n, 0)
	return b
}

// Locker sets the lock that guards a History built from b.
func (b *Builder) Locker(l sync.Locker) *Builder {
	b.opts.locker = l
	return b
}

// Validate reports whether the configuration can build a primitive.
// It returns an error wrapping [ErrInvalidCapacity] if capacity < 1.
func (b *Builder) Validate() error {
	if b.opts.capacity < 1 {
		return fmt.Errorf("handoff: %w (got %d)", ErrInvalidCapacity, b.opts.capacity)
	}
	return nil
}

// BuildBounded creates a BoundedQueue[T] or reports why it cannot.
func BuildBounded[T any](b *Builder) (*BoundedQueue[T], error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return newBoundedQueue[T](b.opts), nil
}

// BuildRing creates an OverwriteRing[T] or reports why it cannot.
func BuildRing[T any](b *Builder) (*OverwriteRing[T], error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return newOverwriteRing[T](b.opts.capacity), nil
}

// BuildHistory creates a History[T] or reports why it cannot.
// Without [Builder.Locker] the history is guarded by a TicketMutex.
func BuildHistory[T any](b *Builder) (*History[T], error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return newHistory[T](b.opts), nil
}

// must panics with err. Constructors without an error result use it so that
// a bad capacity never yields a degenerate primitive.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// cacheLineSize is the padding unit for the target architecture.
const cacheLineSize = int(unsafe.Sizeof(cpu.CacheLinePad{}))

// pad is cache line padding to prevent false sharing.
type pad = cpu.CacheLinePad

// padShort is padding to fill cache line after 8-byte field.
type padShort [cacheLineSize - 8]byte
