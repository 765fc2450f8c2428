// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"sync"
	"time"
)

// History is an OverwriteRing shared between goroutines.
//
// Every operation runs under a single lock, a TicketMutex unless another
// sync.Locker was configured with [Builder.Locker]. A typical use is a
// rolling window of processing times: workers Record a duration per item
// while a reporter takes a Snapshot and feeds it to [Summarize].
type History[T any] struct {
	mu   sync.Locker
	ring *OverwriteRing[T]
}

// NewHistory creates a History of the given capacity guarded by a TicketMutex.
// Panics if capacity < 1. Use [BuildHistory] for an error instead.
func NewHistory[T any](capacity int) *History[T] {
	return must(BuildHistory[T](New(capacity)))
}

func newHistory[T any](opts Options) *History[T] {
	mu := opts.locker
	if mu == nil {
		mu = &TicketMutex{}
	}
	return &History[T]{mu: mu, ring: newOverwriteRing[T](opts.capacity)}
}

// Record appends v and reports whether the oldest sample was evicted.
func (h *History[T]) Record(v T) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ring.PushHead(&v)
}

// CatchTail removes and returns the oldest sample, or the zero value of T if
// there is none.
func (h *History[T]) CatchTail() T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ring.CatchTail()
}

// Snapshot appends the current samples to dst, oldest first, and returns the
// extended slice. Samples are not consumed.
func (h *History[T]) Snapshot(dst []T) []T {
	h.mu.Lock()
	defer h.mu.Unlock()
	for v := range h.ring.All() {
		dst = append(dst, v)
	}
	return dst
}

// Size returns the number of samples held.
func (h *History[T]) Size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ring.Size()
}

// Cap returns the history capacity.
func (h *History[T]) Cap() int {
	return h.ring.Cap()
}

// Reset drops every sample.
func (h *History[T]) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ring.Empty()
}

// Summary describes a window of duration samples.
type Summary struct {
	Count int
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	Last  time.Duration // Newest sample
}

// Rate returns the frequency implied by Mean in events per second, or 0 for
// an empty window.
func (s Summary) Rate() float64 {
	if s.Mean <= 0 {
		return 0
	}
	return float64(time.Second) / float64(s.Mean)
}

// Summarize computes a Summary over samples ordered oldest first, as
// returned by [History.Snapshot].
func Summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	s := Summary{
		Count: len(samples),
		Min:   samples[0],
		Max:   samples[0],
		Last:  samples[len(samples)-1],
	}
	var total time.Duration
	for _, d := range samples {
		s.Min = min(s.Min, d)
		s.Max = max(s.Max, d)
		total += d
	}
	s.Mean = total / time.Duration(len(samples))
	return s
}
