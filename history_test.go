// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/handoff"
)

func TestHistoryRecordSnapshot(t *testing.T) {
	h := handoff.NewHistory[int](3)
	assert.Equal(t, 3, h.Cap())

	assert.False(t, h.Record(1))
	assert.False(t, h.Record(2))
	assert.False(t, h.Record(3))
	assert.True(t, h.Record(4))

	assert.Equal(t, []int{2, 3, 4}, h.Snapshot(nil))
	assert.Equal(t, 3, h.Size(), "Snapshot must not consume")

	// Snapshot appends to dst.
	dst := h.Snapshot([]int{-1})
	assert.Equal(t, []int{-1, 2, 3, 4}, dst)

	assert.Equal(t, 2, h.CatchTail())
	assert.Equal(t, 2, h.Size())

	h.Reset()
	assert.Equal(t, 0, h.Size())
	assert.Equal(t, 0, h.CatchTail())
	assert.Empty(t, h.Snapshot(nil))
}

func TestHistoryConcurrentRecord(t *testing.T) {
	if handoff.RaceEnabled {
		t.Skip("skip: lock handoff is invisible to the race detector")
	}

	suite := []struct {
		name   string
		locker sync.Locker
	}{
		{"TicketMutex", nil},
		{"SpinMutex", &handoff.SpinMutex{}},
		{"sync.Mutex", &sync.Mutex{}},
	}

	const (
		writers   = 8
		perWriter = 5_000
		capacity  = 64
	)

	for _, tc := range suite {
		t.Run(tc.name, func(t *testing.T) {
			b := handoff.New(capacity)
			if tc.locker != nil {
				b.Locker(tc.locker)
			}
			h, err := handoff.BuildHistory[int](b)
			require.NoError(t, err)

			var evictions sync.Map
			var wg sync.WaitGroup
			for w := range writers {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					n := 0
					for i := range perWriter {
						if h.Record(id*perWriter + i) {
							n++
						}
					}
					evictions.Store(id, n)
				}(w)
			}
			wg.Wait()

			total := 0
			evictions.Range(func(_, v any) bool {
				total += v.(int)
				return true
			})
			assert.Equal(t, writers*perWriter-capacity, total, "every write past capacity evicts exactly once")

			snap := h.Snapshot(nil)
			require.Len(t, snap, capacity)

			// Each writer's samples appear in its own write order.
			last := make(map[int]int)
			for _, v := range snap {
				id, seq := v/perWriter, v%perWriter
				if prev, ok := last[id]; ok {
					assert.Greater(t, seq, prev, "writer %d out of order", id)
				}
				last[id] = seq
			}
		})
	}
}

func TestHistoryConcurrentReaders(t *testing.T) {
	if handoff.RaceEnabled {
		t.Skip("skip: lock handoff is invisible to the race detector")
	}

	h := handoff.NewHistory[time.Duration](32)
	stop := make(chan struct{})
	var wg sync.WaitGroup

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf []time.Duration
			for {
				select {
				case <-stop:
					return
				default:
				}
				buf = h.Snapshot(buf[:0])
				assert.LessOrEqual(t, len(buf), 32)
			}
		}()
	}

	for i := range 10_000 {
		h.Record(time.Duration(i))
	}
	close(stop)
	wg.Wait()

	snap := h.Snapshot(nil)
	require.Len(t, snap, 32)
	assert.Equal(t, time.Duration(9_999), snap[len(snap)-1])
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, handoff.Summary{}, handoff.Summarize(nil))
	assert.Zero(t, handoff.Summarize(nil).Rate())

	samples := []time.Duration{
		20 * time.Millisecond,
		10 * time.Millisecond,
		30 * time.Millisecond,
		20 * time.Millisecond,
	}
	s := handoff.Summarize(samples)
	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 10*time.Millisecond, s.Min)
	assert.Equal(t, 30*time.Millisecond, s.Max)
	assert.Equal(t, 20*time.Millisecond, s.Mean)
	assert.Equal(t, 20*time.Millisecond, s.Last)
	assert.InDelta(t, 50.0, s.Rate(), 1e-9)
}

func TestSummarizeHistoryWindow(t *testing.T) {
	h := handoff.NewHistory[time.Duration](2)
	h.Record(time.Second)
	h.Record(100 * time.Millisecond)
	h.Record(300 * time.Millisecond)

	s := handoff.Summarize(h.Snapshot(nil))
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 200*time.Millisecond, s.Mean)
	assert.Equal(t, 300*time.Millisecond, s.Last)
	assert.InDelta(t, 5.0, s.Rate(), 1e-9)
}

func TestBuildHistoryInvalid(t *testing.T) {
	_, err := handoff.BuildHistory[int](handoff.New(0))
	assert.ErrorIs(t, err, handoff.ErrInvalidCapacity)
	assert.Panics(t, func() { handoff.NewHistory[int](0) })
}
