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

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/handoff"
)

type tryLocker interface {
	sync.Locker
	TryLock() bool
}

func mutexSuite() []struct {
	name string
	new  func() tryLocker
} {
	return []struct {
		name string
		new  func() tryLocker
	}{
		{"SpinMutex", func() tryLocker { return &handoff.SpinMutex{} }},
		{"TicketMutex", func() tryLocker { return &handoff.TicketMutex{} }},
	}
}

func TestMutexTryLock(t *testing.T) {
	for _, tc := range mutexSuite() {
		t.Run(tc.name, func(t *testing.T) {
			m := tc.new()
			require.True(t, m.TryLock(), "zero value must be unlocked")
			assert.False(t, m.TryLock())
			m.Unlock()

			m.Lock()
			assert.False(t, m.TryLock())
			m.Unlock()
			assert.True(t, m.TryLock())
			m.Unlock()
		})
	}
}

// TestMutexExclusion counts goroutines inside the critical section; the
// count must never exceed one.
func TestMutexExclusion(t *testing.T) {
	if handoff.RaceEnabled {
		t.Skip("skip: lock handoff is invisible to the race detector")
	}

	for _, tc := range mutexSuite() {
		t.Run(tc.name, func(t *testing.T) {
			const (
				goroutines = 16
				iterations = 2_000
			)
			m := tc.new()
			var inside atomix.Int32
			var violations atomix.Int32
			counter := 0

			var wg sync.WaitGroup
			for range goroutines {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for range iterations {
						m.Lock()
						if inside.Add(1) != 1 {
							violations.Add(1)
						}
						counter++
						inside.Add(-1)
						m.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Zero(t, violations.Load())
			assert.Equal(t, goroutines*iterations, counter)
		})
	}
}

func TestMutexWakesParkedWaiter(t *testing.T) {
	if handoff.RaceEnabled {
		t.Skip("skip: lock handoff is invisible to the race detector")
	}

	for _, tc := range mutexSuite() {
		t.Run(tc.name, func(t *testing.T) {
			m := tc.new()
			m.Lock()

			acquired := make(chan struct{})
			go func() {
				m.Lock()
				close(acquired)
				m.Unlock()
			}()

			select {
			case <-acquired:
				t.Fatal("Lock returned while the mutex was held")
			case <-time.After(50 * time.Millisecond):
			}

			m.Unlock()
			select {
			case <-acquired:
			case <-time.After(2 * time.Second):
				t.Fatal("waiter was not woken by Unlock")
			}
		})
	}
}

// TestMutexUnlockUnlocked tests that a stray Unlock panics and leaves the
// mutex usable once the panic is recovered.
func TestMutexUnlockUnlocked(t *testing.T) {
	suite := []struct {
		name string
		m    tryLocker
		msg  string
	}{
		{"SpinMutex", &handoff.SpinMutex{}, "handoff: unlock of unlocked SpinMutex"},
		{"TicketMutex", &handoff.TicketMutex{}, "handoff: unlock of unlocked TicketMutex"},
	}

	for _, tc := range suite {
		t.Run(tc.name, func(t *testing.T) {
			assert.PanicsWithValue(t, tc.msg, tc.m.Unlock)

			require.True(t, tc.m.TryLock(), "mutex wedged by a recovered Unlock")
			tc.m.Unlock()
			assert.PanicsWithValue(t, tc.msg, tc.m.Unlock, "second stray Unlock")

			acquired := make(chan struct{})
			go func() {
				tc.m.Lock()
				close(acquired)
			}()
			select {
			case <-acquired:
			case <-time.After(2 * time.Second):
				t.Fatal("Lock blocked after a recovered Unlock")
			}
			tc.m.Unlock()
		})
	}
}

func TestTicketMutexTryLockWithWaiter(t *testing.T) {
	if handoff.RaceEnabled {
		t.Skip("skip: lock handoff is invisible to the race detector")
	}

	var m handoff.TicketMutex
	m.Lock()

	var waiting atomix.Int64
	done := make(chan struct{})
	go func() {
		waiting.Add(1)
		m.Lock()
		m.Unlock()
		close(done)
	}()
	waitForCount(t, 2*time.Second, &waiting, 1, "waiter did not start")
	time.Sleep(20 * time.Millisecond)

	m.Unlock()
	<-done

	// Both tickets have been served; the mutex is free again.
	require.True(t, m.TryLock())
	m.Unlock()
}
