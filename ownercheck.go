// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build ownercheck

package handoff

import "code.hybscloud.com/atomix"

// OwnershipCheckEnabled is true in the instrumented build.
// Every cell access asserts that no other goroutine holds the same cell.
const OwnershipCheckEnabled = true

// ownerMark records owner transitions of one cell.
type ownerMark struct {
	held        atomix.Uint64
	transitions atomix.Uint64
}

func (m *ownerMark) acquire() {
	if !m.held.CompareAndSwapAcqRel(0, 1) {
		panic("handoff: cell accessed by two owners at once")
	}
	m.transitions.AddAcqRel(1)
}

func (m *ownerMark) release() {
	if !m.held.CompareAndSwapAcqRel(1, 0) {
		panic("handoff: cell released without an owner")
	}
}

func (m *ownerMark) count() uint64 {
	return m.transitions.LoadAcquire()
}
