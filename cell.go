// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

// cell is storage for at most one value whose lifetime is managed by hand.
//
// A cell holds no value until construct is called and holds none again after
// take. Whether it currently holds a value is not recorded here: the owning
// slot's ticket is the only authority (even ticket: empty, odd: constructed).
// Callers must hold the matching ticket before touching the cell.
type cell[T any] struct {
	value T
	owner ownerMark
}

// construct copies *elem into the empty cell.
func (c *cell[T]) construct(elem *T) {
	c.owner.acquire()
	c.value = *elem
	c.owner.release()
}

// take moves the value out and destroys it in place. The cell is zeroed so
// that the queue keeps no reference to anything the value points at.
func (c *cell[T]) take() T {
	c.owner.acquire()
	v := c.value
	var zero T
	c.value = zero
	c.owner.release()
	return v
}
