package gamepads

import "sync/atomic"

// Mailbox is a lossy single slot. Every Push replaces whatever was pending
// and PopLatest only ever sees the most recent value. It is not a queue:
// values pushed between two pops are coalesced into the last of them.
//
// The zero value is an empty mailbox and is safe for concurrent use.
type Mailbox[T any] struct {
	slot atomic.Pointer[T]
}

// Push records v as the latest value, superseding any pending value.
func (m *Mailbox[T]) Push(v T) {
	m.slot.Store(&v)
}

// PopLatest takes the pending value and empties the slot. The second return
// value is false if nothing was pending.
func (m *Mailbox[T]) PopLatest() (T, bool) {
	p := m.slot.Swap(nil)
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// Pending returns true if a value is waiting to be popped.
func (m *Mailbox[T]) Pending() bool {
	return m.slot.Load() != nil
}
