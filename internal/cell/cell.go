// Package cell provides the small set of shared values that cross between
// interrupt-style producers (timer and edge handlers) and the main loop.
//
// Every cell exposes only indivisible operations: read-and-clear or
// read-modify-write. Nothing here blocks.
package cell

import "sync/atomic"

// Flag is a boolean raised by a producer and consumed by the main loop.
type Flag struct {
	v atomic.Bool
}

// Raise sets the flag.
func (f *Flag) Raise() {
	f.v.Store(true)
}

// Take reports whether the flag was raised and clears it in the same step.
func (f *Flag) Take() bool {
	return f.v.Swap(false)
}

// Bits is a 32-bit set that producers OR into and the consumer drains.
type Bits struct {
	v atomic.Uint32
}

// Set ORs mask into the set.
func (b *Bits) Set(mask uint32) {
	for {
		old := b.v.Load()
		if old&mask == mask {
			return
		}
		if b.v.CompareAndSwap(old, old|mask) {
			return
		}
	}
}

// Take returns the current set and clears it in the same step.
func (b *Bits) Take() uint32 {
	return b.v.Swap(0)
}

// Counter is a free-running 32-bit counter. It wraps.
type Counter struct {
	v atomic.Uint32
}

// Inc adds one and returns the new value.
func (c *Counter) Inc() uint32 {
	return c.v.Add(1)
}

// Load returns the current value.
func (c *Counter) Load() uint32 {
	return c.v.Load()
}

// Stamp holds a 32-bit timestamp.
type Stamp struct {
	v atomic.Uint32
}

// NewStamps returns n stamps initialised to v.
func NewStamps(n int, v uint32) []Stamp {
	s := make([]Stamp, n)
	for i := range s {
		s[i].v.Store(v)
	}
	return s
}

// Load returns the stamp.
func (s *Stamp) Load() uint32 {
	return s.v.Load()
}

// Advance replaces old with next only if the stamp still holds old.
func (s *Stamp) Advance(old, next uint32) bool {
	return s.v.CompareAndSwap(old, next)
}

// Store overwrites the stamp.
func (s *Stamp) Store(v uint32) {
	s.v.Store(v)
}

// Doorbell wakes the main loop without ever blocking the ringer.
// Rings coalesce: any number of Ring calls before a receive yield one wake-up.
type Doorbell struct {
	ch chan struct{}
}

// NewDoorbell creates a Doorbell.
func NewDoorbell() *Doorbell {
	return &Doorbell{ch: make(chan struct{}, 1)}
}

// Ring signals the main loop. Safe to call on a nil Doorbell.
func (d *Doorbell) Ring() {
	if d == nil {
		return
	}
	select {
	case d.ch <- struct{}{}:
	default:
	}
}

// C returns the channel the main loop waits on.
func (d *Doorbell) C() <-chan struct{} {
	return d.ch
}
