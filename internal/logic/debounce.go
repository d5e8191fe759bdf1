package logic

import (
	"github.com/sweeney/whack-a-mole/internal/cell"
	"github.com/sweeney/whack-a-mole/internal/clock"
)

// Debouncer turns raw falling edges into at most one press per channel per
// debounce window.
//
// Edge runs in the edge-handler context and may race with itself (different
// channels) and with Drain/Restamp on the main loop. All shared state lives in
// cells, so none of these calls block.
type Debouncer struct {
	src     clock.Source
	window  uint32
	pending cell.Bits
	last    []cell.Stamp
	bell    *cell.Doorbell
}

// NewDebouncer creates a Debouncer reading time from src. Every channel starts
// with its window already open. bell, if non-nil, is rung on each accepted press.
func NewDebouncer(src clock.Source, window uint32, bell *cell.Doorbell) *Debouncer {
	open := uint32(src.Now()) - window
	return &Debouncer{
		src:    src,
		window: window,
		last:   cell.NewStamps(NumChannels, open),
		bell:   bell,
	}
}

// Edge records a raw edge on ch. It reports whether the edge was accepted as a
// press; edges inside the window are dropped silently.
func (d *Debouncer) Edge(ch Channel) bool {
	if !ch.Valid() {
		return false
	}
	stamp := &d.last[ch]
	for {
		// The clock is read after the stamp so now is never behind it,
		// even when the main loop restamps concurrently.
		last := stamp.Load()
		now := d.src.Now()
		if now.Sub(clock.Ticks(last)) < d.window {
			return false
		}
		if stamp.Advance(last, uint32(now)) {
			break
		}
	}
	d.pending.Set(ch.bit())
	d.bell.Ring()
	return true
}

// Drain returns the presses accepted since the previous Drain and clears them.
func (d *Debouncer) Drain() PressSet {
	return PressSet(d.pending.Take())
}

// Restamp closes every channel's window as if each had just been pressed at now.
func (d *Debouncer) Restamp(now clock.Ticks) {
	for i := range d.last {
		d.last[i].Store(uint32(now))
	}
}
