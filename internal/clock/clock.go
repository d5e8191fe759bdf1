// Package clock provides the millisecond heartbeat that every other part of
// the game measures time against.
package clock

import (
	"context"
	"time"

	"github.com/sweeney/whack-a-mole/internal/cell"
)

// Ticks counts milliseconds since boot. It wraps at 2^32 (about 49.7 days),
// so values must only be compared through Sub or Reached.
type Ticks uint32

// Sub returns the milliseconds elapsed from earlier to t, correct across wraparound
// as long as the true gap is below 2^32 ms.
func (t Ticks) Sub(earlier Ticks) uint32 {
	return uint32(t - earlier)
}

// Add returns t advanced by ms.
func (t Ticks) Add(ms uint32) Ticks {
	return t + Ticks(ms)
}

// Reached reports whether t is at or past deadline. Deadlines more than
// 2^31 ms in the past read as future.
func (t Ticks) Reached(deadline Ticks) bool {
	return int32(t-deadline) >= 0
}

// Source is anything that can report the current tick count.
type Source interface {
	Now() Ticks
}

// Clock is the free-running counter plus the game-tick flag.
//
// Advance is the only writer and must be called from a single goroutine (the
// timer context). Now and TickDue may be called from anywhere.
type Clock struct {
	ms        cell.Counter
	due       cell.Flag
	tickEvery uint32
	sinceTick uint32 // timer context only
	bell      *cell.Doorbell
}

// New creates a Clock that raises its tick flag every tickEvery milliseconds
// and rings bell when it does. bell may be nil.
func New(tickEvery uint32, bell *cell.Doorbell) *Clock {
	if tickEvery == 0 {
		tickEvery = 1
	}
	return &Clock{tickEvery: tickEvery, bell: bell}
}

// Advance moves time forward by one millisecond.
func (c *Clock) Advance() {
	c.ms.Inc()
	c.sinceTick++
	if c.sinceTick >= c.tickEvery {
		c.sinceTick = 0
		c.due.Raise()
		c.bell.Ring()
	}
}

// Now returns the current tick count.
func (c *Clock) Now() Ticks {
	return Ticks(c.ms.Load())
}

// TickDue reports whether a game tick has elapsed since the last call, and
// clears the flag. Several elapsed ticks collapse into one.
func (c *Clock) TickDue() bool {
	return c.due.Take()
}

// Run drives Advance from wall time until ctx is done. period is the
// polling resolution; if the goroutine is scheduled late the counter catches
// up to elapsed wall time in one burst.
func (c *Clock) Run(ctx context.Context, period time.Duration) {
	if period <= 0 {
		period = time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	start := time.Now()
	var advanced int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			target := time.Since(start).Milliseconds()
			for advanced < target {
				c.Advance()
				advanced++
			}
		}
	}
}
