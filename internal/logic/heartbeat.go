package logic

import "github.com/sweeney/whack-a-mole/internal/clock"

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	At       clock.Ticks
	UptimeMs uint32
	Counts   EventCounts
}

// Heartbeat fires at a fixed interval measured on the game clock.
type Heartbeat struct {
	interval uint32
	start    clock.Ticks
	last     clock.Ticks
}

// NewHeartbeat creates a Heartbeat that first fires interval ms after start.
// An interval of zero disables it.
func NewHeartbeat(interval uint32, start clock.Ticks) *Heartbeat {
	return &Heartbeat{interval: interval, start: start, last: start}
}

// Check returns heartbeat data if the interval has elapsed since the last
// heartbeat (or startup), and nil otherwise.
func (h *Heartbeat) Check(now clock.Ticks, counts EventCounts) *HeartbeatData {
	if h.interval == 0 {
		return nil
	}
	if now.Sub(h.last) < h.interval {
		return nil
	}
	h.last = now
	return &HeartbeatData{
		At:       now,
		UptimeMs: now.Sub(h.start),
		Counts:   counts,
	}
}
