package logic

import (
	"sync"
	"testing"

	"github.com/sweeney/whack-a-mole/internal/cell"
	"github.com/sweeney/whack-a-mole/internal/clock"
)

// manualClock is a clock.Source whose time only moves when told to.
type manualClock struct {
	mu  sync.Mutex
	now clock.Ticks
}

func (m *manualClock) Now() clock.Ticks {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualClock) Set(t clock.Ticks) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

func (m *manualClock) Advance(ms uint32) {
	m.mu.Lock()
	m.now = m.now.Add(ms)
	m.mu.Unlock()
}

func TestDebouncerFirstPressAccepted(t *testing.T) {
	src := &manualClock{}
	d := NewDebouncer(src, DebounceWindowMs, nil)

	if !d.Edge(2) {
		t.Fatal("first edge at boot should be accepted")
	}
	got := d.Drain()
	if !got.Has(2) {
		t.Errorf("expected channel 2 in drained set, got %b", got)
	}
	if got.Has(0) || got.Has(1) || got.Has(3) {
		t.Errorf("unexpected channels in drained set: %b", got)
	}
}

func TestDebouncerWithinWindowDropped(t *testing.T) {
	src := &manualClock{now: 1000}
	d := NewDebouncer(src, DebounceWindowMs, nil)

	d.Edge(1)
	src.Advance(149)
	if d.Edge(1) {
		t.Error("edge 149ms after accepted press should be dropped")
	}

	got := d.Drain()
	if got != PressSetOf(1) {
		t.Errorf("expected exactly one press on channel 1, got %b", got)
	}
}

func TestDebouncerAtWindowAccepted(t *testing.T) {
	src := &manualClock{now: 1000}
	d := NewDebouncer(src, DebounceWindowMs, nil)

	d.Edge(1)
	if d.Drain() != PressSetOf(1) {
		t.Fatal("expected first press")
	}

	src.Advance(150)
	if !d.Edge(1) {
		t.Error("edge exactly 150ms later should be accepted")
	}
	if d.Drain() != PressSetOf(1) {
		t.Error("expected second press")
	}
}

func TestDebouncerDroppedEdgeDoesNotExtendWindow(t *testing.T) {
	src := &manualClock{now: 500}
	d := NewDebouncer(src, DebounceWindowMs, nil)

	d.Edge(0)
	src.Advance(100)
	d.Edge(0) // bounce, dropped
	src.Advance(50)
	if !d.Edge(0) {
		t.Error("window should be measured from the last accepted press")
	}
}

func TestDebouncerChannelsIndependent(t *testing.T) {
	src := &manualClock{now: 2000}
	d := NewDebouncer(src, DebounceWindowMs, nil)

	d.Edge(0)
	src.Advance(10)
	if !d.Edge(3) {
		t.Error("channel 3 should not be affected by channel 0's window")
	}
	if got := d.Drain(); got != PressSetOf(0, 3) {
		t.Errorf("expected channels 0 and 3, got %b", got)
	}
}

func TestDebouncerInvalidChannelIgnored(t *testing.T) {
	src := &manualClock{}
	d := NewDebouncer(src, DebounceWindowMs, nil)

	if d.Edge(4) || d.Edge(-1) {
		t.Error("out-of-range channels should be rejected")
	}
	if !d.Drain().Empty() {
		t.Error("expected empty set")
	}
}

func TestDebouncerDrainClears(t *testing.T) {
	src := &manualClock{}
	d := NewDebouncer(src, DebounceWindowMs, nil)

	d.Edge(1)
	d.Drain()
	if !d.Drain().Empty() {
		t.Error("second drain should be empty")
	}
}

func TestDebouncerRestamp(t *testing.T) {
	src := &manualClock{now: 5000}
	d := NewDebouncer(src, DebounceWindowMs, nil)

	d.Restamp(5000)
	src.Advance(100)
	for ch := Channel(0); ch < NumChannels; ch++ {
		if d.Edge(ch) {
			t.Errorf("channel %d: edge 100ms after restamp should be dropped", ch)
		}
	}

	src.Advance(50)
	if !d.Edge(2) {
		t.Error("edge 150ms after restamp should be accepted")
	}
}

// interruptedClock runs a hook once, just after its first reading, to model
// the main loop preempting an edge handler between the clock read and the
// stamp load.
type interruptedClock struct {
	manualClock
	hook func()
}

func (c *interruptedClock) Now() clock.Ticks {
	now := c.manualClock.Now()
	if hook := c.hook; hook != nil {
		c.hook = nil
		hook()
	}
	return now
}

func TestDebouncerRestampDuringEdgeHoldsCooldown(t *testing.T) {
	src := &interruptedClock{manualClock: manualClock{now: 10000}}
	d := NewDebouncer(src, DebounceWindowMs, nil)
	src.hook = func() {
		src.Set(10001)
		d.Restamp(10001)
	}

	if d.Edge(0) {
		t.Fatal("edge racing a restamp should be held by the cooldown")
	}
	if !d.Drain().Empty() {
		t.Error("no press should be pending")
	}

	src.Set(10001 + DebounceWindowMs)
	if !d.Edge(0) {
		t.Error("edge after the cooldown should be accepted")
	}
}

func TestDebouncerAcrossClockWrap(t *testing.T) {
	src := &manualClock{now: 0xFFFFFFC0}
	d := NewDebouncer(src, DebounceWindowMs, nil)

	d.Edge(1)
	d.Drain()

	src.Advance(100) // wraps past zero
	if d.Edge(1) {
		t.Error("edge 100ms later across wrap should be dropped")
	}
	src.Advance(50)
	if !d.Edge(1) {
		t.Error("edge 150ms later across wrap should be accepted")
	}
}

func TestDebouncerRingsDoorbell(t *testing.T) {
	src := &manualClock{}
	bell := cell.NewDoorbell()
	d := NewDebouncer(src, DebounceWindowMs, bell)

	d.Edge(0)
	select {
	case <-bell.C():
	default:
		t.Fatal("expected doorbell after accepted press")
	}

	d.Edge(0)
	select {
	case <-bell.C():
		t.Error("dropped edge should not ring")
	default:
	}
}

func TestDebouncerConcurrentEdgesOneAccepted(t *testing.T) {
	src := &manualClock{now: 10000}
	d := NewDebouncer(src, DebounceWindowMs, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.Edge(3) {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Errorf("expected exactly one accepted edge, got %d", accepted)
	}
	if d.Drain() != PressSetOf(3) {
		t.Error("expected channel 3 pending")
	}
}
