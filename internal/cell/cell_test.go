package cell

import (
	"sync"
	"testing"
)

func TestFlagTakeClears(t *testing.T) {
	var f Flag
	if f.Take() {
		t.Error("new flag should not be raised")
	}
	f.Raise()
	f.Raise()
	if !f.Take() {
		t.Error("expected raised flag")
	}
	if f.Take() {
		t.Error("flag should be cleared after Take")
	}
}

func TestBitsSetAndTake(t *testing.T) {
	var b Bits
	b.Set(1 << 2)
	b.Set(1 << 0)
	b.Set(1 << 2)

	if got := b.Take(); got != 0b101 {
		t.Errorf("Take: got %b, want 101", got)
	}
	if got := b.Take(); got != 0 {
		t.Errorf("second Take: got %b, want 0", got)
	}
}

func TestBitsConcurrentProducers(t *testing.T) {
	var b Bits
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(bit uint) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				b.Set(1 << bit)
			}
		}(uint(i))
	}
	wg.Wait()

	if got := b.Take(); got != 0b1111 {
		t.Errorf("Take: got %b, want 1111", got)
	}
}

func TestCounterWraps(t *testing.T) {
	var c Counter
	c.v.Store(^uint32(0))
	if got := c.Inc(); got != 0 {
		t.Errorf("Inc at max: got %d, want 0", got)
	}
	if got := c.Load(); got != 0 {
		t.Errorf("Load: got %d, want 0", got)
	}
}

func TestStampAdvance(t *testing.T) {
	s := NewStamps(2, 7)
	if s[1].Load() != 7 {
		t.Fatalf("initial: got %d, want 7", s[1].Load())
	}
	if !s[1].Advance(7, 10) {
		t.Error("Advance from current value should succeed")
	}
	if s[1].Advance(7, 20) {
		t.Error("Advance from stale value should fail")
	}
	if s[1].Load() != 10 {
		t.Errorf("after Advance: got %d, want 10", s[1].Load())
	}
	s[0].Store(3)
	if s[0].Load() != 3 {
		t.Errorf("after Store: got %d, want 3", s[0].Load())
	}
}

func TestDoorbellCoalesces(t *testing.T) {
	d := NewDoorbell()
	d.Ring()
	d.Ring()
	d.Ring()

	select {
	case <-d.C():
	default:
		t.Fatal("expected a pending ring")
	}
	select {
	case <-d.C():
		t.Error("rings should coalesce into one wake-up")
	default:
	}
}

func TestDoorbellNilRing(t *testing.T) {
	var d *Doorbell
	d.Ring()
}
