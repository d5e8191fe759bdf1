package logic

import "testing"

func TestHeartbeatDisabledWithZeroInterval(t *testing.T) {
	h := NewHeartbeat(0, 0)
	if hb := h.Check(1<<30, EventCounts{}); hb != nil {
		t.Errorf("expected nil heartbeat when disabled, got %+v", hb)
	}
}

func TestHeartbeatFiresAtInterval(t *testing.T) {
	h := NewHeartbeat(1000, 500)

	if hb := h.Check(1499, EventCounts{}); hb != nil {
		t.Error("heartbeat fired early")
	}

	counts := EventCounts{Games: 1, Hits: 3}
	hb := h.Check(1500, counts)
	if hb == nil {
		t.Fatal("expected heartbeat at interval")
	}
	if hb.UptimeMs != 1000 {
		t.Errorf("uptime: got %d, want 1000", hb.UptimeMs)
	}
	if hb.Counts != counts {
		t.Errorf("counts: got %+v, want %+v", hb.Counts, counts)
	}

	if hb := h.Check(2000, counts); hb != nil {
		t.Error("heartbeat should measure from the last firing")
	}
	if hb := h.Check(2500, counts); hb == nil {
		t.Error("expected second heartbeat")
	}
}

func TestRandomUniformBounds(t *testing.T) {
	r := NewRandom(1)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := r.Uniform(3, 6)
		if v < 3 || v > 6 {
			t.Fatalf("value %d outside [3,6]", v)
		}
		seen[v] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected all of [3,6] to appear, got %v", seen)
	}
	if v := r.Uniform(9, 9); v != 9 {
		t.Errorf("degenerate range: got %d, want 9", v)
	}
	if v := r.Uniform(6, 3); v < 3 || v > 6 {
		t.Errorf("reversed bounds: got %d", v)
	}
}
