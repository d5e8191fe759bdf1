// Package status provides a thread-safe view of the game for the web page and
// MQTT system events. The main loop writes it; HTTP handlers read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/whack-a-mole/internal/logic"
)

// Config contains the settings shown on the status page.
type Config struct {
	Chip        string
	Pins        [logic.NumChannels]int
	Display     string
	Broker      string
	HTTPAddr    string
	HeartbeatMs int64
	StorePath   string
}

// Snapshot is a point-in-time view of the game.
// It is a value type; safe to use after the lock is released.
type Snapshot struct {
	Phase         logic.Phase
	Score         uint32
	HighScore     uint32
	Difficulty    uint8
	Moles         [logic.NumChannels]logic.Mole
	Top           string
	Bottom        string
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the process started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// ActiveMoles returns the number of raised moles.
func (s Snapshot) ActiveMoles() int {
	n := 0
	for _, m := range s.Moles {
		if m.Active {
			n++
		}
	}
	return n
}

// Tracker holds mutable state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	t := &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
	t.snap.Top, t.snap.Bottom = startLines()
	return t
}

// Update records the game state and the two display lines.
// Called from runLoop after each rendered frame.
func (t *Tracker) Update(state logic.State, moles [logic.NumChannels]logic.Mole, top, bottom logic.Line, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.Phase = state.Phase
	t.snap.Score = state.Score
	t.snap.HighScore = state.HighScore
	t.snap.Moles = moles
	t.snap.Top = top.String()
	t.snap.Bottom = bottom.String()
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetDifficulty records the difficulty loaded from the store.
func (t *Tracker) SetDifficulty(d uint8) {
	t.mu.Lock()
	t.snap.Difficulty = d
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}

// startLines returns the title screen shown before the first game.
func startLines() (string, string) {
	top, bottom := logic.Render(logic.State{}, [logic.NumChannels]logic.Mole{})
	return top.String(), bottom.String()
}
