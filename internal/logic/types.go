// Package logic contains the game rules: input debouncing, mole scheduling,
// scoring and rendering.
// This package has NO hardware dependencies (no GPIO, MQTT, display or OS).
// Time is always injected as clock.Ticks.
package logic

import "github.com/sweeney/whack-a-mole/internal/clock"

// Timing and layout constants, all in milliseconds unless noted.
const (
	NumChannels = 4

	GameTickMs       = 50
	DebounceWindowMs = 150

	MoleMinMs  = 600
	MoleMaxMs  = 1200
	SpawnMinMs = 1000
	SpawnMaxMs = 1200

	DefaultDifficulty uint8 = 160
)

// Channel identifies one button and its hole, 0..NumChannels-1.
type Channel int

// Valid reports whether c names one of the four channels.
func (c Channel) Valid() bool {
	return c >= 0 && c < NumChannels
}

func (c Channel) bit() uint32 {
	return 1 << uint(c)
}

// PressSet is the set of channels pressed since the last drain.
type PressSet uint32

// Has reports whether ch is in the set.
func (s PressSet) Has(ch Channel) bool {
	return ch.Valid() && uint32(s)&ch.bit() != 0
}

// Empty reports whether no channel is set.
func (s PressSet) Empty() bool {
	return s == 0
}

// PressSetOf builds a set from channels. Mostly useful in tests.
func PressSetOf(chs ...Channel) PressSet {
	var s PressSet
	for _, ch := range chs {
		if ch.Valid() {
			s |= PressSet(ch.bit())
		}
	}
	return s
}

// Mole is the target state of one hole.
type Mole struct {
	Active    bool
	SpawnTime clock.Ticks
	Lifetime  uint32
}

// Phase is the game's top-level state.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseRunning
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "START"
	case PhaseRunning:
		return "RUNNING"
	}
	return "UNKNOWN"
}

// State is a point-in-time view of the game.
type State struct {
	Phase     Phase
	Score     uint32
	HighScore uint32
}

// Settings is the part of the game that survives power cycles.
type Settings struct {
	HighScore  uint32
	Difficulty uint8
}

// Persister stores Settings. Implementations should skip writes that do not
// change anything.
type Persister interface {
	Save(Settings) error
}

// EventType names something that happened in the game.
type EventType string

const (
	EventGameStart EventType = "GAME_START"
	EventHit       EventType = "HIT"
	EventMiss      EventType = "MISS"
	EventHighScore EventType = "HIGH_SCORE"
	EventSpawn     EventType = "SPAWN"
	EventExpire    EventType = "EXPIRE"
)

// NoChannel marks events that are not tied to a channel.
const NoChannel Channel = -1

// Event is emitted by the game for logging and publishing.
type Event struct {
	At        clock.Ticks
	Type      EventType
	Channel   Channel
	Score     uint32
	HighScore uint32
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Games   int
	Hits    int
	Misses  int
	Spawns  int
	Expires int
}

// Random supplies uniformly distributed integers in the closed interval [min, max].
type Random interface {
	Uniform(min, max int) int
}
