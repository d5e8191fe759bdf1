package logic

import (
	"log"

	"github.com/sweeney/whack-a-mole/internal/clock"
)

// Game owns the score, the high score and the START/RUNNING state, and drives
// the Scheduler. It is only ever touched from the main loop.
type Game struct {
	buttons  *Debouncer
	sched    *Scheduler
	persist  Persister
	phase    Phase
	score    uint32
	settings Settings
	counts   EventCounts
}

// NewGame creates a game on the start screen. settings carries the persisted
// high score and difficulty; persist receives every high-score improvement.
func NewGame(buttons *Debouncer, rng Random, settings Settings, persist Persister) *Game {
	return &Game{
		buttons:  buttons,
		sched:    NewScheduler(rng, settings.Difficulty),
		persist:  persist,
		phase:    PhaseStart,
		settings: settings,
	}
}

// Begin starts a new round: score to zero, holes cleared, first spawn armed.
func (g *Game) Begin(now clock.Ticks) Event {
	g.phase = PhaseRunning
	g.score = 0
	g.sched.Reset(now)
	g.counts.Games++
	return g.event(now, EventGameStart, NoChannel)
}

// HandlePresses applies one drained batch of presses.
//
// Every flagged channel is scored before a miss resets the score, so a batch
// holding both a hit and a miss still gets its high-score check.
func (g *Game) HandlePresses(now clock.Ticks, presses PressSet) []Event {
	if presses.Empty() {
		return nil
	}

	var events []Event
	if g.phase != PhaseRunning {
		events = append(events, g.Begin(now))
	}

	missed := false
	for ch := Channel(0); ch < NumChannels; ch++ {
		if !presses.Has(ch) {
			continue
		}
		if !g.sched.Hit(ch) {
			missed = true
			continue
		}
		g.score++
		g.counts.Hits++
		events = append(events, g.event(now, EventHit, ch))
		if g.score > g.settings.HighScore {
			g.settings.HighScore = g.score
			events = append(events, g.event(now, EventHighScore, ch))
			if g.persist != nil {
				if err := g.persist.Save(g.settings); err != nil {
					log.Printf("game: save high score %d: %v", g.settings.HighScore, err)
				}
			}
		}
	}

	if missed {
		g.score = 0
		g.counts.Misses++
		g.buttons.Restamp(now)
		events = append(events, g.event(now, EventMiss, NoChannel))
	}
	return events
}

// Tick runs the scheduler's expiry and spawn steps. It does nothing until
// the game is running.
func (g *Game) Tick(now clock.Ticks) []Event {
	if g.phase != PhaseRunning {
		return nil
	}

	var events []Event
	for _, ch := range g.sched.Expire(now) {
		g.counts.Expires++
		events = append(events, g.event(now, EventExpire, ch))
	}
	if ch, ok := g.sched.Spawn(now); ok {
		g.counts.Spawns++
		events = append(events, g.event(now, EventSpawn, ch))
	}
	return events
}

// State returns the current score, high score and phase.
func (g *Game) State() State {
	return State{
		Phase:     g.phase,
		Score:     g.score,
		HighScore: g.settings.HighScore,
	}
}

// Moles returns every hole's state.
func (g *Game) Moles() [NumChannels]Mole {
	return g.sched.Moles()
}

// NextSpawn returns the scheduler's current spawn deadline.
func (g *Game) NextSpawn() clock.Ticks {
	return g.sched.NextSpawn()
}

// Settings returns the persisted fields as the game currently sees them.
func (g *Game) Settings() Settings {
	return g.settings
}

// Counts returns a copy of the event counters.
func (g *Game) Counts() EventCounts {
	return g.counts
}

func (g *Game) event(now clock.Ticks, typ EventType, ch Channel) Event {
	return Event{
		At:        now,
		Type:      typ,
		Channel:   ch,
		Score:     g.score,
		HighScore: g.settings.HighScore,
	}
}
