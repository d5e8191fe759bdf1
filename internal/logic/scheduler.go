package logic

import "github.com/sweeney/whack-a-mole/internal/clock"

// Scheduler decides when and where moles appear and when they give up.
type Scheduler struct {
	rng        Random
	difficulty uint8
	moles      [NumChannels]Mole
	nextSpawn  clock.Ticks
}

// NewScheduler creates a Scheduler. difficulty stretches the spawn interval:
// higher values give longer gaps and an easier game.
func NewScheduler(rng Random, difficulty uint8) *Scheduler {
	return &Scheduler{rng: rng, difficulty: difficulty}
}

// Reset clears every mole and arms the first spawn at the baseline cadence,
// regardless of difficulty.
func (s *Scheduler) Reset(now clock.Ticks) {
	s.moles = [NumChannels]Mole{}
	s.nextSpawn = now.Add(uint32(s.rng.Uniform(SpawnMinMs, SpawnMaxMs)))
}

// Expire deactivates every mole whose lifetime has run out and returns their channels.
func (s *Scheduler) Expire(now clock.Ticks) []Channel {
	var expired []Channel
	for i := range s.moles {
		m := &s.moles[i]
		if m.Active && now.Sub(m.SpawnTime) >= m.Lifetime {
			m.Active = false
			expired = append(expired, Channel(i))
		}
	}
	return expired
}

// Spawn activates a mole on a random free channel once the spawn deadline is
// reached, then schedules the next deadline. It returns the channel used, or
// false if the deadline is still ahead or every channel is busy.
func (s *Scheduler) Spawn(now clock.Ticks) (Channel, bool) {
	if !now.Reached(s.nextSpawn) {
		return NoChannel, false
	}

	ch, ok := s.pickFree()
	if ok {
		s.moles[ch] = Mole{
			Active:    true,
			SpawnTime: now,
			Lifetime:  uint32(s.rng.Uniform(MoleMinMs, MoleMaxMs)),
		}
	}

	lo, hi := SpawnInterval(s.difficulty)
	s.nextSpawn = now.Add(uint32(s.rng.Uniform(lo, hi)))
	return ch, ok
}

func (s *Scheduler) pickFree() (Channel, bool) {
	var free [NumChannels]Channel
	n := 0
	for i, m := range s.moles {
		if !m.Active {
			free[n] = Channel(i)
			n++
		}
	}
	if n == 0 {
		return NoChannel, false
	}
	return free[s.rng.Uniform(0, n-1)], true
}

// Hit deactivates the mole on ch. It reports whether there was one to hit.
func (s *Scheduler) Hit(ch Channel) bool {
	if !ch.Valid() || !s.moles[ch].Active {
		return false
	}
	s.moles[ch].Active = false
	return true
}

// Active reports whether ch has a live mole.
func (s *Scheduler) Active(ch Channel) bool {
	return ch.Valid() && s.moles[ch].Active
}

// Moles returns a copy of every hole's state.
func (s *Scheduler) Moles() [NumChannels]Mole {
	return s.moles
}

// NextSpawn returns the current spawn deadline.
func (s *Scheduler) NextSpawn() clock.Ticks {
	return s.nextSpawn
}

// SpawnInterval maps difficulty 0..255 onto the spawn interval bounds in ms.
// The lower bound runs from SpawnMinMs/2 to SpawnMinMs, the upper bound from
// SpawnMaxMs/2 to SpawnMaxMs; the pair is returned in ascending order.
func SpawnInterval(difficulty uint8) (lo, hi int) {
	lo = mapRange(int(difficulty), 0, 255, SpawnMinMs/2, SpawnMinMs)
	hi = mapRange(int(difficulty), 0, 255, SpawnMaxMs/2, SpawnMaxMs)
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi
}

// mapRange linearly rescales x from [inLo, inHi] to [outLo, outHi] using integer math.
func mapRange(x, inLo, inHi, outLo, outHi int) int {
	return (x-inLo)*(outHi-outLo)/(inHi-inLo) + outLo
}
