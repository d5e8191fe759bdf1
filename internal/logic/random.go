package logic

import "math/rand/v2"

// PRNG is the default Random, a PCG generator seeded once at boot.
// Not safe for concurrent use; only the main loop draws from it.
type PRNG struct {
	r *rand.Rand
}

// NewRandom creates a PRNG from seed.
func NewRandom(seed uint64) *PRNG {
	return &PRNG{r: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

// Uniform returns an integer in [min, max]. The bounds may be given in either order.
func (p *PRNG) Uniform(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + p.r.IntN(max-min+1)
}
