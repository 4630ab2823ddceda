package physics

import "math/rand/v2"

// RandomSource yields uniform samples in [0, 1).
// Turbulence and wind drift draw from it so callers can seed or fake it.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a PCG-backed source seeded with seed
func NewRandomSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Uniform draws a sample in [lo, hi)
func Uniform(rng RandomSource, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
