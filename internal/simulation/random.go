package simulation

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// RandomSource yields uniform values in [0,1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a PCG generator seeded from crypto/rand
func NewRandomSource() (RandomSource, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("failed to read random seed: %w", err)
	}

	seed1 := binary.LittleEndian.Uint64(b[:8])
	seed2 := binary.LittleEndian.Uint64(b[8:])
	return rand.New(rand.NewPCG(seed1, seed2)), nil
}

// chance reports a successful Bernoulli trial with probability p
func chance(rng RandomSource, p float64) bool {
	return rng.Float64() < p
}

// rare succeeds when the draw lands in the top p of the range
func rare(rng RandomSource, p float64) bool {
	return rng.Float64() > 1-p
}

// pick returns a uniformly chosen element. A source that returns 1.0 maps to the last element.
func pick(rng RandomSource, values []string) string {
	return values[index(rng, len(values))]
}

func index(rng RandomSource, n int) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// between returns a float in [lo, hi)
func between(rng RandomSource, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
