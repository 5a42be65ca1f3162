package rng

import rand "math/rand/v2"

// Generator provides uniform random integers for shuffling.
type Generator interface {
	// Intn returns a random number in [0, n). n must be > 0.
	Intn(n int) int
}

const goldenRatio64 = 0x9e3779b97f4a7c15

// Seeded returns a deterministic Generator derived from the provided seed.
// It centralises how the two 64-bit PCG seeds are derived so that all call
// sites get reproducible sequences. For real play use Crypto instead.
func Seeded(seed int64) Generator {
	u := uint64(seed)
	return &seeded{rng: rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))}
}

type seeded struct {
	rng *rand.Rand
}

func (s *seeded) Intn(n int) int {
	return s.rng.IntN(n)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
