package feasibility

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource draws the feasibility perturbation.
type RandomSource interface {
	// Uniform returns a value in [lo, hi].
	Uniform(lo, hi float64) float64
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomSource returns a concurrency-safe source seeded with seed. A zero
// seed uses the current time.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Uniform(lo, hi float64) float64 {
	s.mu.Lock()
	f := s.r.Float64()
	s.mu.Unlock()
	return lo + (hi-lo)*f
}

// FixedSource always returns the same offset, clamped into [lo, hi].
// FixedSource(0) disables the perturbation.
type FixedSource float64

func (f FixedSource) Uniform(lo, hi float64) float64 {
	v := float64(f)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

//Personal.AI order the ending
