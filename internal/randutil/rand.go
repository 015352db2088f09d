// Package randutil builds the random sources used for shuffling and drawing.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The two 64-bit PCG seeds are derived from the one value so every call site
// gets the same reproducible sequence for a given seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewSeeded returns New(seed), or a time-seeded generator when seed is zero.
func NewSeeded(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return New(seed)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Scripted is a source that replays a fixed list of values, cycling when it
// runs out. Each value is reduced modulo n, so 0 always picks the first
// candidate. Meant for tests that need an exact deal.
type Scripted struct {
	values []int
	next   int
}

// NewScripted creates a scripted source. With no values it always yields 0.
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

// IntN returns the next scripted value in [0, n)
func (s *Scripted) IntN(n int) int {
	if n <= 0 {
		panic("randutil: invalid argument to IntN")
	}
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	if v < 0 {
		v = -v
	}
	return v % n
}
