// Package outcome supplies the randomness behind every game result.
package outcome

import (
	"math/rand"
	"sync"
	"time"
)

// Source draws random outcomes. Implementations must be safe for concurrent use.
type Source interface {
	// Intn returns a value in [0, n)
	Intn(n int) int
	// Shuffle permutes n elements using swap
	Shuffle(n int, swap func(i, j int))
}

// lockedSource guards a *rand.Rand, which is not safe for concurrent use on its own
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a Source seeded with seed
func NewSource(seed int64) Source {
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

// Default is a process-wide source seeded from the clock
var Default = NewSource(time.Now().UnixNano())

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *lockedSource) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(n, swap)
}

// Between returns a uniform value in [lo, hi]
func Between(src Source, lo, hi int) int {
	return lo + src.Intn(hi-lo+1)
}
