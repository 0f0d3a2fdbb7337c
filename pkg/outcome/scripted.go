package outcome

import "sync"

// Scripted replays fixed values, for tests. Each Intn call returns the next
// value modulo n; when the script runs out it starts over. Shuffle leaves the
// order untouched so callers control dealing order directly.
type Scripted struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewScripted returns a source that yields values in order
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

func (s *Scripted) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return ((v % n) + n) % n
}

func (s *Scripted) Shuffle(int, func(i, j int)) {}

// Calls returns how many values have been drawn
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
