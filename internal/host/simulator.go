package host

import (
	"math/rand/v2"
	"sync"
)

const (
	simMinTabs   = 5
	simTabSpan   = 15
	simMinEmails = 10
	simEmailSpan = 100
)

// Simulator stands in for host APIs that are missing. The same seed always
// yields the same sequence.
type Simulator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulator(seed uint64) *Simulator {
	return &Simulator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Simulator) OpenTabs() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return simMinTabs + s.rnd.IntN(simTabSpan), true
}

func (s *Simulator) EmailsInInbox() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return simMinEmails + s.rnd.IntN(simEmailSpan)
}
