package responder

import (
	"math/rand/v2"
	"sync"
)

// Picker draws one reply uniformly at random from a rule.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker returns a picker using the global goroutine-safe source.
func NewPicker() *Picker {
	return &Picker{}
}

// NewSeededPicker returns a picker with a deterministic source.
func NewSeededPicker(seed uint64) *Picker {
	return &Picker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Pick returns one of rule.Replies. It returns "" only for a rule with no
// replies, which a compiled Table never contains.
func (p *Picker) Pick(rule *Rule) string {
	n := len(rule.Replies)
	if n == 0 {
		return ""
	}
	return rule.Replies[p.intN(n)]
}

func (p *Picker) intN(n int) int {
	if p.rng == nil {
		return rand.IntN(n)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}
