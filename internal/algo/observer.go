package algo

import (
	"sync"

	"github.com/elektrokombinacija/parkroute/internal/core"
)

// Observer receives search events as they happen.
type Observer interface {
	// OnExpanded is called when a node is popped and closed.
	OnExpanded(p core.Pos, g float64)

	// OnPathFound is called once when the goal is popped.
	OnPathFound(path core.Path)
}

// Trace is an Observer that records expansions per floor.
// It is safe to share between concurrent searches.
type Trace struct {
	mu       sync.Mutex
	expanded map[int]int
	found    int
	maxG     float64
}

// NewTrace creates an empty trace.
func NewTrace() *Trace {
	return &Trace{expanded: make(map[int]int)}
}

// OnExpanded counts one expansion on p's floor.
func (t *Trace) OnExpanded(p core.Pos, g float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expanded[p.Floor]++
	if g > t.maxG {
		t.maxG = g
	}
}

// OnPathFound counts a successful search.
func (t *Trace) OnPathFound(core.Path) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.found++
}

// ExpandedOn returns the number of expansions recorded on floor.
func (t *Trace) ExpandedOn(floor int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expanded[floor]
}

// Total returns the expansion count over all floors.
func (t *Trace) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.expanded {
		n += c
	}
	return n
}

// PathsFound returns how many searches reached their goal.
func (t *Trace) PathsFound() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.found
}

// MaxCost returns the largest cost-so-far seen on an expanded node.
func (t *Trace) MaxCost() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.maxG
}
