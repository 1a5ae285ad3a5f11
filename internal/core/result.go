package core

// Path is an ordered sequence of positions; Path[0] is the start.
type Path []Pos

// Steps returns the number of moves along the path (len-1), or 0 for an empty path.
func (p Path) Steps() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// VerticalSteps counts floor changes along the path.
func (p Path) VerticalSteps() int {
	n := 0
	for i := 1; i < len(p); i++ {
		if p[i].Floor != p[i-1].Floor {
			n++
		}
	}
	return n
}

// Last returns the final position of a non-empty path.
func (p Path) Last() (Pos, bool) {
	if len(p) == 0 {
		return Pos{}, false
	}
	return p[len(p)-1], true
}

// SearchResult is the outcome of one search.
// Path is nil when the open set emptied without reaching the goal.
type SearchResult struct {
	Path         Path
	VisitedOrder []Pos // Nodes in expansion order (diagnostic only)
}

// Found reports whether a path was found.
func (r SearchResult) Found() bool {
	return r.Path != nil
}

// SlotCandidateScore is one scored candidate slot.
type SlotCandidateScore struct {
	Slot           Pos
	CarPath        Path
	LobbyPath      Path // nil if no lobby on the slot's floor reached it
	LobbyReachable bool
	CarDistance    int
	LobbyDistance  float64 // Steps, or the unreachable-lobby penalty
	FloorPenalty   float64
	Score          float64
}
