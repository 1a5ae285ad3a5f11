package algo

import (
	"fmt"

	"github.com/elektrokombinacija/parkroute/internal/core"
)

// Neighbors returns the legal successors of p for agent heading to goal.
// Emission order is North, South, West, East, then the vertical move.
func Neighbors(g *core.FloorGrid, p core.Pos, goal core.Goal, agent core.AgentClass) []core.Pos {
	src, err := g.CellAt(p)
	if err != nil {
		return nil
	}

	neighbors := make([]core.Pos, 0, 5)
	for _, dir := range core.Directions {
		next := p.Step(dir)
		dest, err := g.CellAt(next)
		if err != nil || dest.IsWall() {
			continue
		}
		isGoal := goal.Matches(next, dest)
		if !HorizontalDestinationAllowed(dest, isGoal) {
			continue
		}
		if !CanExit(src, dir, agent, isGoal) {
			continue
		}
		neighbors = append(neighbors, next)
	}

	if up, ok := VerticalTransition(g, p); ok {
		neighbors = append(neighbors, up)
	}
	return neighbors
}

// ValidatePath checks that path starts at start, every step is a legal
// neighbor move for agent, and the last position satisfies goal.
func ValidatePath(g *core.FloorGrid, path core.Path, start core.Pos, goal core.Goal, agent core.AgentClass) error {
	if len(path) == 0 {
		return fmt.Errorf("empty path")
	}
	if path[0] != start {
		return fmt.Errorf("path starts at %v, want %v", path[0], start)
	}
	for i := 1; i < len(path); i++ {
		legal := false
		for _, n := range Neighbors(g, path[i-1], goal, agent) {
			if n == path[i] {
				legal = true
				break
			}
		}
		if !legal {
			return fmt.Errorf("step %d: %v -> %v is not a legal %v move", i, path[i-1], path[i], agent)
		}
	}
	last := path[len(path)-1]
	c, err := g.CellAt(last)
	if err != nil {
		return err
	}
	if !goal.Matches(last, c) {
		return fmt.Errorf("path ends at %v which does not satisfy goal %v", last, goal)
	}
	return nil
}
