// Package algo implements grid search strategies and parking slot selection.
package algo

import (
	"fmt"

	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"

	"github.com/elektrokombinacija/parkroute/internal/core"
)

// VerticalBiasWeight scales the floor distance for blind goals.
// It can overestimate, so A* is not guaranteed optimal for blind goals.
const VerticalBiasWeight = 10

// Heuristic estimates the remaining cost from p to goal.
// Coordinate goals use 3D Manhattan distance; blind goals only bias
// toward the desired floor, since the target cell is unknown.
func Heuristic(p core.Pos, goal core.Goal) float64 {
	switch goal.Kind {
	case core.GoalAtPosition:
		return float64(core.Manhattan(p, goal.Pos))
	case core.GoalAnySymbol:
		if !goal.HasFloor {
			return 0
		}
		dz := p.Floor - goal.DesiredFloor
		if dz < 0 {
			dz = -dz
		}
		return float64(dz * VerticalBiasWeight)
	default:
		return 0
	}
}

// GoalReached reports whether p satisfies goal on grid g.
func GoalReached(g *core.FloorGrid, p core.Pos, goal core.Goal) bool {
	c, err := g.CellAt(p)
	if err != nil {
		return false
	}
	return goal.Matches(p, c)
}

// searchNode is one open-set entry. seq breaks priority ties in FIFO order.
type searchNode struct {
	pos       core.Pos
	parent    core.Pos
	hasParent bool
	g         float64
	priority  float64
	seq       uint64
}

func lessNode(a, b *searchNode) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

// Searcher runs one strategy, optionally bounded by an expansion budget.
type Searcher struct {
	Strategy      Strategy
	MaxExpansions int      // 0 = unbounded
	Observer      Observer // Optional
}

// Search finds a path from start to goal for agent.
// A nil Path with a nil error means the goal is unreachable;
// ErrSearchExhausted means the budget ran out first.
func (s Searcher) Search(g *core.FloorGrid, start core.Pos, goal core.Goal, agent core.AgentClass) (core.SearchResult, error) {
	var result core.SearchResult
	if !g.InBounds(start) {
		return result, fmt.Errorf("search start %v: %w", start, core.ErrOutOfBounds)
	}

	strategy := s.Strategy
	if strategy.priority == nil {
		strategy = AStar
	}

	open := heap.New[*searchNode](lessNode)
	closed := mapset.New[core.Pos]()
	cameFrom := make(map[core.Pos]core.Pos)
	gScore := map[core.Pos]float64{start: 0}
	var seq uint64

	open.Push(&searchNode{
		pos:      start,
		priority: strategy.priority(0, Heuristic(start, goal)),
		seq:      seq,
	})

	for open.Size() > 0 {
		current, _ := open.Pop()
		if closed.Has(current.pos) {
			continue
		}
		closed.Put(current.pos)
		if current.hasParent {
			cameFrom[current.pos] = current.parent
		}
		result.VisitedOrder = append(result.VisitedOrder, current.pos)
		if s.Observer != nil {
			s.Observer.OnExpanded(current.pos, current.g)
		}

		if GoalReached(g, current.pos, goal) {
			result.Path = reconstructPath(cameFrom, start, current.pos)
			if s.Observer != nil {
				s.Observer.OnPathFound(result.Path)
			}
			return result, nil
		}

		if s.MaxExpansions > 0 && len(result.VisitedOrder) >= s.MaxExpansions {
			return result, fmt.Errorf("%s after %d expansions toward %v: %w",
				strategy.name, len(result.VisitedOrder), goal, core.ErrSearchExhausted)
		}

		for _, next := range Neighbors(g, current.pos, goal, agent) {
			if closed.Has(next) {
				continue
			}
			tentative := current.g + strategy.cost(current.pos, next)
			if best, seen := gScore[next]; seen && tentative >= best {
				continue
			}
			gScore[next] = tentative
			seq++
			open.Push(&searchNode{
				pos:       next,
				parent:    current.pos,
				hasParent: true,
				g:         tentative,
				priority:  strategy.priority(tentative, Heuristic(next, goal)),
				seq:       seq,
			})
		}
	}

	return result, nil
}

// reconstructPath walks back-pointers from end to start and reverses.
func reconstructPath(cameFrom map[core.Pos]core.Pos, start, end core.Pos) core.Path {
	path := core.Path{end}
	for p := end; p != start; {
		p = cameFrom[p]
		path = append(path, p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
