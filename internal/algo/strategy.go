package algo

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/parkroute/internal/core"
)

// Strategy configures the shared best-first search: how open-set entries are
// prioritized and what each edge costs.
type Strategy struct {
	name     string
	label    string
	priority func(g, h float64) float64
	cost     func(from, to core.Pos) float64
}

// Name returns the strategy identifier used in requests.
func (s Strategy) Name() string { return s.name }

// Label returns a human-readable strategy name.
func (s Strategy) Label() string { return s.label }

func (s Strategy) String() string { return s.label }

func unitCost(_, _ core.Pos) float64 { return 1 }

var (
	// AStar orders by g + h. Optimal for coordinate goals.
	AStar = Strategy{
		name:     "a_star",
		label:    "A*",
		priority: func(g, h float64) float64 { return g + h },
		cost:     unitCost,
	}
	// Dijkstra orders by cumulative cost.
	Dijkstra = Strategy{
		name:     "dijkstra",
		label:    "Dijkstra",
		priority: func(g, _ float64) float64 { return g },
		cost:     unitCost,
	}
	// BFS expands in insertion order; optimal on unit-cost grids.
	BFS = Strategy{
		name:     "bfs",
		label:    "BFS",
		priority: func(_, _ float64) float64 { return 0 },
		cost:     unitCost,
	}
	// GreedyBestFirst orders by heuristic only and may return longer paths.
	GreedyBestFirst = Strategy{
		name:     "greedy_bfs",
		label:    "Greedy BFS",
		priority: func(_, h float64) float64 { return h },
		cost:     unitCost,
	}
)

// Strategies lists all strategies in comparison order.
func Strategies() []Strategy {
	return []Strategy{AStar, Dijkstra, BFS, GreedyBestFirst}
}

// StrategyByName resolves a strategy name case-insensitively.
func StrategyByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a_star", "astar", "a*":
		return AStar, nil
	case "dijkstra":
		return Dijkstra, nil
	case "bfs", "breadth_first":
		return BFS, nil
	case "greedy_bfs", "greedy", "greedy_best_first":
		return GreedyBestFirst, nil
	default:
		return Strategy{}, fmt.Errorf("%q: %w", name, core.ErrUnknownStrategy)
	}
}

// ResolveStrategy resolves name; empty means A*. Unless strict, an unknown name falls back
// to A* with a warning.
func ResolveStrategy(name string, strict bool, log *zerolog.Logger) (Strategy, error) {
	if strings.TrimSpace(name) == "" {
		return AStar, nil
	}
	s, err := StrategyByName(name)
	if err == nil {
		return s, nil
	}
	if strict {
		return Strategy{}, err
	}
	if log != nil {
		log.Warn().Str("strategy", name).Msg("unknown strategy, falling back to A*")
	}
	return AStar, nil
}
