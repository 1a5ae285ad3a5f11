package algo

import (
	"context"
	"fmt"

	"github.com/elektrokombinacija/parkroute/internal/core"
)

// Comparison pairs a strategy with its selection.
type Comparison struct {
	Strategy  Strategy
	Selection *Selection
}

// CompareStrategies runs FindBestSlot once per strategy on the same request.
func (s *Selector) CompareStrategies(ctx context.Context, g *core.FloorGrid, req Request) ([]Comparison, error) {
	var results []Comparison
	for _, strategy := range Strategies() {
		r := req
		r.Strategy = strategy
		sel, err := s.FindBestSlot(ctx, g, r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strategy.Label(), err)
		}
		results = append(results, Comparison{Strategy: strategy, Selection: sel})
	}
	return results, nil
}

// NearestSlot runs one blind search from the car start for the first slot of
// the requested category, restricted to the desired floor when one is set.
// If the desired floor holds no such slot the restriction is dropped and
// ErrDesiredFloorEmpty is returned as a warning alongside the result.
func (s *Selector) NearestSlot(g *core.FloorGrid, req Request) (core.SearchResult, []error, error) {
	var warnings []error

	cars := g.PositionsOfKind(core.KindCarStart)
	if len(cars) == 0 {
		return core.SearchResult{}, nil, fmt.Errorf("no car start: %w", core.ErrMissingSymbol)
	}
	slots := g.PositionsOfSlot(req.Category)
	if len(slots) == 0 {
		return core.SearchResult{}, nil, fmt.Errorf("no %v slot: %w", req.Category, core.ErrMissingSymbol)
	}

	goal := core.AnySymbol(core.SlotCell(req.Category))
	if req.DesiredFloor != nil {
		if hasSlotOnFloor(slots, *req.DesiredFloor) {
			goal = core.AnySymbolOnFloor(core.SlotCell(req.Category), *req.DesiredFloor)
		} else {
			warnings = append(warnings, fmt.Errorf("floor %d: %w", *req.DesiredFloor, core.ErrDesiredFloorEmpty))
			s.logger().Warn().Int("desired_floor", *req.DesiredFloor).
				Msg("desired floor has no matching slot, searching all floors")
		}
	}

	strategy := req.Strategy
	if strategy.priority == nil {
		strategy = AStar
	}
	searcher := Searcher{Strategy: strategy, MaxExpansions: s.MaxExpansions, Observer: s.Observer}
	res, err := searcher.Search(g, cars[0], goal, core.Vehicle)
	return res, warnings, err
}
