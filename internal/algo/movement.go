package algo

import "github.com/elektrokombinacija/parkroute/internal/core"

// CanExit decides whether an agent may leave cell c laterally in direction dir.
// destIsGoal relaxes one-way tiles: a vehicle may turn into the goal from
// any side except straight against the arrow.
func CanExit(c core.Cell, dir core.Direction, agent core.AgentClass, destIsGoal bool) bool {
	if c.IsWall() {
		return false
	}
	if agent == core.Pedestrian {
		return true
	}

	switch c.Kind() {
	case core.KindOneWay:
		allowed, _ := c.OneWay()
		if dir == allowed {
			return true
		}
		return destIsGoal && dir != allowed.Reverse()
	case core.KindRoad, core.KindCarStart, core.KindLobby,
		core.KindVerticalUp, core.KindVerticalDown,
		core.KindEntranceUpper, core.KindEntranceLower:
		return true
	default:
		// Slots can be entered but not left sideways.
		return false
	}
}

// HorizontalDestinationAllowed decides whether c may be the destination of a
// lateral move. Non-road cells are only entered when they are the goal.
func HorizontalDestinationAllowed(c core.Cell, isGoal bool) bool {
	if c.IsWall() {
		return false
	}
	return isGoal || c.IsTraversable()
}

// VerticalTransition returns the floor-to-floor move available from p, if any.
// Only connector cells initiate a vertical move, and only onto the matching
// landing directly above or below.
func VerticalTransition(g *core.FloorGrid, p core.Pos) (core.Pos, bool) {
	c, err := g.CellAt(p)
	if err != nil {
		return core.Pos{}, false
	}

	var to core.Pos
	var landing core.Cell
	switch c {
	case core.SymVerticalUp:
		to, landing = core.Pos{Floor: p.Floor + 1, Row: p.Row, Col: p.Col}, core.SymEntranceUpper
	case core.SymVerticalDown:
		to, landing = core.Pos{Floor: p.Floor - 1, Row: p.Row, Col: p.Col}, core.SymEntranceLower
	default:
		return core.Pos{}, false
	}

	dest, err := g.CellAt(to)
	if err != nil || dest != landing {
		return core.Pos{}, false
	}
	return to, true
}
