package core

import "fmt"

// GoalKind tags the Goal variant.
type GoalKind int

const (
	GoalAtPosition GoalKind = iota // Exact coordinate
	GoalAnySymbol                  // First cell bearing a symbol ("blind" goal)
)

// Goal is either an exact position or "any cell of this symbol",
// optionally restricted to one floor.
type Goal struct {
	Kind         GoalKind
	Pos          Pos  // GoalAtPosition only
	Symbol       Cell // GoalAnySymbol only
	DesiredFloor int  // GoalAnySymbol only, valid when HasFloor
	HasFloor     bool
}

// AtPosition returns a coordinate goal.
func AtPosition(p Pos) Goal {
	return Goal{Kind: GoalAtPosition, Pos: p}
}

// AnySymbol returns a blind goal accepting any cell bearing sym on any floor.
func AnySymbol(sym Cell) Goal {
	return Goal{Kind: GoalAnySymbol, Symbol: sym}
}

// AnySymbolOnFloor returns a blind goal accepting only cells on floor.
func AnySymbolOnFloor(sym Cell, floor int) Goal {
	return Goal{Kind: GoalAnySymbol, Symbol: sym, DesiredFloor: floor, HasFloor: true}
}

// Matches reports whether position p holding cell c satisfies the goal.
// A blind goal never accepts a cell on the wrong floor.
func (g Goal) Matches(p Pos, c Cell) bool {
	switch g.Kind {
	case GoalAtPosition:
		return p == g.Pos
	case GoalAnySymbol:
		if c != g.Symbol {
			return false
		}
		return !g.HasFloor || p.Floor == g.DesiredFloor
	default:
		return false
	}
}

func (g Goal) String() string {
	switch g.Kind {
	case GoalAtPosition:
		return fmt.Sprintf("at %v", g.Pos)
	case GoalAnySymbol:
		if g.HasFloor {
			return fmt.Sprintf("any %q on floor %d", rune(g.Symbol), g.DesiredFloor)
		}
		return fmt.Sprintf("any %q", rune(g.Symbol))
	default:
		return "invalid goal"
	}
}
