package core

import "fmt"

// Pos is a grid coordinate: floor (z-index), row, column.
type Pos struct {
	Floor, Row, Col int
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.Floor, p.Row, p.Col)
}

// Step returns the lateral neighbor of p in direction d.
func (p Pos) Step(d Direction) Pos {
	dr, dc := d.Delta()
	return Pos{Floor: p.Floor, Row: p.Row + dr, Col: p.Col + dc}
}

// Manhattan returns the 3D Manhattan distance between two positions.
func Manhattan(a, b Pos) int {
	return abs(a.Floor-b.Floor) + abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
