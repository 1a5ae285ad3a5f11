package core

import (
	"fmt"
	"strings"

	"github.com/tiendc/go-deepcopy"
)

// FloorGrid is the immutable set of floors of one structure.
// Rows within a floor are equal length; floors may differ in size.
type FloorGrid struct {
	cells [][][]Cell // [floor][row][col]
}

// NewFloorGrid parses one symbol matrix per floor, in ascending floor order.
func NewFloorGrid(floors [][]string) (*FloorGrid, error) {
	if len(floors) == 0 {
		return nil, fmt.Errorf("no floors: %w", ErrMalformedGrid)
	}

	g := &FloorGrid{cells: make([][][]Cell, len(floors))}
	for z, rows := range floors {
		if len(rows) == 0 {
			return nil, fmt.Errorf("floor %d is empty: %w", z, ErrMalformedGrid)
		}
		width := len(rows[0])
		if width == 0 {
			return nil, fmt.Errorf("floor %d row 0 is empty: %w", z, ErrMalformedGrid)
		}
		g.cells[z] = make([][]Cell, len(rows))
		for y, row := range rows {
			if len(row) != width {
				return nil, fmt.Errorf("floor %d row %d has %d columns, want %d: %w",
					z, y, len(row), width, ErrMalformedGrid)
			}
			line := make([]Cell, width)
			for x := 0; x < width; x++ {
				c := Cell(row[x])
				if c.Kind() == KindUnknown {
					return nil, fmt.Errorf("floor %d row %d col %d: unknown symbol %q: %w",
						z, y, x, row[x], ErrMalformedGrid)
				}
				line[x] = c
			}
			g.cells[z][y] = line
		}
	}
	return g, nil
}

// NumFloors returns the number of floors.
func (g *FloorGrid) NumFloors() int {
	return len(g.cells)
}

// Dims returns the row and column count of a floor.
func (g *FloorGrid) Dims(floor int) (rows, cols int) {
	if floor < 0 || floor >= len(g.cells) {
		return 0, 0
	}
	return len(g.cells[floor]), len(g.cells[floor][0])
}

// InBounds reports whether p addresses an existing cell.
func (g *FloorGrid) InBounds(p Pos) bool {
	if p.Floor < 0 || p.Floor >= len(g.cells) {
		return false
	}
	floor := g.cells[p.Floor]
	return p.Row >= 0 && p.Row < len(floor) && p.Col >= 0 && p.Col < len(floor[p.Row])
}

// CellAt returns the cell at p.
func (g *FloorGrid) CellAt(p Pos) (Cell, error) {
	if !g.InBounds(p) {
		return SymWall, fmt.Errorf("cell %v: %w", p, ErrOutOfBounds)
	}
	return g.cells[p.Floor][p.Row][p.Col], nil
}

// PositionsOf returns every position whose cell satisfies match,
// in ascending floor order, then row-major within a floor.
func (g *FloorGrid) PositionsOf(match func(Cell) bool) []Pos {
	var positions []Pos
	for z, floor := range g.cells {
		for y, row := range floor {
			for x, c := range row {
				if match(c) {
					positions = append(positions, Pos{Floor: z, Row: y, Col: x})
				}
			}
		}
	}
	return positions
}

// PositionsOfKind returns all positions of a cell kind in scan order.
func (g *FloorGrid) PositionsOfKind(kind CellKind) []Pos {
	return g.PositionsOf(func(c Cell) bool { return c.Kind() == kind })
}

// PositionsOfSlot returns all slots of a category in scan order.
func (g *FloorGrid) PositionsOfSlot(category SlotCategory) []Pos {
	sym := SlotCell(category)
	return g.PositionsOf(func(c Cell) bool { return c == sym })
}

// Floors returns a deep copy of the cell matrix for renderers.
func (g *FloorGrid) Floors() ([][][]Cell, error) {
	var out [][][]Cell
	if err := deepcopy.Copy(&out, &g.cells); err != nil {
		return nil, fmt.Errorf("copy floors: %w", err)
	}
	return out, nil
}

// String renders all floors as symbol text, floors separated by a blank line.
func (g *FloorGrid) String() string {
	var sb strings.Builder
	for z, floor := range g.cells {
		if z > 0 {
			sb.WriteByte('\n')
		}
		for _, row := range floor {
			for _, c := range row {
				sb.WriteByte(byte(c))
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
