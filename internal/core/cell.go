package core

// CellKind is the logical category of a grid symbol.
type CellKind int

const (
	KindWall CellKind = iota
	KindRoad
	KindOneWay
	KindCarStart
	KindLobby
	KindSlot
	KindVerticalUp
	KindVerticalDown
	KindEntranceUpper
	KindEntranceLower
	KindUnknown
)

func (k CellKind) String() string {
	return [...]string{
		"Wall", "Road", "OneWay", "CarStart", "Lobby", "Slot",
		"VerticalUp", "VerticalDown", "EntranceUpper", "EntranceLower", "Unknown",
	}[k]
}

// Grid symbols.
const (
	SymWall          Cell = '#'
	SymRoad          Cell = '.'
	SymNorth         Cell = '^'
	SymSouth         Cell = 'v'
	SymEast          Cell = '>'
	SymWest          Cell = '<'
	SymCarStart      Cell = 'C'
	SymLobby         Cell = 'O'
	SymNormal        Cell = 'p'
	SymLadies        Cell = 'l'
	SymDisability    Cell = 'd'
	SymVerticalUp    Cell = 'U'
	SymVerticalDown  Cell = 'D'
	SymEntranceUpper Cell = 'E'
	SymEntranceLower Cell = 'X'
)

// Cell is the symbol occupying one grid position.
type Cell byte

// SlotCell returns the cell symbol for a slot category.
func SlotCell(c SlotCategory) Cell {
	return Cell(c.Symbol())
}

// Kind returns the logical category of the symbol.
func (c Cell) Kind() CellKind {
	switch c {
	case SymWall:
		return KindWall
	case SymRoad:
		return KindRoad
	case SymNorth, SymSouth, SymEast, SymWest:
		return KindOneWay
	case SymCarStart:
		return KindCarStart
	case SymLobby:
		return KindLobby
	case SymNormal, SymLadies, SymDisability:
		return KindSlot
	case SymVerticalUp:
		return KindVerticalUp
	case SymVerticalDown:
		return KindVerticalDown
	case SymEntranceUpper:
		return KindEntranceUpper
	case SymEntranceLower:
		return KindEntranceLower
	default:
		return KindUnknown
	}
}

// Category returns the slot category, if c is a parking slot.
func (c Cell) Category() (SlotCategory, bool) {
	switch c {
	case SymNormal:
		return Normal, true
	case SymLadies:
		return Ladies, true
	case SymDisability:
		return Disability, true
	default:
		return Normal, false
	}
}

// OneWay returns the allowed exit direction of a one-way road tile.
func (c Cell) OneWay() (Direction, bool) {
	switch c {
	case SymNorth:
		return North, true
	case SymSouth:
		return South, true
	case SymEast:
		return East, true
	case SymWest:
		return West, true
	default:
		return North, false
	}
}

// IsWall reports whether c blocks all movement.
func (c Cell) IsWall() bool { return c == SymWall }

// IsTraversable reports whether c may be entered laterally as an
// intermediate step (road network, lobbies, connectors and landings).
func (c Cell) IsTraversable() bool {
	switch c.Kind() {
	case KindRoad, KindOneWay, KindCarStart, KindLobby,
		KindVerticalUp, KindVerticalDown, KindEntranceUpper, KindEntranceLower:
		return true
	default:
		return false
	}
}

func (c Cell) String() string { return string(rune(c)) }
