// Package core defines domain models for multi-floor parking search.
package core

import "strings"

// AgentClass classifies movement obligations.
type AgentClass int

const (
	Vehicle    AgentClass = iota // Must obey one-way arrows
	Pedestrian                   // Ignores one-way arrows
)

func (a AgentClass) String() string {
	return [...]string{"Vehicle", "Pedestrian"}[a]
}

// SlotCategory classifies parking slots.
type SlotCategory int

const (
	Normal     SlotCategory = iota // p
	Ladies                         // l
	Disability                     // d
)

func (c SlotCategory) String() string {
	return [...]string{"Normal", "Ladies", "Disability"}[c]
}

// Symbol returns the grid symbol for slots of this category.
func (c SlotCategory) Symbol() byte {
	return [...]byte{'p', 'l', 'd'}[c]
}

// ParseCategory resolves a request symbol or name, case-insensitively.
func ParseCategory(s string) (SlotCategory, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "normal":
		return Normal, true
	case "l", "ladies":
		return Ladies, true
	case "d", "disability":
		return Disability, true
	default:
		return Normal, false
	}
}

// Direction is a lateral compass direction.
type Direction int

const (
	North Direction = iota // row - 1
	South                  // row + 1
	West                   // col - 1
	East                   // col + 1
)

// Directions lists lateral directions in neighbor emission order.
var Directions = [...]Direction{North, South, West, East}

func (d Direction) String() string {
	return [...]string{"North", "South", "West", "East"}[d]
}

// Delta returns the (row, col) offset of one step.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case West:
		return 0, -1
	default:
		return 0, 1
	}
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	return [...]Direction{South, North, East, West}[d]
}
