package core

import "errors"

var (
	// ErrOutOfBounds marks an index past a floor's extent.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrMalformedGrid marks bad input data: empty floor set, ragged rows or unknown symbols.
	ErrMalformedGrid = errors.New("malformed grid")
	// ErrMissingSymbol means no car start or no slot of the requested category exists.
	ErrMissingSymbol = errors.New("missing required symbol")
	// ErrNoReachableSlot means every candidate slot failed the vehicle search.
	ErrNoReachableSlot = errors.New("no reachable slot")
	// ErrDesiredFloorEmpty means the desired floor holds no slot of the requested category.
	ErrDesiredFloorEmpty = errors.New("desired floor has no matching slot")
	// ErrSearchExhausted means a search gave up at its expansion budget.
	// It is not proof that the goal is unreachable.
	ErrSearchExhausted = errors.New("search expansion budget exhausted")
	// ErrUnknownStrategy marks an unrecognized search strategy name.
	ErrUnknownStrategy = errors.New("unknown search strategy")
)
