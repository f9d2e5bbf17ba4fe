package reorder

import (
	"errors"
	"fmt"

	"sectiongrid/internal/model"
)

var (
	// ErrOutOfRange reports a coordinate that addresses a missing section or item slot.
	ErrOutOfRange = errors.New("out of range")
	// ErrInvalidState reports an operation called in the wrong drag lifecycle phase.
	ErrInvalidState = errors.New("invalid state")
)

type RangeError struct {
	Op    string
	Coord model.Coordinate
	// What names the violated bound ("section" or "item").
	What  string
	Limit int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %s index out of range at %s (limit %d)", e.Op, e.What, e.Coord, e.Limit)
}

func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }

type StateError struct {
	Op       string
	Dragging bool
}

func (e *StateError) Error() string {
	if e.Dragging {
		return fmt.Sprintf("%s: a drag is already active", e.Op)
	}
	return fmt.Sprintf("%s: no active drag", e.Op)
}

func (e *StateError) Is(target error) bool { return target == ErrInvalidState }
