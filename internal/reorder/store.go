// Package reorder holds the sectioned-list reorder model: ordered sections of items,
// a single in-flight drag with trailing placeholder drop zones, and the insert/remove
// diffs a presentation surface applies to stay in sync.
package reorder

import (
	"io"
	"log/slog"

	"sectiongrid/internal/model"
)

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store owns the authoritative ordering of items across sections.
// It is not safe for concurrent use; one driver owns it at a time.
type Store struct {
	sections [][]model.Item
	dragging bool
	logger   *slog.Logger
}

// New builds a store from seed payloads. The number of sections is fixed from here on.
func New(seed [][]string, opts ...Option) *Store {
	s := &Store{
		sections: make([][]model.Item, len(seed)),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for i, sec := range seed {
		items := make([]model.Item, 0, len(sec)+1)
		for _, p := range sec {
			items = append(items, model.Concrete(p))
		}
		s.sections[i] = items
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) SectionCount() int { return len(s.sections) }

func (s *Store) Dragging() bool { return s.dragging }

func (s *Store) SectionLen(section int) (int, error) {
	if section < 0 || section >= len(s.sections) {
		return 0, &RangeError{Op: "section len", Coord: model.At(section, 0), What: "section", Limit: len(s.sections)}
	}
	return len(s.sections[section]), nil
}

// ItemAt returns the item at c.
func (s *Store) ItemAt(c model.Coordinate) (model.Item, error) {
	if err := s.checkItem("item at", c); err != nil {
		return model.Item{}, err
	}
	return s.sections[c.Section][c.Item], nil
}

// ConcreteCount counts non-placeholder items across all sections.
func (s *Store) ConcreteCount() int {
	n := 0
	for _, sec := range s.sections {
		for _, it := range sec {
			if !it.IsPlaceholder() {
				n++
			}
		}
	}
	return n
}

// Sections returns a copy of the current ordering (placeholders included).
func (s *Store) Sections() [][]model.Item {
	out := make([][]model.Item, len(s.sections))
	for i, sec := range s.sections {
		out[i] = append([]model.Item(nil), sec...)
	}
	return out
}

func (s *Store) Board() model.Board {
	return model.NewBoard(s.sections, s.dragging)
}

// BeginDrag appends a placeholder to every section and returns one insert per section,
// in ascending section order.
func (s *Store) BeginDrag() ([]model.Diff, error) {
	if s.dragging {
		return nil, &StateError{Op: "begin drag", Dragging: true}
	}
	diffs := make([]model.Diff, 0, len(s.sections))
	for i := range s.sections {
		diffs = append(diffs, model.Insert(model.At(i, len(s.sections[i]))))
		s.sections[i] = append(s.sections[i], model.Placeholder())
	}
	s.dragging = true
	s.logger.Debug("drag begin", "sections", len(s.sections), "diffs", len(diffs))
	return diffs, nil
}

// EndDrag removes every placeholder and returns the removals.
//
// Coordinates are taken from a snapshot before any removal and are ordered by section
// ascending, then item index descending, so applying them one at a time in order never
// addresses a shifted slot.
func (s *Store) EndDrag() ([]model.Diff, error) {
	if !s.dragging {
		return nil, &StateError{Op: "end drag", Dragging: false}
	}
	var diffs []model.Diff
	for si, sec := range s.sections {
		for ii := len(sec) - 1; ii >= 0; ii-- {
			if sec[ii].IsPlaceholder() {
				diffs = append(diffs, model.Remove(model.At(si, ii)))
			}
		}
	}
	for _, d := range diffs {
		sec := s.sections[d.At.Section]
		s.sections[d.At.Section] = append(sec[:d.At.Item], sec[d.At.Item+1:]...)
	}
	s.dragging = false
	s.logger.Debug("drag end", "removed", len(diffs))
	return diffs, nil
}

// MoveItem relocates the item at from to to and returns [remove(from), insert(to)].
//
// to is interpreted against the destination section after the removal at from, so
// to.Item may range over 0..len (inclusive) of that post-removal sequence. A same-slot
// move is legal and still emits the pair. Nothing is mutated when validation fails.
func (s *Store) MoveItem(from, to model.Coordinate) ([]model.Diff, error) {
	const op = "move item"
	if !s.dragging {
		return nil, &StateError{Op: op, Dragging: false}
	}
	if err := s.checkItem(op, from); err != nil {
		return nil, err
	}
	if to.Section < 0 || to.Section >= len(s.sections) {
		return nil, &RangeError{Op: op, Coord: to, What: "section", Limit: len(s.sections)}
	}
	destLen := len(s.sections[to.Section])
	if to.Section == from.Section {
		destLen--
	}
	if to.Item < 0 || to.Item > destLen {
		return nil, &RangeError{Op: op, Coord: to, What: "item", Limit: destLen}
	}

	src := s.sections[from.Section]
	moved := src[from.Item]
	s.sections[from.Section] = append(src[:from.Item], src[from.Item+1:]...)

	dst := s.sections[to.Section]
	dst = append(dst, model.Item{})
	copy(dst[to.Item+1:], dst[to.Item:])
	dst[to.Item] = moved
	s.sections[to.Section] = dst

	s.logger.Debug("move item", "from", from.String(), "to", to.String(), "item", moved.String())
	return []model.Diff{model.Remove(from), model.Insert(to)}, nil
}

func (s *Store) checkItem(op string, c model.Coordinate) error {
	if c.Section < 0 || c.Section >= len(s.sections) {
		return &RangeError{Op: op, Coord: c, What: "section", Limit: len(s.sections)}
	}
	if c.Item < 0 || c.Item >= len(s.sections[c.Section]) {
		return &RangeError{Op: op, Coord: c, What: "item", Limit: len(s.sections[c.Section])}
	}
	return nil
}
