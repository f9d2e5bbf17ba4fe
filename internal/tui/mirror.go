package tui

import (
	"fmt"

	"sectiongrid/internal/model"
)

// mirror is the surface's own copy of the board. It only changes by applying diffs,
// which is how the view stays consistent without reading the store's slices directly.
type mirror struct {
	sections [][]model.Item
}

func newMirror(sections [][]model.Item) mirror {
	m := mirror{sections: make([][]model.Item, len(sections))}
	for i, sec := range sections {
		m.sections[i] = append([]model.Item(nil), sec...)
	}
	return m
}

// apply applies diffs in order. Inserted items are read back through lookup, so it must
// reflect the state after the whole batch (i.e. the store right after the call that
// produced diffs).
func (m *mirror) apply(diffs []model.Diff, lookup func(model.Coordinate) (model.Item, error)) error {
	pending := make([]model.Diff, 0, len(diffs))
	for _, d := range diffs {
		if d.At.Section < 0 || d.At.Section >= len(m.sections) {
			return fmt.Errorf("apply %s: no such section", d)
		}
		sec := m.sections[d.At.Section]
		switch d.Kind {
		case model.DiffRemove:
			if d.At.Item < 0 || d.At.Item >= len(sec) {
				return fmt.Errorf("apply %s: no such item", d)
			}
			m.sections[d.At.Section] = append(sec[:d.At.Item], sec[d.At.Item+1:]...)
		case model.DiffInsert:
			if d.At.Item < 0 || d.At.Item > len(sec) {
				return fmt.Errorf("apply %s: no such slot", d)
			}
			sec = append(sec, model.Item{})
			copy(sec[d.At.Item+1:], sec[d.At.Item:])
			m.sections[d.At.Section] = sec
			pending = append(pending, d)
		default:
			return fmt.Errorf("apply %s: unknown diff kind", d)
		}
	}
	// Fill inserted slots once the structure matches the store.
	for _, d := range pending {
		it, err := lookup(d.At)
		if err != nil {
			return fmt.Errorf("apply %s: %w", d, err)
		}
		m.sections[d.At.Section][d.At.Item] = it
	}
	return nil
}

func (m mirror) equal(sections [][]model.Item) bool {
	if len(m.sections) != len(sections) {
		return false
	}
	for i := range sections {
		if len(m.sections[i]) != len(sections[i]) {
			return false
		}
		for j := range sections[i] {
			if m.sections[i][j] != sections[i][j] {
				return false
			}
		}
	}
	return true
}
