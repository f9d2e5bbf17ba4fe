package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type ItemKind string

const (
	ItemKindConcrete    ItemKind = "concrete"
	ItemKindPlaceholder ItemKind = "placeholder"
)

// Item is either a concrete entry carrying a payload or a placeholder drop zone.
// The zero value is not a valid item; use Concrete or Placeholder.
type Item struct {
	kind    ItemKind
	payload string
}

func Concrete(payload string) Item {
	return Item{kind: ItemKindConcrete, payload: payload}
}

// Placeholder returns the sentinel marking the end-of-section drop zone of an active drag.
func Placeholder() Item {
	return Item{kind: ItemKindPlaceholder}
}

func (it Item) Kind() ItemKind { return it.kind }

func (it Item) IsPlaceholder() bool { return it.kind == ItemKindPlaceholder }

// Payload returns the content of a concrete item and "" for a placeholder.
func (it Item) Payload() string {
	if it.kind != ItemKindConcrete {
		return ""
	}
	return it.payload
}

func (it Item) String() string {
	if it.IsPlaceholder() {
		return "<placeholder>"
	}
	return it.payload
}

type itemJSON struct {
	Kind    ItemKind `json:"kind"`
	Payload string   `json:"payload,omitempty"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemJSON{Kind: it.kind, Payload: it.Payload()})
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var raw itemJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case ItemKindConcrete:
		*it = Concrete(raw.Payload)
	case ItemKindPlaceholder:
		*it = Placeholder()
	default:
		return fmt.Errorf("unknown item kind: %q", raw.Kind)
	}
	return nil
}

// Coordinate addresses a position inside a sectioned board.
type Coordinate struct {
	Section int `json:"section" yaml:"section"`
	Item    int `json:"item" yaml:"item"`
}

func At(section, item int) Coordinate {
	return Coordinate{Section: section, Item: item}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%d,%d", c.Section, c.Item)
}

// ParseCoordinate parses the "S,I" form used by the CLI (whitespace tolerant).
func ParseCoordinate(s string) (Coordinate, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q (expected SECTION,ITEM)", s)
	}
	sec, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: bad section: %w", s, err)
	}
	it, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: bad item: %w", s, err)
	}
	if sec < 0 || it < 0 {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: negative index", s)
	}
	return Coordinate{Section: sec, Item: it}, nil
}

type DiffKind string

const (
	DiffInsert DiffKind = "insert"
	DiffRemove DiffKind = "remove"
)

// Diff is a single structural change a presentation surface must apply, in order.
type Diff struct {
	Kind DiffKind   `json:"kind" yaml:"kind"`
	At   Coordinate `json:"at" yaml:"at"`
}

func Insert(c Coordinate) Diff { return Diff{Kind: DiffInsert, At: c} }

func Remove(c Coordinate) Diff { return Diff{Kind: DiffRemove, At: c} }

func (d Diff) String() string {
	return fmt.Sprintf("%s@%s", d.Kind, d.At)
}

// Board is a serializable snapshot of a store's sections.
type Board struct {
	Sections [][]Cell `json:"sections" yaml:"sections"`
	Dragging bool     `json:"dragging" yaml:"dragging"`
}

type Cell struct {
	Payload     string `json:"payload,omitempty" yaml:"payload,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

func NewBoard(sections [][]Item, dragging bool) Board {
	out := Board{Sections: make([][]Cell, 0, len(sections)), Dragging: dragging}
	for _, sec := range sections {
		cells := make([]Cell, 0, len(sec))
		for _, it := range sec {
			cells = append(cells, Cell{Payload: it.Payload(), Placeholder: it.IsPlaceholder()})
		}
		out.Sections = append(out.Sections, cells)
	}
	return out
}

// Payloads returns the concrete payloads per section, skipping placeholders.
func (b Board) Payloads() [][]string {
	out := make([][]string, 0, len(b.Sections))
	for _, sec := range b.Sections {
		ps := make([]string, 0, len(sec))
		for _, c := range sec {
			if c.Placeholder {
				continue
			}
			ps = append(ps, c.Payload)
		}
		out = append(out, ps)
	}
	return out
}
