package tui

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"sectiongrid/internal/reorder"
	"sectiongrid/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func keyType(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func keyRune(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func press(t *testing.T, m appModel, msgs ...tea.Msg) appModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		am, ok := next.(appModel)
		if !ok {
			t.Fatalf("expected appModel, got %T", next)
		}
		m = am
	}
	return m
}

func newTestApp(t *testing.T, seed [][]string) (appModel, store.Store) {
	t.Helper()
	ws := store.Store{Dir: t.TempDir()}
	m := newAppModel(reorder.New(seed), Options{Workspace: ws})
	m = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	return m, ws
}

func TestApp_DropOnPlaceholderOfAnotherSection(t *testing.T) {
	m, ws := newTestApp(t, [][]string{{"0A", "0B"}, {"1A"}})

	m = press(t, m, keyType(tea.KeySpace))
	if !m.board.Dragging() || m.drag == nil {
		t.Fatalf("expected active drag after space")
	}
	if !m.mirror.equal(m.board.Sections()) {
		t.Fatalf("mirror out of sync after begin drag")
	}

	// Target section 1's trailing drop slot.
	m = press(t, m, keyType(tea.KeyRight), keyType(tea.KeyDown), keyType(tea.KeyEnter))
	if m.board.Dragging() || m.drag != nil {
		t.Fatalf("expected drag to end after drop")
	}
	want := [][]string{{"0B"}, {"1A", "0A"}}
	if got := m.board.Board().Payloads(); !reflect.DeepEqual(got, want) {
		t.Fatalf("board after drop: got %v, want %v", got, want)
	}
	if !m.mirror.equal(m.board.Sections()) {
		t.Fatalf("mirror out of sync after drop")
	}
	if m.sel != (boardSelection{Col: 1, Item: 1}) {
		t.Fatalf("expected selection to follow the dropped item, got %+v", m.sel)
	}

	saved, ok, err := ws.LoadLayout(context.Background())
	if err != nil || !ok {
		t.Fatalf("load layout: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(saved, want) {
		t.Fatalf("persisted layout: got %v, want %v", saved, want)
	}
	evs, err := ws.ReadEvents()
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	// 2 begin inserts + remove/insert + 2 end removes.
	if len(evs) != 6 {
		t.Fatalf("expected 6 logged diffs, got %d", len(evs))
	}
}

func TestApp_MoveDownWithinSectionInsertsBeforeTarget(t *testing.T) {
	tests := []struct {
		name  string
		downs int
		want  []string
	}{
		{name: "onto self", downs: 0, want: []string{"a", "b", "c"}},
		{name: "onto next", downs: 1, want: []string{"a", "b", "c"}},
		{name: "before c", downs: 2, want: []string{"b", "a", "c"}},
		{name: "onto drop slot", downs: 3, want: []string{"b", "c", "a"}},
		{name: "clamped past drop slot", downs: 9, want: []string{"b", "c", "a"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestApp(t, [][]string{{"a", "b", "c"}})
			m = press(t, m, keyType(tea.KeySpace))
			for i := 0; i < tt.downs; i++ {
				m = press(t, m, keyRune('j'))
			}
			m = press(t, m, keyType(tea.KeyEnter))
			got := m.board.Board().Payloads()[0]
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApp_MoveUpWithinSection(t *testing.T) {
	m, _ := newTestApp(t, [][]string{{"a", "b", "c"}})
	m = press(t, m, keyType(tea.KeyDown), keyType(tea.KeyDown))
	m = press(t, m, keyType(tea.KeySpace), keyType(tea.KeyUp), keyType(tea.KeyUp), keyType(tea.KeyEnter))
	want := []string{"c", "a", "b"}
	if got := m.board.Board().Payloads()[0]; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestApp_CancelLeavesBoardUntouched(t *testing.T) {
	m, ws := newTestApp(t, [][]string{{"0A", "0B"}, {"1A"}})

	m = press(t, m, keyType(tea.KeySpace), keyType(tea.KeyRight), keyType(tea.KeyEsc))
	if m.board.Dragging() {
		t.Fatalf("expected drag to end on esc")
	}
	want := [][]string{{"0A", "0B"}, {"1A"}}
	if got := m.board.Board().Payloads(); !reflect.DeepEqual(got, want) {
		t.Fatalf("board after cancel: got %v, want %v", got, want)
	}
	for _, sec := range m.mirror.sections {
		for _, it := range sec {
			if it.IsPlaceholder() {
				t.Fatalf("placeholder left in view after cancel")
			}
		}
	}
	if _, ok, err := ws.LoadLayout(context.Background()); err != nil || ok {
		t.Fatalf("cancel must not save a layout, ok=%v err=%v", ok, err)
	}
	evs, err := ws.ReadEvents()
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	if len(evs) != 4 {
		t.Fatalf("expected begin+end diffs (4), got %d", len(evs))
	}
}

func TestApp_GrabFromEmptySection(t *testing.T) {
	m, _ := newTestApp(t, [][]string{{}, {"x"}})
	m = press(t, m, keyType(tea.KeySpace))
	if m.board.Dragging() {
		t.Fatalf("expected no drag from an empty section")
	}
	if !m.statusErr || !strings.Contains(m.status, "nothing to pick up") {
		t.Fatalf("unexpected status %q (err=%v)", m.status, m.statusErr)
	}
}

func TestApp_QuitMidDragCleansUp(t *testing.T) {
	m, _ := newTestApp(t, [][]string{{"a"}})
	m = press(t, m, keyType(tea.KeySpace), keyRune('q'))
	if m.board.Dragging() {
		t.Fatalf("expected quit to end the drag")
	}
	if m.board.ConcreteCount() != 1 {
		t.Fatalf("expected item count to be preserved")
	}
}

func TestApp_ViewShowsPlaceholderLabelWhileDragging(t *testing.T) {
	m, _ := newTestApp(t, [][]string{{"0A"}, {"1A"}})
	if strings.Contains(m.View(), "仮") {
		t.Fatalf("expected no drop slots before drag")
	}
	m = press(t, m, keyType(tea.KeySpace))
	out := m.View()
	if strings.Count(out, "仮") != 2 {
		t.Fatalf("expected one drop slot per section, got view:\n%s", out)
	}
	if !strings.Contains(out, "carrying 0A") {
		t.Fatalf("expected carrying status in view:\n%s", out)
	}
}

func TestApp_HelpToggle(t *testing.T) {
	m, _ := newTestApp(t, [][]string{{"a"}})
	m = press(t, m, keyRune('?'))
	if !m.showHelp {
		t.Fatalf("expected help to be shown")
	}
	m = press(t, m, keyRune('?'))
	if m.showHelp {
		t.Fatalf("expected help to be hidden")
	}
}

func TestApp_WithoutWorkspaceSkipsPersistence(t *testing.T) {
	m := newAppModel(reorder.New([][]string{{"a", "b"}}), Options{})
	m = press(t, m, keyType(tea.KeySpace), keyType(tea.KeyDown), keyType(tea.KeyDown), keyType(tea.KeyEnter))
	if m.statusErr {
		t.Fatalf("unexpected error status %q", m.status)
	}
	if got := m.board.Board().Payloads()[0]; !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("got %v", got)
	}
}
