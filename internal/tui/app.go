package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"sectiongrid/internal/docs"
	"sectiongrid/internal/model"
	"sectiongrid/internal/reorder"
	"sectiongrid/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configure the board program.
type Options struct {
	// Workspace persists layout and diffs after each gesture. A zero Dir disables persistence.
	Workspace        store.Store
	SectionLabel     string
	PlaceholderLabel string
	Logger           *slog.Logger
}

type dragState struct {
	from    model.Coordinate
	target  boardSelection
	session *store.Session
}

type appModel struct {
	board  *reorder.Store
	mirror mirror
	ws     store.Store
	labels boardLabels
	logger *slog.Logger

	keys     keyMap
	help     help.Model
	showHelp bool

	width  int
	height int

	sel  boardSelection
	drag *dragState

	status    string
	statusErr bool
}

func newAppModel(board *reorder.Store, opts Options) appModel {
	labels := boardLabels{Section: opts.SectionLabel, Placeholder: opts.PlaceholderLabel}
	if strings.TrimSpace(labels.Section) == "" {
		labels.Section = "Section"
	}
	if strings.TrimSpace(labels.Placeholder) == "" {
		labels.Placeholder = "仮"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m := appModel{
		board:  board,
		mirror: newMirror(board.Sections()),
		ws:     opts.Workspace,
		labels: labels,
		logger: logger,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	m.keys.setDragging(false)
	m.sel = clampSelection(m.mirror.sections, boardSelection{})
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.setStatus("", false)
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.drag != nil {
				// Quitting mid-drag still cleans up the placeholders.
				m.cancelDrag()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Left):
			m.moveCursor(-1, 0)
			return m, nil
		case key.Matches(msg, m.keys.Right):
			m.moveCursor(1, 0)
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(0, -1)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(0, 1)
			return m, nil
		case key.Matches(msg, m.keys.Grab):
			m.beginDrag()
			return m, nil
		case key.Matches(msg, m.keys.Drop):
			m.drop()
			return m, nil
		case key.Matches(msg, m.keys.Cancel):
			m.cancelDrag()
			return m, nil
		}
	}
	return m, nil
}

func (m *appModel) moveCursor(dCol, dItem int) {
	if m.drag == nil {
		next := m.sel
		next.Col += dCol
		next.Item += dItem
		m.sel = clampSelection(m.mirror.sections, next)
		return
	}
	// While dragging, the target walks every slot including the trailing drop zone.
	next := m.drag.target
	next.Col += dCol
	next.Item += dItem
	m.drag.target = clampSelection(m.mirror.sections, next)
}

func (m *appModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *appModel) beginDrag() {
	if m.sel.Item < 0 {
		m.setStatus("nothing to pick up", true)
		return
	}
	from := model.At(m.sel.Col, m.sel.Item)
	diffs, err := m.board.BeginDrag()
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	sess := store.NewSession()
	sess.Record(store.OpBegin, diffs)
	m.drag = &dragState{from: from, target: m.sel, session: sess}
	m.keys.setDragging(true)

	it, _ := m.board.ItemAt(from)
	m.setStatus(fmt.Sprintf("carrying %s", it.Payload()), false)
	m.applyDiffs(diffs)
}

// dropCoordinate converts the raw slot under the target cursor into a MoveItem
// destination. The carried item is inserted before the targeted slot; within the source
// section, slots after the source shift left once it is removed.
func dropCoordinate(from model.Coordinate, target boardSelection) model.Coordinate {
	to := model.At(target.Col, target.Item)
	if to.Section == from.Section && to.Item > from.Item {
		to.Item--
	}
	return to
}

func (m *appModel) drop() {
	if m.drag == nil {
		return
	}
	d := m.drag
	to := dropCoordinate(d.from, d.target)

	moved, err := m.board.MoveItem(d.from, to)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	d.session.Record(store.OpMove, moved)
	m.setStatus(fmt.Sprintf("moved %s → %s", d.from, to), false)
	m.applyDiffs(moved)
	if err := m.endDrag(); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.sel = clampSelection(m.mirror.sections, boardSelection{Col: to.Section, Item: to.Item})
	m.persist(d.session, true)
}

func (m *appModel) cancelDrag() {
	if m.drag == nil {
		return
	}
	sess := m.drag.session
	m.setStatus("drag cancelled", false)
	if err := m.endDrag(); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.persist(sess, false)
}

func (m *appModel) endDrag() error {
	diffs, err := m.board.EndDrag()
	if err != nil {
		return err
	}
	m.drag.session.Record(store.OpEnd, diffs)
	m.drag = nil
	m.keys.setDragging(false)
	m.applyDiffs(diffs)
	m.sel = clampSelection(m.mirror.sections, m.sel)
	return nil
}

// applyDiffs mirrors a store mutation into the view. If the mirror cannot follow the
// diff stream it is rebuilt from the store and the mismatch is reported.
func (m *appModel) applyDiffs(diffs []model.Diff) {
	if err := m.mirror.apply(diffs, m.board.ItemAt); err != nil {
		m.setStatus(err.Error(), true)
		m.resync()
		return
	}
	if !m.mirror.equal(m.board.Sections()) {
		m.setStatus("view out of sync with board; resynced", true)
		m.resync()
	}
}

func (m *appModel) resync() {
	m.logger.Warn("mirror resync", "sections", m.board.SectionCount())
	m.mirror = newMirror(m.board.Sections())
}

func (m *appModel) persist(sess *store.Session, layoutChanged bool) {
	if strings.TrimSpace(m.ws.Dir) == "" {
		return
	}
	ctx := context.Background()
	if layoutChanged {
		if err := m.ws.SaveLayout(ctx, m.board.Board().Payloads()); err != nil {
			m.logger.Error("save layout", "err", err)
			m.setStatus("save failed: "+err.Error(), true)
			return
		}
	}
	if err := m.ws.AppendSession(ctx, sess); err != nil {
		m.logger.Error("append diff log", "err", err)
		m.setStatus("diff log failed: "+err.Error(), true)
	}
}

func (m appModel) View() string {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}

	if m.showHelp {
		body, _ := docs.Get("keys")
		return normalizePane(docs.Render(body, w-4), w, h)
	}

	footer := m.help.View(m.keys)
	status := m.status
	if m.statusErr {
		status = lipgloss.NewStyle().Foreground(colorFlashError).Render(status)
	} else {
		status = styleMuted().Render(status)
	}
	boardH := h - 2
	if boardH < 1 {
		boardH = 1
	}

	var drag *boardDrag
	if m.drag != nil {
		drag = &boardDrag{From: m.drag.from, Target: m.drag.target}
	}
	body := renderBoard(m.mirror.sections, m.sel, drag, m.labels, w, boardH)
	return strings.Join([]string{body, normalizePane(status, w, 1), normalizePane(footer, w, 1)}, "\n")
}
