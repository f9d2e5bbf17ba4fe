package tui

import (
	"fmt"
	"strings"

	"sectiongrid/internal/model"

	"github.com/charmbracelet/lipgloss"
)

type boardSelection struct {
	Col  int
	Item int
}

// boardLabels are the user-facing strings for section headers and drop slots.
type boardLabels struct {
	Section     string
	Placeholder string
}

// boardDrag describes the carried item and the slot it would be dropped before.
type boardDrag struct {
	From   model.Coordinate
	Target boardSelection
}

func clampSelection(sections [][]model.Item, sel boardSelection) boardSelection {
	if len(sections) == 0 {
		return boardSelection{Col: 0, Item: -1}
	}
	if sel.Col < 0 {
		sel.Col = 0
	}
	if sel.Col >= len(sections) {
		sel.Col = len(sections) - 1
	}
	n := len(sections[sel.Col])
	if n == 0 {
		sel.Item = -1
		return sel
	}
	if sel.Item < 0 {
		sel.Item = 0
	}
	if sel.Item >= n {
		sel.Item = n - 1
	}
	return sel
}

func concreteCount(sec []model.Item) int {
	n := 0
	for _, it := range sec {
		if !it.IsPlaceholder() {
			n++
		}
	}
	return n
}

func renderBoard(sections [][]model.Item, sel boardSelection, drag *boardDrag, labels boardLabels, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	n := len(sections)
	if n == 0 {
		return normalizePane(styleMuted().Render("(no sections)"), width, height)
	}

	gap := 2
	avail := width - gap*(n-1)
	if avail < n {
		avail = n
	}
	colW := avail / n
	if colW < 8 {
		colW = 8
	}
	innerW := colW - 2

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Background(colorControlBg)
	headerActiveStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
	cellStyle := lipgloss.NewStyle().Width(colW).Padding(0, 1)
	selectedStyle := cellStyle.Copy().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	carriedStyle := cellStyle.Copy().Foreground(colorAccent).Italic(true)
	placeholderStyle := faintIfDark(cellStyle.Copy().Foreground(colorPlaceholder))

	activeCol := sel.Col
	if drag != nil {
		activeCol = drag.Target.Col
	}

	renderCell := func(ci, ii int, it model.Item) string {
		targeted := drag != nil && drag.Target.Col == ci && drag.Target.Item == ii
		carried := drag != nil && drag.From == model.At(ci, ii)
		selected := drag == nil && sel.Col == ci && sel.Item == ii

		text := it.Payload()
		if it.IsPlaceholder() {
			text = labels.Placeholder
		}
		prefix := "  "
		if targeted {
			prefix = "▸ "
		}
		text = truncateText(prefix+text, innerW)

		switch {
		case selected, targeted:
			return selectedStyle.Render(text)
		case carried:
			return carriedStyle.Render(text)
		case it.IsPlaceholder():
			return placeholderStyle.Render(text)
		default:
			return cellStyle.Render(text)
		}
	}

	rendered := make([]string, 0, n)
	for ci, sec := range sections {
		head := truncateText(fmt.Sprintf("%s%d (%d)", labels.Section, ci, concreteCount(sec)), colW)
		hs := headerStyle
		if ci == activeCol {
			hs = headerActiveStyle
		}
		lines := []string{hs.Width(colW).Render(head), ""}
		if len(sec) == 0 {
			lines = append(lines, styleMuted().Render("  (empty)"))
		}
		for ii, it := range sec {
			lines = append(lines, renderCell(ci, ii, it))
		}
		rendered = append(rendered, normalizePane(strings.Join(lines, "\n"), colW, height))
	}

	out := rendered[0]
	sep := strings.Repeat(" ", gap)
	for i := 1; i < len(rendered); i++ {
		out = lipgloss.JoinHorizontal(lipgloss.Top, out, sep, rendered[i])
	}
	return normalizePane(out, width, height)
}
