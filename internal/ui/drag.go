package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/imgqueue/internal/dropzone"
)

// Terminals deliver a file drop as a bracketed paste of the file paths.
// Pointer motion, reported while mouse tracking is on, drives the hover
// highlight, and the paste is treated as a drop at the last pointer
// position.

// handleMouse turns pointer motion into drag-over events.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionMotion {
		return m, nil
	}
	p := dropzone.Point{X: msg.X, Y: msg.Y}
	m.pointer = &p
	m.session.HandleDrag(dropzone.At(dropzone.KindOver, p.X, p.Y))
	m.syncSnapshot()
	return m, nil
}

// handleBlur ends any hover when the terminal loses focus.
func (m Model) handleBlur() (tea.Model, tea.Cmd) {
	m.session.HandleDrag(dropzone.Event{Kind: dropzone.KindLeave})
	m.syncSnapshot()
	return m, nil
}

// handlePaste treats pasted text as dropped paths.
func (m Model) handlePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	paths := dropzone.ParsePayload(string(msg.Runes))
	at := m.dropPoint()
	m.session.HandleDrag(dropzone.DropAt(at.X, at.Y, paths))
	m.syncSnapshot()
	return m, nil
}

// dropPoint is the last pointer position, or the queue pane's origin when
// the terminal never reported one.
func (m Model) dropPoint() dropzone.Point {
	if m.pointer != nil {
		return *m.pointer
	}
	q := computeLayout(m.width, m.height).queue
	return dropzone.Point{X: q.X, Y: q.Y}
}
