package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/homelab-core/dispatchrr/internal/logging/events"
	"github.com/homelab-core/dispatchrr/internal/ui/state"
)

func (m *Model) handleNormalKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "q", "ctrl+c":
		events.App.Quit()
		return tea.Quit
	case "tab":
		m.setFocus(m.focus.Next())
		return nil
	case "shift+tab":
		m.setFocus(m.focus.Prev())
		return nil
	case "j", "down":
		m.moveCursor(1)
		return nil
	case "k", "up":
		m.moveCursor(-1)
		return nil
	case "home":
		if p := m.focusedPanel(); p != nil && p.MoveHome() {
			m.noteCursor(p)
		}
		return nil
	case "end":
		if p := m.focusedPanel(); p != nil && p.MoveEnd() {
			m.noteCursor(p)
		}
		return nil
	case "pgup":
		if p := m.focusedPanel(); p != nil && p.MovePageUp(m.panelRows(p)) {
			m.noteCursor(p)
		}
		return nil
	case "pgdown":
		if p := m.focusedPanel(); p != nil && p.MovePageDown(m.panelRows(p)) {
			m.noteCursor(p)
		}
		return nil
	case "/":
		m.beginSearch()
		return nil
	case "enter":
		return m.handleEnterKey()
	case "a":
		return m.startAddRepoForm()
	case "i":
		m.openInputsOrConfirm()
		return nil
	case "r":
		m.openReplays()
		return nil
	case "?":
		m.openPopup(state.PopupHelp)
		return nil
	case "o":
		m.openFocusedInBrowser()
		return nil
	case "R":
		m.refreshRepo()
		return nil
	case "esc":
		m.handleEscapeKey()
		return nil
	}
	return nil
}

func (m *Model) moveCursor(delta int) {
	p := m.focusedPanel()
	if p == nil {
		return
	}
	moved := false
	if delta > 0 {
		moved = p.Next()
	} else {
		moved = p.Prev()
	}
	if moved {
		m.noteCursor(p)
	}
}

func (m *Model) noteCursor(p *state.Panel) {
	m.sync(p)
	events.UI.Cursor(p.Name, p.Cursor)
}

// beginSearch starts query entry on the focused panel. Only the three
// fetch-backed lists are searchable; entry always starts from an empty
// query, and cancelling restores whatever filter was committed before.
func (m *Model) beginSearch() {
	switch m.focus {
	case state.FocusRepo, state.FocusBranches, state.FocusWorkflows:
	default:
		return
	}
	p := m.focusedPanel()
	p.BeginSearch()
	p.SetQuery("")
	m.sync(p)
	events.Filter.Begin(p.Name)
}

// handleEscapeKey layers Esc in normal mode: drop a committed filter on the
// focused panel first, otherwise clear the Output panel.
func (m *Model) handleEscapeKey() {
	if p := m.focusedPanel(); p != nil && p.ClearQuery() {
		m.sync(p)
		events.Filter.Cleared(p.Name)
		return
	}
	m.setOutput("")
}

// handleEnterKey runs the focused panel's context action: each list stage
// fetches the next stage's data, and the Inputs panel goes straight to the
// dispatch confirmation.
func (m *Model) handleEnterKey() tea.Cmd {
	switch m.focus {
	case state.FocusRepo:
		m.enterRepo(true)
	case state.FocusBranches:
		m.enterBranch()
	case state.FocusWorkflows:
		m.enterWorkflow()
	case state.FocusInputs:
		m.buildConfirm()
	}
	return nil
}
