package ui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/homelab-core/dispatchrr/internal/logging/events"
	"github.com/homelab-core/dispatchrr/internal/ui/state"
)

// handleSearchKey owns every key press while the focused panel is in query
// entry. Enter keeps the filter, Esc restores the pre-search query and
// selection, and ctrl+j/ctrl+k move the cursor without leaving entry.
func (m *Model) handleSearchKey(key tea.KeyMsg, p *state.Panel) tea.Cmd {
	switch key.String() {
	case "enter":
		p.CommitSearch()
		events.Filter.Commit(p.Name, p.Query)
		return nil
	case "esc":
		p.CancelSearch()
		m.sync(p)
		events.Filter.Cancel(p.Name)
		return nil
	case "ctrl+u":
		if p.Query != "" {
			p.SetQuery("")
			m.sync(p)
			events.Filter.Edit(p.Name, p.Query, p.Len())
		}
		return nil
	case "ctrl+w":
		if p.DeleteQueryWordBackward() {
			m.sync(p)
			events.Filter.Edit(p.Name, p.Query, p.Len())
		}
		return nil
	case "ctrl+j", "down":
		if p.Next() {
			m.noteCursor(p)
		}
		return nil
	case "ctrl+k", "up":
		if p.Prev() {
			m.noteCursor(p)
		}
		return nil
	}
	switch key.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if p.DeleteQueryRuneBackward() {
			m.sync(p)
			events.Filter.Edit(p.Name, p.Query, p.Len())
		}
		return nil
	case tea.KeySpace:
		m.appendToQuery(p, " ")
		return nil
	case tea.KeyRunes:
		if key.Alt || len(key.Runes) == 0 {
			return nil
		}
		for _, r := range key.Runes {
			if unicode.IsControl(r) {
				return nil
			}
		}
		m.appendToQuery(p, string(key.Runes))
		return nil
	}
	return nil
}

func (m *Model) appendToQuery(p *state.Panel, text string) {
	if !p.InsertQueryText(text) {
		return
	}
	m.sync(p)
	events.Filter.Edit(p.Name, p.Query, p.Len())
}
