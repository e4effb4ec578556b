package ui

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/homelab-core/dispatchrr/internal/github"
)

func (m *Model) handleHelpKey(tea.KeyMsg) tea.Cmd {
	m.closePopup()
	return nil
}

func (m *Model) handleAddRepoKey(key tea.KeyMsg) tea.Cmd {
	if m.repoForm == nil {
		m.closePopup()
		return nil
	}
	cmd, done, cancel := m.repoForm.Update(key)
	if cancel {
		m.repoForm = nil
		m.closePopup()
		return nil
	}
	if done {
		owner, name := m.repoForm.Values()
		m.repoForm = nil
		m.closePopup()
		m.addRepo(owner, name)
		return nil
	}
	return cmd
}

// handleInputsKey drives the input editor. Tab and Shift+Tab cycle choice
// options whether or not edit mode is active; every other key depends on it.
func (m *Model) handleInputsKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "tab":
		m.cycleChoice(1)
		return nil
	case "shift+tab":
		m.cycleChoice(-1)
		return nil
	case "esc":
		if m.editing {
			m.editing = false
		} else {
			m.closePopup()
		}
		return nil
	}
	if !m.editing {
		switch key.String() {
		case "j", "down":
			if m.inputs.Next() {
				m.noteCursor(m.inputs)
			}
		case "k", "up":
			if m.inputs.Prev() {
				m.noteCursor(m.inputs)
			}
		case "enter":
			m.editing = true
		case "D":
			m.buildConfirm()
		case "S":
			m.saveReplay()
		}
		return nil
	}
	switch key.Type {
	case tea.KeyEnter:
		m.editing = false
	case tea.KeyBackspace, tea.KeyCtrlH:
		m.editField(func(f *github.InputField) {
			switch f.Type {
			case github.TypeBoolean, github.TypeChoice:
			default:
				f.Value = trimLastRune(f.Value)
			}
		})
	case tea.KeySpace:
		m.typeIntoField(" ")
	case tea.KeyRunes:
		if key.Alt {
			return nil
		}
		m.typeIntoField(string(key.Runes))
	}
	return nil
}

// typeIntoField applies typed text to the selected field using its type's
// edit rule: booleans flip between true and false, choices ignore typing,
// everything else appends.
func (m *Model) typeIntoField(text string) {
	m.editField(func(f *github.InputField) {
		switch f.Type {
		case github.TypeBoolean:
			if f.Value == "true" {
				f.Value = "false"
			} else {
				f.Value = "true"
			}
		case github.TypeChoice:
		default:
			f.Value += text
		}
	})
}

func (m *Model) editField(mutate func(*github.InputField)) {
	idx, ok := m.inputs.RealIndex()
	if !ok {
		return
	}
	mutate(&m.fields[idx])
}

// cycleChoice advances a choice field to its next or previous option. A
// value not present in the options list restarts the cycle at the first
// option going forward, the last going backward.
func (m *Model) cycleChoice(delta int) {
	idx, ok := m.inputs.RealIndex()
	if !ok {
		return
	}
	f := &m.fields[idx]
	if f.Type != github.TypeChoice || len(f.Options) == 0 {
		return
	}
	pos := -1
	for i, opt := range f.Options {
		if opt == f.Value {
			pos = i
			break
		}
	}
	if delta > 0 {
		f.Value = f.Options[(pos+1)%len(f.Options)]
	} else if pos <= 0 {
		f.Value = f.Options[len(f.Options)-1]
	} else {
		f.Value = f.Options[pos-1]
	}
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

func (m *Model) handleConfirmKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "y", "Y":
		m.dispatchPlan()
	case "c":
		m.copyPreview()
	default:
		m.cancelDispatch()
	}
	return nil
}

func (m *Model) handleReplaysKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		m.closePopup()
	case "j", "down":
		if m.replayList.Next() {
			m.noteCursor(m.replayList)
		}
	case "k", "up":
		if m.replayList.Prev() {
			m.noteCursor(m.replayList)
		}
	case "enter":
		m.runReplay()
	case "d":
		m.deleteReplay()
	}
	return nil
}
