package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/homelab-core/dispatchrr/internal/ui/state"
)

func (m *Model) viewPopup(kind state.Popup) string {
	var box string
	switch kind {
	case state.PopupHelp:
		box = m.renderHelpPopup()
	case state.PopupAddRepo:
		box = m.renderAddRepoPopup()
	case state.PopupInputs:
		box = m.renderInputsPopup()
	case state.PopupConfirm:
		box = m.renderConfirmPopup()
	case state.PopupReplays:
		box = m.renderReplaysPopup()
	default:
		return ""
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// popupBox wraps a title, body, and key hint in the shared popup frame. The
// box sizes itself to the content; lines are clamped so the frame always
// fits the terminal.
func (m *Model) popupBox(title string, body []string, hint string) string {
	maxW := m.width - 6
	lines := make([]string, 0, len(body)+4)
	lines = append(lines, styles.PopupTitle.Render(clampLine(title, maxW)), "")
	for _, line := range body {
		lines = append(lines, clampLine(line, maxW))
	}
	if hint != "" {
		lines = append(lines, "", styles.PopupHint.Render(clampLine(hint, maxW)))
	}
	return styles.Popup.Render(strings.Join(lines, "\n"))
}

func clampLine(text string, width int) string {
	if width > 0 && lipgloss.Width(text) > width {
		return truncate.StringWithTail(text, uint(width-1), "…")
	}
	return text
}

func (m *Model) renderAddRepoPopup() string {
	body := []string{}
	if m.repoForm != nil {
		body = append(body, m.repoForm.OwnerView(), "", m.repoForm.NameView())
		if err := m.repoForm.Error(); err != "" {
			body = append(body, "", styles.Error.Render(err))
		}
	}
	return m.popupBox("Add Repo", body, "Tab: switch field | Enter: submit | Esc: cancel")
}

func (m *Model) renderInputsPopup() string {
	selected, _ := m.inputs.RealIndex()
	body := make([]string, 0, len(m.fields)*4)
	for i, f := range m.fields {
		isSelected := i == selected
		isEditing := isSelected && m.editing

		req := ""
		if f.Required {
			req = " *"
		}
		nameStyle := styles.Item
		if isSelected {
			nameStyle = styles.PanelTitleFocused
		}
		body = append(body, nameStyle.Render(fmt.Sprintf("%s%s: %s", f.Name, req, f.Description)))

		meta := []string{fmt.Sprintf("  type: %s", f.Type)}
		if f.Default != "" {
			meta = append(meta, fmt.Sprintf("default: %s", f.Default))
		}
		if len(f.Options) > 0 {
			meta = append(meta, fmt.Sprintf("options: [%s]", strings.Join(f.Options, ", ")))
		}
		body = append(body, styles.Muted.Render(strings.Join(meta, " | ")))

		switch {
		case isEditing:
			body = append(body, styles.FilterPrompt.Render(fmt.Sprintf("  > %s█", f.Value)))
		case isSelected:
			body = append(body, styles.FieldEditing.Render(fmt.Sprintf("  > %s", f.Value)))
		default:
			body = append(body, styles.Muted.Render(fmt.Sprintf("    %s", f.Value)))
		}
		if i < len(m.fields)-1 {
			body = append(body, "")
		}
	}
	return m.popupBox("Workflow Inputs", body,
		"j/k: navigate | Enter: edit | Tab: cycle choice | D: dispatch | S: save replay | Esc: close")
}

func (m *Model) renderConfirmPopup() string {
	body := []string{
		"Command to run:",
		"",
		"  " + m.plan.Preview,
	}
	return m.popupBox("Confirm Dispatch", body, "(y) to confirm | (c) to copy | any other key to cancel")
}

func (m *Model) renderReplaysPopup() string {
	rows := m.panelRows(m.replayList)
	m.replayList.EnsureVisible(rows)
	start := m.replayList.ViewportOffset
	end := start + rows
	if end > m.replayList.Len() {
		end = m.replayList.Len()
	}
	body := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		label, _ := labelAt(m.replayList, i)
		body = append(body, renderLine(buildItemLine(label, i == m.replayList.Cursor, 0)))
	}
	return m.popupBox("Replays", body, "j/k: navigate | Enter: run | d: delete | Esc: close")
}

func (m *Model) renderHelpPopup() string {
	key := styles.PanelTitleFocused
	section := styles.FieldEditing
	body := []string{
		section.Render("── General ──"),
		key.Render("  Tab / Shift+Tab  ") + "Cycle focus between panels",
		key.Render("  j/k  ↑/↓         ") + "Navigate lists",
		key.Render("  Enter            ") + "Select / confirm action",
		key.Render("  /                ") + "Fuzzy search in focused panel",
		key.Render("  Esc              ") + "Clear filter, then output",
		key.Render("  a                ") + "Add a new repo",
		key.Render("  o                ") + "Open focused item in browser",
		key.Render("  r                ") + "Open saved replays",
		key.Render("  i                ") + "Edit workflow inputs",
		key.Render("  R                ") + "Refresh repo data",
		key.Render("  q / Ctrl+C       ") + "Quit",
		"",
		section.Render("── Inputs Popup ──"),
		key.Render("  D                ") + "Dispatch workflow",
		key.Render("  S                ") + "Save inputs as replay",
		key.Render("  Tab / Shift+Tab  ") + "Cycle choice options",
		"",
		section.Render("── Replays Popup ──"),
		key.Render("  Enter            ") + "Run selected replay",
		key.Render("  d                ") + "Delete selected replay",
	}
	return m.popupBox("Keybindings", body, "any key to close")
}
