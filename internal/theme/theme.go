package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Title                 *lipgloss.Style
	Panel                 *lipgloss.Style
	PanelFocused          *lipgloss.Style
	PanelTitle            *lipgloss.Style
	PanelTitleFocused     *lipgloss.Style
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItem          *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	Muted                 *lipgloss.Style
	Error                 *lipgloss.Style
	Info                  *lipgloss.Style
	Success               *lipgloss.Style
	Filter                *lipgloss.Style
	FilterPrompt          *lipgloss.Style
	Cursor                *lipgloss.Style
	Popup                 *lipgloss.Style
	PopupTitle            *lipgloss.Style
	PopupHint             *lipgloss.Style
	FieldEditing          *lipgloss.Style
	Required              *lipgloss.Style
}

var defaultStyles = Styles{
	Title: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	),
	Panel: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")),
	),
	PanelFocused: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("33")),
	),
	PanelTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	PanelTitleFocused: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	SelectedItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(lipgloss.Color("238")),
	),
	Muted: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Success: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Blink(true),
	),
	Popup: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("33")).Padding(0, 1),
	),
	PopupTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	PopupHint: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	FieldEditing: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	),
	Required: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
