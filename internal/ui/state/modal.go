package state

// Popup identifies an overlay. Popups are mutually exclusive: at most one is
// active at a time.
type Popup int

const (
	PopupNone Popup = iota
	PopupAddRepo
	PopupInputs
	PopupConfirm
	PopupReplays
	PopupHelp
)

func (p Popup) String() string {
	switch p {
	case PopupNone:
		return "none"
	case PopupAddRepo:
		return "add-repo"
	case PopupInputs:
		return "inputs"
	case PopupConfirm:
		return "confirm"
	case PopupReplays:
		return "replays"
	case PopupHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ModalStack tracks the active popup and the focus to restore when it
// closes. Opening over an active popup replaces it rather than nesting, and
// the focus saved by the first open survives the replacement.
type ModalStack struct {
	active     Popup
	savedFocus Focus
}

// Open activates kind, saving focus for restoration unless a popup was
// already active. It returns the popup that was replaced, if any.
func (m *ModalStack) Open(kind Popup, focus Focus) Popup {
	if kind == PopupNone {
		return PopupNone
	}
	prev := m.active
	if prev == PopupNone {
		m.savedFocus = focus
	}
	m.active = kind
	return prev
}

// Close deactivates the current popup and returns the focus captured when
// it opened. The second result is false when nothing was open.
func (m *ModalStack) Close() (Focus, bool) {
	if m.active == PopupNone {
		return 0, false
	}
	m.active = PopupNone
	return m.savedFocus, true
}

// Active returns the current popup, PopupNone when the stack is empty.
func (m *ModalStack) Active() Popup {
	return m.active
}

// Blocking reports whether a popup currently captures all input.
func (m *ModalStack) Blocking() bool {
	return m.active != PopupNone
}
