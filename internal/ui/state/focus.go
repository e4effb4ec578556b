package state

// Focus names the panel that receives navigation keys.
type Focus int

const (
	FocusRepo Focus = iota
	FocusBranches
	FocusWorkflows
	FocusInputs
	FocusOutput
)

const focusCount = 5

// Next rotates focus forward. Every panel is a valid target, including
// empty ones.
func (f Focus) Next() Focus {
	return (f + 1) % focusCount
}

// Prev rotates focus backward.
func (f Focus) Prev() Focus {
	return (f + focusCount - 1) % focusCount
}

func (f Focus) String() string {
	switch f {
	case FocusRepo:
		return "repositories"
	case FocusBranches:
		return "branches"
	case FocusWorkflows:
		return "workflows"
	case FocusInputs:
		return "inputs"
	case FocusOutput:
		return "output"
	default:
		return "unknown"
	}
}
