package github

// InputType classifies a workflow_dispatch input. Unrecognised tags parse as
// TypeString so an unexpected workflow file still renders and edits sanely.
type InputType int

const (
	TypeString InputType = iota
	TypeNumber
	TypeBoolean
	TypeChoice
	TypeEnvironment
)

// ParseInputType maps the workflow file's type tag onto an InputType.
func ParseInputType(tag string) InputType {
	switch tag {
	case "number":
		return TypeNumber
	case "boolean":
		return TypeBoolean
	case "choice":
		return TypeChoice
	case "environment":
		return TypeEnvironment
	default:
		return TypeString
	}
}

func (t InputType) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeChoice:
		return "choice"
	case TypeEnvironment:
		return "environment"
	default:
		return "string"
	}
}

// InputField is one workflow_dispatch input together with the value the user
// has staged for it. Value starts at Default and is edited in place.
type InputField struct {
	Name        string
	Description string
	Type        InputType
	Required    bool
	Default     string
	Options     []string
	Value       string
}
