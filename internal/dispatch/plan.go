package dispatch

import (
	"fmt"
	"strings"

	"github.com/homelab-core/dispatchrr/internal/github"
)

// MissingInputError reports a required input with no staged value.
type MissingInputError struct {
	Name string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("required input %q is empty", e.Name)
}

// Plan is a fully validated workflow dispatch, frozen at confirmation time.
type Plan struct {
	Chain   Chain
	Name    string
	Args    []string
	Preview string
}

// Build assembles the gh argument list for the chain and staged fields.
// Fields contribute one -f name=value pair each, in declaration order;
// empty optional fields are omitted and empty required fields fail.
func Build(chain Chain, fields []github.InputField) (Plan, error) {
	if err := chain.Validate(); err != nil {
		return Plan{}, err
	}
	args := []string{
		"workflow", "run", chain.Workflow,
		"--repo", chain.Repo,
		"--ref", chain.Branch,
	}
	for _, field := range fields {
		if field.Value == "" {
			if field.Required {
				return Plan{}, &MissingInputError{Name: field.Name}
			}
			continue
		}
		args = append(args, "-f", field.Name+"="+field.Value)
	}
	return Plan{
		Chain:   chain,
		Name:    "gh",
		Args:    args,
		Preview: preview("gh", args),
	}, nil
}

func preview(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, arg := range args {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " ")
}

const shellSpecial = " \t\n\"'`$\\&|;<>(){}[]*?!#~"

// quote single-quotes an argument when the shell would otherwise interpret
// it, so the preview can be pasted into a terminal verbatim.
func quote(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, shellSpecial) {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
