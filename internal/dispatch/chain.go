// Package dispatch turns the current repo/branch/workflow selection and the
// staged input values into a validated gh invocation with a shell-safe
// preview.
package dispatch

import "fmt"

// Stage names one link of the selection chain.
type Stage int

const (
	StageRepo Stage = iota
	StageBranch
	StageWorkflow
)

func (s Stage) String() string {
	switch s {
	case StageRepo:
		return "repository"
	case StageBranch:
		return "branch"
	case StageWorkflow:
		return "workflow"
	default:
		return "unknown"
	}
}

// MissingSelectionError reports the first unresolved stage of the chain.
type MissingSelectionError struct {
	Stage Stage
}

func (e *MissingSelectionError) Error() string {
	return fmt.Sprintf("no %s selected", e.Stage)
}

// Chain is the resolved repo/branch/workflow triple. Empty strings mark
// unresolved stages. It is rebuilt from the panels on demand, never stored.
type Chain struct {
	Repo     string
	Branch   string
	Workflow string
}

// Validate checks the chain stage by stage, failing on the first gap.
func (c Chain) Validate() error {
	if c.Repo == "" {
		return &MissingSelectionError{Stage: StageRepo}
	}
	if c.Branch == "" {
		return &MissingSelectionError{Stage: StageBranch}
	}
	if c.Workflow == "" {
		return &MissingSelectionError{Stage: StageWorkflow}
	}
	return nil
}
