package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/homelab-core/dispatchrr/internal/dispatch"
	"github.com/homelab-core/dispatchrr/internal/github"
	"github.com/homelab-core/dispatchrr/internal/logging/events"
	"github.com/homelab-core/dispatchrr/internal/store"
	"github.com/homelab-core/dispatchrr/internal/ui/state"
)

// chain resolves the current repo, branch, and workflow selections. It is
// rebuilt from the panels on every use; caching it across a data refresh
// would reintroduce the stale-selection bugs the panels exist to prevent.
func (m *Model) chain() dispatch.Chain {
	var c dispatch.Chain
	if repo, ok := m.repos.CurrentLabel(); ok {
		c.Repo = repo
	}
	if branch, ok := m.branches.CurrentLabel(); ok {
		c.Branch = branch
	}
	if workflow, ok := m.workflows.CurrentLabel(); ok {
		c.Workflow = workflow
	}
	return c
}

// setInputFields replaces the input collection and its panel view.
func (m *Model) setInputFields(fields []github.InputField) {
	m.fields = fields
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	m.inputs.SetLabels(names)
	m.editing = false
}

// enterRepo fetches branches and workflows for the selected repo. On failure
// the previously loaded collections stay visible.
func (m *Model) enterRepo(advance bool) {
	repo, ok := m.repos.CurrentLabel()
	if !ok {
		m.reportError("Error loading branches", &dispatch.MissingSelectionError{Stage: dispatch.StageRepo})
		return
	}
	events.Action.FetchBegin("repo", repo)
	branches, workflows, err := m.fetcher.RepoDetails(repo)
	if err != nil {
		events.Action.FetchError("repo", repo, err)
		m.reportError(fmt.Sprintf("Error loading branches for '%s'", repo), err)
		return
	}
	events.Action.FetchDone("repo", repo, len(branches)+len(workflows))
	m.branches.SetLabels(branches)
	m.workflows.SetLabels(workflows)
	m.setInputFields(nil)
	m.sync(m.branches)
	m.sync(m.workflows)
	m.setOutput(fmt.Sprintf("Loaded %d branches and %d workflows for '%s'.", len(branches), len(workflows), repo))
	if advance {
		m.setFocus(state.FocusBranches)
	}
}

// refreshRepo re-fetches the selected repo's data without moving focus.
func (m *Model) refreshRepo() {
	m.enterRepo(false)
}

func (m *Model) preselectRepo(name string) {
	if !m.repos.SelectLabel(name) {
		m.reportError("Error preselecting repo", fmt.Errorf("'%s' is not a tracked repo", name))
		return
	}
	m.sync(m.repos)
	m.enterRepo(true)
}

// enterBranch fetches the workflow files present on the selected branch.
func (m *Model) enterBranch() {
	repo, ok := m.repos.CurrentLabel()
	if !ok {
		m.reportError("Error loading workflows", &dispatch.MissingSelectionError{Stage: dispatch.StageRepo})
		return
	}
	branch, ok := m.branches.CurrentLabel()
	if !ok {
		m.reportError("Error loading workflows", &dispatch.MissingSelectionError{Stage: dispatch.StageBranch})
		return
	}
	events.Action.FetchBegin("branch", repo+"@"+branch)
	workflows, err := m.fetcher.BranchWorkflows(repo, branch)
	if err != nil {
		events.Action.FetchError("branch", repo+"@"+branch, err)
		m.reportError(fmt.Sprintf("Error loading workflows for branch '%s'", branch), err)
		return
	}
	events.Action.FetchDone("branch", repo+"@"+branch, len(workflows))
	m.workflows.SetLabels(workflows)
	m.setInputFields(nil)
	m.sync(m.workflows)
	if len(workflows) == 0 {
		m.setOutput(fmt.Sprintf("No workflows found on branch '%s'.", branch))
	} else {
		names := make([]string, len(workflows))
		for i, w := range workflows {
			names[i] = "- " + w
		}
		m.setOutput(fmt.Sprintf("Loaded %d workflows for branch '%s':\n\n%s", len(workflows), branch, strings.Join(names, "\n")))
	}
	m.setFocus(state.FocusWorkflows)
}

// enterWorkflow fetches the selected workflow's dispatch inputs and opens
// the editor, or goes straight to confirmation when there are none.
func (m *Model) enterWorkflow() {
	repo, ok := m.repos.CurrentLabel()
	if !ok {
		m.reportError("Error loading inputs", &dispatch.MissingSelectionError{Stage: dispatch.StageRepo})
		return
	}
	branch, ok := m.branches.CurrentLabel()
	if !ok {
		m.reportError("Error loading inputs", &dispatch.MissingSelectionError{Stage: dispatch.StageBranch})
		return
	}
	workflow, ok := m.workflows.CurrentLabel()
	if !ok {
		m.reportError("Error loading inputs", &dispatch.MissingSelectionError{Stage: dispatch.StageWorkflow})
		return
	}
	events.Action.FetchBegin("inputs", workflow)
	fields, err := m.fetcher.WorkflowInputs(repo, branch, workflow)
	if err != nil {
		events.Action.FetchError("inputs", workflow, err)
		m.reportError(fmt.Sprintf("Error loading inputs for '%s'", workflow), err)
		return
	}
	events.Action.FetchDone("inputs", workflow, len(fields))
	m.setInputFields(fields)
	m.setFocus(state.FocusInputs)
	if len(fields) == 0 {
		m.setOutput(fmt.Sprintf("Workflow '%s' has no dispatch inputs.", workflow))
		m.buildConfirm()
		return
	}
	m.openInputsPopup()
}

func (m *Model) openInputsPopup() {
	m.editing = false
	m.inputs.MoveHome()
	m.sync(m.inputs)
	m.openPopup(state.PopupInputs)
}

// openInputsOrConfirm handles the 'i' shortcut: edit the loaded inputs, or
// confirm directly when the selected workflow has none.
func (m *Model) openInputsOrConfirm() {
	if len(m.fields) > 0 {
		m.openInputsPopup()
		return
	}
	m.buildConfirm()
}

// buildConfirm validates the selection chain plus input values into a plan
// and opens the confirmation popup. Opening replaces the Inputs popup when
// the request came from inside it.
func (m *Model) buildConfirm() {
	plan, err := dispatch.Build(m.chain(), m.fields)
	if err != nil {
		events.Dispatch.Invalid(err)
		if m.modal.Blocking() {
			m.closePopup()
		}
		m.reportError("Error building dispatch", err)
		return
	}
	m.plan = plan
	m.planReady = true
	events.Dispatch.Plan(plan.Chain.Repo, plan.Chain.Workflow, len(plan.Args))
	m.openPopup(state.PopupConfirm)
}

// dispatchPlan hands the confirmed plan to the dispatcher and reports the
// outcome. A successful dispatch arms the run prompt so 'l' and 'v' can
// follow the run that was just created.
func (m *Model) dispatchPlan() {
	plan := m.plan
	m.planReady = false
	m.closePopup()
	events.Dispatch.Confirm(plan.Preview)
	if err := m.dispatcher.Dispatch(plan.Args); err != nil {
		events.Dispatch.Result(plan.Chain.Repo, plan.Chain.Workflow, err)
		m.reportError("Error dispatching workflow", err)
		return
	}
	events.Dispatch.Result(plan.Chain.Repo, plan.Chain.Workflow, nil)
	m.showDispatchSuccess(plan)
	m.runPrompt = true
	m.runRepo = plan.Chain.Repo
	m.runWorkflow = plan.Chain.Workflow
	m.lastRunID = 0
}

func (m *Model) cancelDispatch() {
	m.planReady = false
	m.closePopup()
	events.Dispatch.Cancel()
	m.setOutput("Dispatch cancelled.")
}

// copyPreview copies the confirmed command line to the system clipboard.
// The popup stays open so the user can still dispatch or cancel.
func (m *Model) copyPreview() {
	if err := m.writeClipboard(m.plan.Preview); err != nil {
		m.reportError("Error copying to clipboard", err)
		return
	}
	events.Action.Success("copied dispatch preview")
	m.setOutput("Dispatch command copied to clipboard.")
}

// planPairs extracts the name=value pairs back out of a plan's argument
// vector, keeping the success summary reproducible from the plan alone.
func planPairs(plan dispatch.Plan) []string {
	pairs := make([]string, 0, len(plan.Args)/2)
	for i := 0; i < len(plan.Args)-1; i++ {
		if plan.Args[i] == "-f" {
			pairs = append(pairs, plan.Args[i+1])
			i++
		}
	}
	return pairs
}

func (m *Model) showDispatchSuccess(plan dispatch.Plan) {
	lines := []outputLine{
		{text: "✓ Workflow dispatched!", style: styles.Success},
		{},
		{text: "Command:", style: styles.FieldEditing},
		{text: "  " + plan.Preview, style: styles.FieldEditing},
	}
	if pairs := planPairs(plan); len(pairs) > 0 {
		lines = append(lines, outputLine{}, outputLine{text: "Inputs:", style: styles.Info})
		for _, pair := range pairs {
			lines = append(lines, outputLine{text: "  " + pair, style: styles.Item})
		}
	}
	lines = append(lines,
		outputLine{},
		outputLine{text: "Press 'l' to watch run logs, 'v' to open in browser, or any other key to continue.", style: styles.PanelTitleFocused},
	)
	m.output = ""
	m.outputErr = false
	m.outputLines = lines
}

// handleRunPromptKey consumes keys while the post-dispatch prompt is armed.
// 'l' keeps the prompt armed so the logs can be refreshed; everything else
// disarms it.
func (m *Model) handleRunPromptKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "l":
		m.watchRunLog()
	case "v":
		m.openRunInBrowser()
		m.runPrompt = false
	default:
		m.runPrompt = false
	}
	return nil
}

func (m *Model) watchRunLog() {
	runID, result, err := m.dispatcher.LatestRunLog(m.runRepo, m.runWorkflow)
	if err != nil {
		m.reportError("Error fetching logs", err)
		m.output += "\n\nPress 'l' to retry, 'v' to open in browser, or any other key to dismiss."
		return
	}
	m.lastRunID = runID
	events.Dispatch.RunFound(m.runRepo, runID)
	events.Dispatch.RunLog(m.runRepo, runID, strings.Count(result.Log, "\n")+1)
	m.setOutput(fmt.Sprintf(
		"Run #%d | status: %s | conclusion: %s\n%s\n\n%s\n\nPress 'l' to refresh logs, 'v' to open in browser, or any other key to dismiss.",
		runID, result.Status, result.Conclusion, strings.Repeat("─", 60), result.Log,
	))
}

func (m *Model) openRunInBrowser() {
	runID := m.lastRunID
	if runID == 0 {
		id, err := m.dispatcher.LatestRunID(m.runRepo, m.runWorkflow)
		if err != nil {
			m.reportError("Error opening browser", err)
			return
		}
		runID = id
		m.lastRunID = id
		events.Dispatch.RunFound(m.runRepo, id)
	}
	url := github.RunURL(m.runRepo, runID)
	if err := m.openURL(url); err != nil {
		m.reportError("Error opening browser", err)
		return
	}
	events.Action.Browse(url)
}

// openFocusedInBrowser opens the GitHub page for whatever the focus is on:
// the repo page, the branch tree, the workflow file, or the actions page.
func (m *Model) openFocusedInBrowser() {
	url, err := m.focusedURL()
	if err != nil {
		m.reportError("Error opening browser", err)
		return
	}
	if err := m.openURL(url); err != nil {
		m.reportError("Error opening browser", err)
		return
	}
	events.Action.Browse(url)
}

func (m *Model) focusedURL() (string, error) {
	repo, ok := m.repos.CurrentLabel()
	if !ok {
		return "", &dispatch.MissingSelectionError{Stage: dispatch.StageRepo}
	}
	switch m.focus {
	case state.FocusRepo:
		return github.RepoURL(repo), nil
	case state.FocusBranches:
		branch, ok := m.branches.CurrentLabel()
		if !ok {
			return "", &dispatch.MissingSelectionError{Stage: dispatch.StageBranch}
		}
		return github.BranchURL(repo, branch), nil
	case state.FocusWorkflows, state.FocusInputs:
		branch, ok := m.branches.CurrentLabel()
		if !ok {
			return "", &dispatch.MissingSelectionError{Stage: dispatch.StageBranch}
		}
		workflow, ok := m.workflows.CurrentLabel()
		if !ok {
			return "", &dispatch.MissingSelectionError{Stage: dispatch.StageWorkflow}
		}
		return github.WorkflowURL(repo, branch, workflow), nil
	default:
		return github.ActionsURL(repo), nil
	}
}

// addRepo validates a new repo against GitHub, persists it, and selects it.
// The validation fetch doubles as the first data load for the new repo.
func (m *Model) addRepo(owner, name string) {
	full := owner + "/" + name
	if m.cfg.RepoIndex(full) >= 0 {
		m.reportError("Error adding repo", fmt.Errorf("'%s' is already tracked", full))
		return
	}
	events.Action.FetchBegin("repo", full)
	branches, workflows, err := m.fetcher.RepoDetails(full)
	if err != nil {
		events.Action.FetchError("repo", full, err)
		m.reportError("Error adding repo", err)
		return
	}
	events.Action.FetchDone("repo", full, len(branches)+len(workflows))
	m.cfg.AddRepo(full)
	m.repos.SetLabels(m.cfg.Names())
	m.repos.SelectLabel(full)
	m.sync(m.repos)
	m.branches.SetLabels(branches)
	m.workflows.SetLabels(workflows)
	m.setInputFields(nil)
	m.sync(m.branches)
	m.sync(m.workflows)
	events.Action.RepoAdded(full)
	m.setOutput(fmt.Sprintf("Added repo '%s' with %d branches and %d workflows.", full, len(branches), len(workflows)))
	if err := m.persist(); err != nil {
		m.reportError("Error saving config", err)
	}
}

// persist writes the in-memory config document back through the store.
func (m *Model) persist() error {
	return m.config.Save(m.cfg)
}

// openReplays loads the saved replays for the selected repo into the popup.
func (m *Model) openReplays() {
	repo, ok := m.repos.CurrentLabel()
	if !ok {
		m.reportError("Error opening replays", &dispatch.MissingSelectionError{Stage: dispatch.StageRepo})
		return
	}
	replays := m.cfg.ReplaysFor(repo)
	if len(replays) == 0 {
		m.setOutput(fmt.Sprintf("No saved replays for '%s'.", repo))
		return
	}
	m.replays = replays
	m.replayList.SetLabels(replayLabels(replays))
	m.openPopup(state.PopupReplays)
}

func replayLabels(replays []store.Replay) []string {
	labels := make([]string, len(replays))
	for i, r := range replays {
		labels[i] = r.Workflow + "  ⟶  " + r.Description
	}
	return labels
}

// runReplay builds a plan from the saved workflow and inputs plus the
// currently selected branch, then swaps the popup for the confirmation.
// Saved values win over the live fields; matching fields are synced so the
// editor shows what is about to run.
func (m *Model) runReplay() {
	idx, ok := m.replayList.RealIndex()
	if !ok {
		return
	}
	replay := m.replays[idx]
	repo, _ := m.repos.CurrentLabel()
	branch, _ := m.branches.CurrentLabel()
	fields := make([]github.InputField, len(replay.Inputs))
	for i, in := range replay.Inputs {
		fields[i] = github.InputField{Name: in.Name, Value: in.Value}
	}
	plan, err := dispatch.Build(dispatch.Chain{Repo: repo, Branch: branch, Workflow: replay.Workflow}, fields)
	if err != nil {
		m.closePopup()
		events.Dispatch.Invalid(err)
		m.reportError("Error running replay", err)
		return
	}
	if workflow, ok := m.workflows.CurrentLabel(); ok && workflow == replay.Workflow {
		for _, in := range replay.Inputs {
			for j := range m.fields {
				if m.fields[j].Name == in.Name {
					m.fields[j].Value = in.Value
				}
			}
		}
	}
	m.plan = plan
	m.planReady = true
	events.Dispatch.ReplayRun(repo, replay.Workflow)
	events.Dispatch.Plan(repo, replay.Workflow, len(plan.Args))
	m.openPopup(state.PopupConfirm)
}

// deleteReplay removes the selected replay and persists the change. The
// popup closes when the last replay for the repo is gone.
func (m *Model) deleteReplay() {
	idx, ok := m.replayList.RealIndex()
	if !ok {
		return
	}
	repo, ok := m.repos.CurrentLabel()
	if !ok {
		return
	}
	removed := m.replays[idx]
	m.cfg.DeleteReplay(repo, idx)
	m.replays = m.cfg.ReplaysFor(repo)
	events.Dispatch.ReplayDeleted(repo, removed.Description)
	if err := m.persist(); err != nil {
		m.reportError("Error saving config", err)
	} else if len(m.replays) == 0 {
		m.setOutput(fmt.Sprintf("Deleted replay '%s'. No replays remaining.", removed.Description))
	} else {
		m.setOutput(fmt.Sprintf("Deleted replay '%s'.", removed.Description))
	}
	if len(m.replays) == 0 {
		m.closePopup()
		return
	}
	m.replayList.SetLabels(replayLabels(m.replays))
	if idx >= len(m.replays) {
		idx = len(m.replays) - 1
	}
	m.replayList.Select(idx)
}

// saveReplay captures the current non-empty input values as a replay for
// the selected repo. The description is generated from the saved pairs.
func (m *Model) saveReplay() {
	repo, ok := m.repos.CurrentLabel()
	if !ok {
		m.reportError("Error saving replay", &dispatch.MissingSelectionError{Stage: dispatch.StageRepo})
		return
	}
	workflow, ok := m.workflows.CurrentLabel()
	if !ok {
		m.reportError("Error saving replay", &dispatch.MissingSelectionError{Stage: dispatch.StageWorkflow})
		return
	}
	inputs := make([]store.ReplayInput, 0, len(m.fields))
	for _, f := range m.fields {
		if f.Value == "" {
			continue
		}
		inputs = append(inputs, store.ReplayInput{Name: f.Name, Value: f.Value})
	}
	if len(inputs) == 0 {
		m.reportError("Error saving replay", errors.New("no inputs with values to save"))
		return
	}
	parts := make([]string, len(inputs))
	for i, in := range inputs {
		parts[i] = in.Name + "=" + in.Value
	}
	replay := store.Replay{Workflow: workflow, Description: strings.Join(parts, ", "), Inputs: inputs}
	if m.cfg.RepoIndex(repo) < 0 {
		m.cfg.AddRepo(repo)
	}
	m.cfg.AddReplay(repo, replay)
	if err := m.persist(); err != nil {
		m.reportError("Error saving replay", err)
		return
	}
	events.Dispatch.ReplaySaved(repo, workflow, replay.Description)
	m.setOutput(fmt.Sprintf("✓ Replay saved for '%s' → %s\n  %s", repo, workflow, replay.Description))
}
