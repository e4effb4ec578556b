package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/homelab-core/dispatchrr/internal/github"
	"github.com/homelab-core/dispatchrr/internal/store"
	"github.com/homelab-core/dispatchrr/internal/ui/state"
)

func TestAddRepoFlow(t *testing.T) {
	m, _, _, st := newTestModel("octo/hello")
	h := newTestHarness(m)

	h.Send(keyRunes("a"))
	if m.modal.Active() != state.PopupAddRepo || m.repoForm == nil {
		t.Fatalf("expected add-repo popup with form")
	}

	h.Send(keyRunes("octo"))
	h.Send(tea.KeyMsg{Type: tea.KeyTab})
	h.Send(keyRunes("newrepo"))
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})

	if m.modal.Blocking() {
		t.Fatalf("expected popup closed after submit")
	}
	if m.repoForm != nil {
		t.Fatalf("expected form discarded")
	}
	if label, _ := m.repos.CurrentLabel(); label != "octo/newrepo" {
		t.Fatalf("expected new repo selected, got %q", label)
	}
	if m.branches.Total() != 2 {
		t.Fatalf("expected validation fetch to seed branches, got %d", m.branches.Total())
	}
	if st.cfg.RepoIndex("octo/newrepo") < 0 {
		t.Fatalf("expected new repo persisted")
	}
	if st.saves != 1 {
		t.Fatalf("expected one save, got %d", st.saves)
	}
	if m.output != "Added repo 'octo/newrepo' with 2 branches and 2 workflows." {
		t.Fatalf("unexpected output: %q", m.output)
	}
}

func TestAddRepoValidation(t *testing.T) {
	m, _, _, st := newTestModel("octo/hello")
	h := newTestHarness(m)

	h.Send(keyRunes("a"))
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if m.modal.Active() != state.PopupAddRepo {
		t.Fatalf("expected popup to stay open on empty submit")
	}
	if m.repoForm.Error() != "Both owner and repo fields are required." {
		t.Fatalf("unexpected error: %q", m.repoForm.Error())
	}

	h.Send(keyRunes("octo"))
	h.Send(tea.KeyMsg{Type: tea.KeyTab})
	h.Send(keyRunes("hello"))
	if m.repoForm.Error() != "'octo/hello' is already tracked." {
		t.Fatalf("expected duplicate flagged while typing, got %q", m.repoForm.Error())
	}
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if m.modal.Active() != state.PopupAddRepo {
		t.Fatalf("expected duplicate submit rejected")
	}

	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal.Blocking() || m.repoForm != nil {
		t.Fatalf("expected popup dismissed")
	}
	if st.saves != 0 {
		t.Fatalf("expected nothing persisted, got %d saves", st.saves)
	}
}

func dispatchFields() []github.InputField {
	return []github.InputField{
		{Name: "environment", Type: github.TypeChoice, Required: true, Default: "staging", Options: []string{"staging", "production"}, Value: "staging"},
		{Name: "version", Type: github.TypeString, Required: true},
		{Name: "dry-run", Type: github.TypeBoolean, Default: "false", Value: "false"},
	}
}

// newInputsModel drills repo, branch, and workflow so the inputs popup is
// open over the given fields.
func newInputsModel(t *testing.T, fields []github.InputField) (*Model, *Harness, *stubDispatcher, *memStore) {
	t.Helper()
	m, fetcher, dispatcher, st := newTestModel("octo/hello")
	fetcher.workflowInputs = func(string, string, string) ([]github.InputField, error) {
		out := make([]github.InputField, len(fields))
		copy(out, fields)
		return out, nil
	}
	h := newTestHarness(m)
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if m.modal.Active() != state.PopupInputs {
		t.Fatalf("expected inputs popup, got %v", m.modal.Active())
	}
	return m, h, dispatcher, st
}

func TestInputsPopupEditing(t *testing.T) {
	m, h, _, _ := newInputsModel(t, dispatchFields())
	if m.inputs.Cursor != 0 || m.editing {
		t.Fatalf("expected browse mode on first field, cursor %d editing %v", m.inputs.Cursor, m.editing)
	}

	h.Send(tea.KeyMsg{Type: tea.KeyTab})
	if m.fields[0].Value != "production" {
		t.Fatalf("expected choice cycled forward, got %q", m.fields[0].Value)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.fields[0].Value != "staging" {
		t.Fatalf("expected choice cycled back, got %q", m.fields[0].Value)
	}

	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.editing {
		t.Fatalf("expected edit mode")
	}
	h.Send(keyRunes("zz"))
	if m.fields[0].Value != "staging" {
		t.Fatalf("expected typing into a choice ignored, got %q", m.fields[0].Value)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if m.editing {
		t.Fatalf("expected esc to leave edit mode first")
	}
	if m.modal.Active() != state.PopupInputs {
		t.Fatalf("expected popup still open")
	}

	h.Send(keyRunes("j"))
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(keyRunes("1.2"))
	if m.fields[1].Value != "1.2" {
		t.Fatalf("expected typed value, got %q", m.fields[1].Value)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.fields[1].Value != "1." {
		t.Fatalf("expected backspace to trim, got %q", m.fields[1].Value)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if m.editing {
		t.Fatalf("expected enter to leave edit mode")
	}

	h.Send(keyRunes("j"))
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(tea.KeyMsg{Type: tea.KeySpace})
	if m.fields[2].Value != "true" {
		t.Fatalf("expected boolean toggled on, got %q", m.fields[2].Value)
	}
	h.Send(keyRunes("x"))
	if m.fields[2].Value != "false" {
		t.Fatalf("expected boolean toggled off, got %q", m.fields[2].Value)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.fields[2].Value != "false" {
		t.Fatalf("expected backspace on a boolean ignored, got %q", m.fields[2].Value)
	}

	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal.Blocking() {
		t.Fatalf("expected popup closed")
	}
}

func TestChoiceCycleFromUnknownValue(t *testing.T) {
	fields := dispatchFields()
	fields[0].Value = "custom"
	m, h, _, _ := newInputsModel(t, fields)

	h.Send(tea.KeyMsg{Type: tea.KeyTab})
	if m.fields[0].Value != "staging" {
		t.Fatalf("expected cycle to restart at the first option, got %q", m.fields[0].Value)
	}

	m.fields[0].Value = "custom"
	h.Send(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.fields[0].Value != "production" {
		t.Fatalf("expected backward cycle to land on the last option, got %q", m.fields[0].Value)
	}
}

func TestDispatchRejectsMissingRequiredInput(t *testing.T) {
	m, h, dispatcher, _ := newInputsModel(t, dispatchFields())

	h.Send(keyRunes("D"))
	if m.modal.Blocking() {
		t.Fatalf("expected popup closed on a build error")
	}
	if !m.outputErr || !strings.Contains(m.output, `required input "version" is empty`) {
		t.Fatalf("unexpected output: %q", m.output)
	}
	if len(dispatcher.dispatched) != 0 {
		t.Fatalf("expected nothing dispatched")
	}
}

func TestDispatchFromInputsPopup(t *testing.T) {
	m, h, dispatcher, _ := newInputsModel(t, dispatchFields())

	h.Send(keyRunes("j"))
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(keyRunes("1.2.3"))
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})

	h.Send(keyRunes("D"))
	if m.modal.Active() != state.PopupConfirm {
		t.Fatalf("expected confirm popup to replace inputs, got %v", m.modal.Active())
	}

	h.Send(keyRunes("y"))
	if m.modal.Blocking() {
		t.Fatalf("expected popup closed after dispatch")
	}
	if len(dispatcher.dispatched) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(dispatcher.dispatched))
	}
	want := []string{
		"workflow", "run", "ci.yml",
		"--repo", "octo/hello",
		"--ref", "main",
		"-f", "environment=staging",
		"-f", "version=1.2.3",
		"-f", "dry-run=false",
	}
	got := dispatcher.dispatched[0]
	if len(got) != len(want) {
		t.Fatalf("unexpected args: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("arg %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if !m.runPrompt {
		t.Fatalf("expected run prompt armed")
	}
	if len(m.outputLines) == 0 || m.outputLines[0].text != "✓ Workflow dispatched!" {
		t.Fatalf("expected success banner, got %+v", m.outputLines)
	}
}

func TestSaveReplayFromInputsPopup(t *testing.T) {
	m, h, _, st := newInputsModel(t, dispatchFields())

	h.Send(keyRunes("S"))
	replays := st.cfg.ReplaysFor("octo/hello")
	if len(replays) != 1 {
		t.Fatalf("expected one saved replay, got %d", len(replays))
	}
	if replays[0].Workflow != "ci.yml" {
		t.Fatalf("unexpected workflow: %q", replays[0].Workflow)
	}
	if replays[0].Description != "environment=staging, dry-run=false" {
		t.Fatalf("unexpected description: %q", replays[0].Description)
	}
	if !strings.HasPrefix(m.output, "✓ Replay saved for 'octo/hello'") {
		t.Fatalf("unexpected output: %q", m.output)
	}
	if m.modal.Active() != state.PopupInputs {
		t.Fatalf("expected inputs popup to stay open")
	}
}

func TestSaveReplayRequiresValues(t *testing.T) {
	fields := []github.InputField{{Name: "version", Type: github.TypeString}}
	m, h, _, st := newInputsModel(t, fields)

	h.Send(keyRunes("S"))
	if !m.outputErr || !strings.Contains(m.output, "no inputs with values to save") {
		t.Fatalf("unexpected output: %q", m.output)
	}
	if st.saves != 0 {
		t.Fatalf("expected nothing persisted")
	}
}

func TestConfirmCopyKeepsPopupOpen(t *testing.T) {
	m, _, _, _ := newTestModel("octo/hello")
	h := newTestHarness(m)
	var copied []string
	m.writeClipboard = func(text string) error {
		copied = append(copied, text)
		return nil
	}

	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if m.modal.Active() != state.PopupConfirm {
		t.Fatalf("expected confirm popup, got %v", m.modal.Active())
	}

	h.Send(keyRunes("c"))
	if len(copied) != 1 || copied[0] != m.plan.Preview {
		t.Fatalf("expected preview copied, got %v", copied)
	}
	if m.modal.Active() != state.PopupConfirm {
		t.Fatalf("expected popup to stay open after copy")
	}
	if m.output != "Dispatch command copied to clipboard." {
		t.Fatalf("unexpected output: %q", m.output)
	}

	h.Send(keyRunes("n"))
	if m.modal.Blocking() {
		t.Fatalf("expected popup closed")
	}
	if m.output != "Dispatch cancelled." {
		t.Fatalf("unexpected output: %q", m.output)
	}
	if m.planReady {
		t.Fatalf("expected plan discarded")
	}
}

func TestDispatchFailureReportsError(t *testing.T) {
	m, _, dispatcher, _ := newTestModel("octo/hello")
	h := newTestHarness(m)
	dispatcher.dispatchErr = &github.CommandError{Args: []string{"workflow", "run"}, Stderr: "HTTP 403"}

	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(keyRunes("y"))

	if !m.outputErr || !strings.Contains(m.output, "Error dispatching workflow") {
		t.Fatalf("unexpected output: %q", m.output)
	}
	if m.runPrompt {
		t.Fatalf("expected run prompt not armed on failure")
	}
	if m.modal.Blocking() {
		t.Fatalf("expected popup closed")
	}
}

// dispatchSuccessfully walks a no-input workflow through confirm so the run
// prompt is armed.
func dispatchSuccessfully(t *testing.T, m *Model, h *Harness) {
	t.Helper()
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	h.Send(keyRunes("y"))
	if !m.runPrompt {
		t.Fatalf("expected run prompt armed")
	}
}

func TestRunPromptWatchesLogs(t *testing.T) {
	m, _, dispatcher, _ := newTestModel("octo/hello")
	h := newTestHarness(m)
	dispatcher.runLog = github.RunLogResult{Status: "completed", Conclusion: "success", Log: "step one\nstep two"}
	dispatchSuccessfully(t, m, h)

	h.Send(keyRunes("l"))
	if !strings.Contains(m.output, "Run #42 | status: completed | conclusion: success") {
		t.Fatalf("unexpected output: %q", m.output)
	}
	if !strings.Contains(m.output, "step two") {
		t.Fatalf("expected log lines, got %q", m.output)
	}
	if !m.runPrompt {
		t.Fatalf("expected prompt to stay armed for log refresh")
	}
	if m.lastRunID != 42 {
		t.Fatalf("expected run id recorded, got %d", m.lastRunID)
	}

	var opened []string
	m.openURL = func(url string) error {
		opened = append(opened, url)
		return nil
	}
	h.Send(keyRunes("v"))
	if len(opened) != 1 || opened[0] != "https://github.com/octo/hello/actions/runs/42" {
		t.Fatalf("expected run page opened, got %v", opened)
	}
	if m.runPrompt {
		t.Fatalf("expected prompt disarmed after opening the browser")
	}
}

func TestRunPromptBrowserLooksUpRun(t *testing.T) {
	m, _, _, _ := newTestModel("octo/hello")
	h := newTestHarness(m)
	var opened []string
	m.openURL = func(url string) error {
		opened = append(opened, url)
		return nil
	}
	dispatchSuccessfully(t, m, h)

	h.Send(keyRunes("v"))
	if len(opened) != 1 || opened[0] != "https://github.com/octo/hello/actions/runs/42" {
		t.Fatalf("expected looked-up run page, got %v", opened)
	}
}

func TestRunPromptLogFailureKeepsPrompt(t *testing.T) {
	m, _, dispatcher, _ := newTestModel("octo/hello")
	h := newTestHarness(m)
	dispatchSuccessfully(t, m, h)
	dispatcher.runLogErr = &github.CommandError{Args: []string{"run", "list"}, Stderr: "no runs"}

	h.Send(keyRunes("l"))
	if !m.outputErr || !strings.Contains(m.output, "Error fetching logs") {
		t.Fatalf("unexpected output: %q", m.output)
	}
	if !strings.Contains(m.output, "Press 'l' to retry") {
		t.Fatalf("expected retry hint, got %q", m.output)
	}
	if !m.runPrompt {
		t.Fatalf("expected prompt to stay armed for retry")
	}
}

func TestRunPromptOtherKeyDismisses(t *testing.T) {
	m, _, _, _ := newTestModel("octo/hello")
	h := newTestHarness(m)
	dispatchSuccessfully(t, m, h)

	focusBefore := m.focus
	h.Send(tea.KeyMsg{Type: tea.KeyTab})
	if m.runPrompt {
		t.Fatalf("expected prompt disarmed")
	}
	if m.focus != focusBefore {
		t.Fatalf("expected dismissing key swallowed, focus moved to %v", m.focus)
	}

	h.Send(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus == focusBefore {
		t.Fatalf("expected focus cycling restored after dismissal")
	}
}

func newReplayModel(replays ...store.Replay) (*Model, *memStore) {
	fetcher := &stubFetcher{
		repoDetails: func(string) ([]string, []string, error) {
			return []string{"main", "dev"}, []string{"ci.yml", "deploy.yml"}, nil
		},
	}
	st := &memStore{}
	st.cfg.AddRepo("octo/hello")
	for _, r := range replays {
		st.cfg.AddReplay("octo/hello", r)
	}
	m := NewModel(fetcher, &stubDispatcher{runID: 7}, st, "")
	m.openURL = func(string) error { return nil }
	m.writeClipboard = func(string) error { return nil }
	return m, st
}

func TestReplaysOpenWithNoneSaved(t *testing.T) {
	m, _ := newReplayModel()
	h := newTestHarness(m)

	h.Send(keyRunes("r"))
	if m.modal.Blocking() {
		t.Fatalf("expected no popup")
	}
	if m.output != "No saved replays for 'octo/hello'." {
		t.Fatalf("unexpected output: %q", m.output)
	}
}

func TestReplayRunBuildsSavedPlan(t *testing.T) {
	m, _ := newReplayModel(store.Replay{
		Workflow:    "deploy.yml",
		Description: "tag=v1",
		Inputs:      []store.ReplayInput{{Name: "tag", Value: "v1"}},
	})
	h := newTestHarness(m)
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})

	h.Send(keyRunes("r"))
	if m.modal.Active() != state.PopupReplays {
		t.Fatalf("expected replays popup, got %v", m.modal.Active())
	}
	if label, _ := m.replayList.CurrentLabel(); label != "deploy.yml  ⟶  tag=v1" {
		t.Fatalf("unexpected replay label: %q", label)
	}

	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if m.modal.Active() != state.PopupConfirm {
		t.Fatalf("expected confirm popup, got %v", m.modal.Active())
	}
	if m.plan.Preview != "gh workflow run deploy.yml --repo octo/hello --ref main -f tag=v1" {
		t.Fatalf("unexpected preview: %q", m.plan.Preview)
	}
}

func TestReplayRunWithoutBranch(t *testing.T) {
	m, _ := newReplayModel(store.Replay{
		Workflow:    "deploy.yml",
		Description: "tag=v1",
		Inputs:      []store.ReplayInput{{Name: "tag", Value: "v1"}},
	})
	h := newTestHarness(m)

	h.Send(keyRunes("r"))
	h.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if m.modal.Blocking() {
		t.Fatalf("expected popup closed on build error")
	}
	if !m.outputErr || !strings.Contains(m.output, "no branch selected") {
		t.Fatalf("unexpected output: %q", m.output)
	}
}

func TestReplayDelete(t *testing.T) {
	m, st := newReplayModel(
		store.Replay{Workflow: "deploy.yml", Description: "tag=v1", Inputs: []store.ReplayInput{{Name: "tag", Value: "v1"}}},
		store.Replay{Workflow: "deploy.yml", Description: "tag=v2", Inputs: []store.ReplayInput{{Name: "tag", Value: "v2"}}},
	)
	h := newTestHarness(m)

	h.Send(keyRunes("r"))
	h.Send(keyRunes("d"))
	if m.output != "Deleted replay 'tag=v1'." {
		t.Fatalf("unexpected output: %q", m.output)
	}
	if m.modal.Active() != state.PopupReplays {
		t.Fatalf("expected popup open while replays remain")
	}
	if m.replayList.Total() != 1 {
		t.Fatalf("expected one replay listed, got %d", m.replayList.Total())
	}

	h.Send(keyRunes("d"))
	if m.output != "Deleted replay 'tag=v2'. No replays remaining." {
		t.Fatalf("unexpected output: %q", m.output)
	}
	if m.modal.Blocking() {
		t.Fatalf("expected popup closed after the last delete")
	}
	if len(st.cfg.ReplaysFor("octo/hello")) != 0 {
		t.Fatalf("expected replays removed from config")
	}
	if st.saves != 2 {
		t.Fatalf("expected each delete persisted, got %d saves", st.saves)
	}
}

func TestHelpPopupClosesOnAnyKey(t *testing.T) {
	m, _, _, _ := newTestModel("octo/hello")
	h := newTestHarness(m)

	h.Send(keyRunes("?"))
	if m.modal.Active() != state.PopupHelp {
		t.Fatalf("expected help popup, got %v", m.modal.Active())
	}
	h.Send(keyRunes("x"))
	if m.modal.Blocking() {
		t.Fatalf("expected help closed")
	}
	if m.focus != state.FocusRepo {
		t.Fatalf("expected focus restored, got %v", m.focus)
	}
}
