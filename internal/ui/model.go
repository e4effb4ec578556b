package ui

import (
	"fmt"
	"reflect"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/homelab-core/dispatchrr/internal/browser"
	"github.com/homelab-core/dispatchrr/internal/dispatch"
	"github.com/homelab-core/dispatchrr/internal/github"
	"github.com/homelab-core/dispatchrr/internal/logging/events"
	"github.com/homelab-core/dispatchrr/internal/store"
	"github.com/homelab-core/dispatchrr/internal/theme"
	"github.com/homelab-core/dispatchrr/internal/ui/state"
)

var styles = theme.Default()

// Fetcher loads repository data on demand. A failed call must leave the
// previously fetched collections untouched, so the model keeps showing
// stale-but-valid data.
type Fetcher interface {
	RepoDetails(repo string) (branches []string, workflows []string, err error)
	BranchWorkflows(repo, branch string) ([]string, error)
	WorkflowInputs(repo, branch, file string) ([]github.InputField, error)
}

// Dispatcher executes workflow dispatches and looks up the runs they create.
type Dispatcher interface {
	Dispatch(args []string) error
	LatestRunID(repo, workflow string) (int64, error)
	LatestRunLog(repo, workflow string) (int64, github.RunLogResult, error)
}

// ConfigStore persists the repo list and saved replays.
type ConfigStore interface {
	Load() store.Config
	Save(store.Config) error
}

type msgHandler func(tea.Msg) tea.Cmd

type keyHandler func(tea.KeyMsg) tea.Cmd

// outputLine is one styled row of the post-dispatch success block.
type outputLine struct {
	text  string
	style *lipgloss.Style
}

// Model implements the Bubble Tea model for the dispatch browser.
type Model struct {
	width  int
	height int

	focus state.Focus
	modal state.ModalStack

	repos     *state.Panel
	branches  *state.Panel
	workflows *state.Panel
	inputs    *state.Panel
	replayList *state.Panel

	// cfg is the persisted document; config writes it back after every
	// mutation.
	cfg     store.Config
	fields  []github.InputField
	replays []store.Replay

	output      string
	outputErr   bool
	outputLines []outputLine

	repoForm *addRepoForm
	editing  bool

	plan      dispatch.Plan
	planReady bool

	runPrompt   bool
	runRepo     string
	runWorkflow string
	lastRunID   int64

	fetcher    Fetcher
	dispatcher Dispatcher
	config     ConfigStore

	// openURL and writeClipboard are swapped for fakes in tests.
	openURL        func(string) error
	writeClipboard func(string) error

	handlers  map[reflect.Type]msgHandler
	popupKeys map[state.Popup]keyHandler
}

// NewModel builds the initial UI state from the persisted configuration.
// When preselect names a stored repo it is selected and its details are
// fetched immediately, as if the user had pressed Enter on it.
func NewModel(fetcher Fetcher, dispatcher Dispatcher, configStore ConfigStore, preselect string) *Model {
	m := &Model{
		repos:      state.NewPanel("repos", "Repos"),
		branches:   state.NewPanel("branches", "Branches"),
		workflows:  state.NewPanel("workflows", "Workflows"),
		inputs:     state.NewPanel("inputs", "Inputs"),
		replayList: state.NewPanel("replays", "Replays"),
		fetcher:    fetcher,
		dispatcher: dispatcher,
		config:     configStore,

		openURL:        browser.Open,
		writeClipboard: clipboard.WriteAll,
	}
	m.cfg = configStore.Load()
	m.repos.SetLabels(m.cfg.Names())
	if len(m.cfg.Repos) > 0 {
		m.setOutput("Ready to dispatch workflows.\n\nSelect a repo and press Enter to load branches.\nPress 'a' to add a new repo, '?' for all keybindings.")
	} else {
		m.setOutput("Welcome to dispatchrr!\n\nPress 'a' to add a repo, '?' for all keybindings.")
	}
	m.registerHandlers()
	m.registerPopupKeys()
	if preselect != "" {
		m.preselectRepo(preselect)
	}
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
	}
}

// registerPopupKeys builds the popup dispatch table. Keys reach exactly one
// handler: the active popup's entry, or the normal-mode path when no popup
// is open. Routing through the table is what enforces the rule that an open
// popup consumes every key press.
func (m *Model) registerPopupKeys() {
	m.popupKeys = map[state.Popup]keyHandler{
		state.PopupAddRepo: m.handleAddRepoKey,
		state.PopupInputs:  m.handleInputsKey,
		state.PopupConfirm: m.handleConfirmKey,
		state.PopupReplays: m.handleReplaysKey,
		state.PopupHelp:    m.handleHelpKey,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if handler, ok := m.popupKeys[m.modal.Active()]; ok {
		return handler(key)
	}
	if m.runPrompt {
		return m.handleRunPromptKey(key)
	}
	if p := m.focusedPanel(); p != nil && p.Searching {
		return m.handleSearchKey(key, p)
	}
	return m.handleNormalKey(key)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	m.width = resize.Width
	m.height = resize.Height
	events.UI.WindowSize(resize.Width, resize.Height)
	for _, p := range []*state.Panel{m.repos, m.branches, m.workflows, m.inputs} {
		p.EnsureVisible(m.panelRows(p))
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) panelFor(f state.Focus) *state.Panel {
	switch f {
	case state.FocusRepo:
		return m.repos
	case state.FocusBranches:
		return m.branches
	case state.FocusWorkflows:
		return m.workflows
	case state.FocusInputs:
		return m.inputs
	default:
		return nil
	}
}

func (m *Model) focusedPanel() *state.Panel {
	return m.panelFor(m.focus)
}

func (m *Model) setFocus(f state.Focus) {
	if f == m.focus {
		return
	}
	events.UI.Focus(m.focus.String(), f.String())
	m.focus = f
}

func (m *Model) openPopup(kind state.Popup) {
	prev := m.modal.Open(kind, m.focus)
	if prev != state.PopupNone {
		events.UI.PopupReplace(prev.String(), kind.String())
		return
	}
	events.UI.PopupOpen(kind.String())
}

func (m *Model) closePopup() {
	kind := m.modal.Active()
	focus, ok := m.modal.Close()
	if !ok {
		return
	}
	m.focus = focus
	events.UI.PopupClose(kind.String(), focus.String())
}

func (m *Model) setOutput(text string) {
	m.output = text
	m.outputErr = false
	m.outputLines = nil
}

// reportError renders a failed action into the Output panel. Core errors are
// always recovered here; they never terminate the program.
func (m *Model) reportError(prefix string, err error) {
	m.output = fmt.Sprintf("%s: %v", prefix, err)
	m.outputErr = true
	m.outputLines = nil
	events.Action.Error(err)
}

// sync re-clamps a panel's viewport after a cursor or filter change.
func (m *Model) sync(p *state.Panel) {
	p.EnsureVisible(m.panelRows(p))
}
