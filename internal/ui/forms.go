package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/homelab-core/dispatchrr/internal/ui/state"
)

// addRepoForm holds the owner and name fields of the add-repo popup. Only
// the focused input receives text; Tab moves between the two.
type addRepoForm struct {
	owner      textinput.Model
	name       textinput.Model
	focusOwner bool
	existing   map[string]struct{}
	err        string
}

func newAddRepoForm(tracked []string) *addRepoForm {
	owner := textinput.New()
	owner.Prompt = "Owner: "
	owner.Placeholder = "owner"
	owner.CharLimit = 64
	owner.Focus()
	name := textinput.New()
	name.Prompt = "Repo:  "
	name.Placeholder = "repo-name"
	name.CharLimit = 64
	existing := make(map[string]struct{}, len(tracked))
	for _, repo := range tracked {
		trim := strings.ToLower(strings.TrimSpace(repo))
		if trim == "" {
			continue
		}
		existing[trim] = struct{}{}
	}
	return &addRepoForm{owner: owner, name: name, focusOwner: true, existing: existing}
}

func (f *addRepoForm) Values() (string, string) {
	return strings.TrimSpace(f.owner.Value()), strings.TrimSpace(f.name.Value())
}

func (f *addRepoForm) OwnerView() string { return f.owner.View() }
func (f *addRepoForm) NameView() string  { return f.name.View() }
func (f *addRepoForm) Error() string     { return f.err }

func (f *addRepoForm) focused() *textinput.Model {
	if f.focusOwner {
		return &f.owner
	}
	return &f.name
}

func (f *addRepoForm) toggleFocus() tea.Cmd {
	f.focusOwner = !f.focusOwner
	if f.focusOwner {
		f.name.Blur()
		return f.owner.Focus()
	}
	f.owner.Blur()
	return f.name.Focus()
}

// Update feeds a message to the form. The booleans report submission and
// cancellation; on submission both fields are non-empty and not already
// tracked.
func (f *addRepoForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		switch m.String() {
		case "ctrl+u":
			if f.focused().Value() != "" {
				f.focused().SetValue("")
				f.focused().CursorStart()
				f.err = f.validate()
			}
			return nil, false, false
		}
		switch m.Type {
		case tea.KeyEsc:
			return nil, false, true
		case tea.KeyTab, tea.KeyShiftTab:
			return f.toggleFocus(), false, false
		case tea.KeyEnter:
			owner, name := f.Values()
			if owner == "" || name == "" {
				f.err = "Both owner and repo fields are required."
				return nil, false, false
			}
			if err := f.validate(); err != "" {
				f.err = err
				return nil, false, false
			}
			f.err = ""
			return nil, true, false
		}
	}

	var cmd tea.Cmd
	if f.focusOwner {
		f.owner, cmd = f.owner.Update(msg)
	} else {
		f.name, cmd = f.name.Update(msg)
	}
	f.err = f.validate()
	return cmd, false, false
}

func (f *addRepoForm) validate() string {
	owner, name := f.Values()
	if owner == "" || name == "" {
		return ""
	}
	if _, ok := f.existing[strings.ToLower(owner+"/"+name)]; ok {
		return fmt.Sprintf("'%s/%s' is already tracked.", owner, name)
	}
	return ""
}

func (m *Model) startAddRepoForm() tea.Cmd {
	m.repoForm = newAddRepoForm(m.cfg.Names())
	m.openPopup(state.PopupAddRepo)
	return textinput.Blink
}
