// Package state hosts the panel state the UI is built from: filtered views
// over immutable label collections, cursors into those views, the focus
// ring, and the popup stack.
package state

import "unicode"

// Panel tracks one collection's view state: the source labels, the filtered
// view derived from the current query, and the cursor within that view. The
// cursor is a position in the filtered view; -1 means no selection, which is
// the case exactly when the view is empty.
type Panel struct {
	Name           string
	Title          string
	Labels         []string
	Filtered       []int
	Cursor         int
	Query          string
	Searching      bool
	ViewportOffset int

	savedQuery string
	savedReal  int
}

// NewPanel constructs an empty panel.
func NewPanel(name, title string) *Panel {
	return &Panel{Name: name, Title: title, Cursor: -1, savedReal: -1}
}

// SetLabels replaces the source collection wholesale. Any query is
// discarded, the view resets to identity order, and the cursor moves to the
// first entry (or none when the collection is empty).
func (p *Panel) SetLabels(labels []string) {
	p.Labels = append([]string(nil), labels...)
	p.Query = ""
	p.Searching = false
	p.savedQuery = ""
	p.savedReal = -1
	p.Filtered = Apply("", p.Labels)
	p.ViewportOffset = 0
	if len(p.Filtered) == 0 {
		p.Cursor = -1
		return
	}
	p.Cursor = 0
}

// SetQuery rebuilds the filtered view for query. The selection is stable
// under requerying: when the previously selected entry survives the new
// filter it stays selected, otherwise the cursor falls back to the first
// match or to none.
func (p *Panel) SetQuery(query string) {
	prevReal, hadReal := p.RealIndex()
	p.Query = query
	p.Filtered = Apply(query, p.Labels)
	if len(p.Filtered) == 0 {
		p.Cursor = -1
		p.ViewportOffset = 0
		return
	}
	if hadReal && p.SelectReal(prevReal) {
		return
	}
	p.Cursor = 0
	if p.ViewportOffset > len(p.Filtered)-1 {
		p.ViewportOffset = 0
	}
}

// BeginSearch enters query entry, remembering the state to restore on
// cancel.
func (p *Panel) BeginSearch() {
	if p.Searching {
		return
	}
	p.Searching = true
	p.savedQuery = p.Query
	if real, ok := p.RealIndex(); ok {
		p.savedReal = real
	} else {
		p.savedReal = -1
	}
}

// CommitSearch keeps the current query and leaves entry mode.
func (p *Panel) CommitSearch() {
	p.Searching = false
	p.savedQuery = ""
	p.savedReal = -1
}

// CancelSearch leaves entry mode and restores the query and selection from
// when the search began.
func (p *Panel) CancelSearch() {
	if !p.Searching {
		return
	}
	p.Searching = false
	p.SetQuery(p.savedQuery)
	if p.savedReal >= 0 {
		p.SelectReal(p.savedReal)
	}
	p.savedQuery = ""
	p.savedReal = -1
}

// ClearQuery drops a committed filter outside of search entry.
func (p *Panel) ClearQuery() bool {
	if p.Query == "" {
		return false
	}
	p.SetQuery("")
	return true
}

// InsertQueryText appends text to the query.
func (p *Panel) InsertQueryText(text string) bool {
	if text == "" {
		return false
	}
	p.SetQuery(p.Query + text)
	return true
}

// DeleteQueryRuneBackward removes the last query rune.
func (p *Panel) DeleteQueryRuneBackward() bool {
	runes := []rune(p.Query)
	if len(runes) == 0 {
		return false
	}
	p.SetQuery(string(runes[:len(runes)-1]))
	return true
}

// DeleteQueryWordBackward removes the trailing query word.
func (p *Panel) DeleteQueryWordBackward() bool {
	runes := []rune(p.Query)
	if len(runes) == 0 {
		return false
	}
	i := len(runes)
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	p.SetQuery(string(runes[:i]))
	return true
}

// Len is the filtered view's length.
func (p *Panel) Len() int { return len(p.Filtered) }

// Total is the source collection's length.
func (p *Panel) Total() int { return len(p.Labels) }

// Current returns the cursor position within the filtered view.
func (p *Panel) Current() (int, bool) {
	if p.Cursor < 0 || p.Cursor >= len(p.Filtered) {
		return 0, false
	}
	return p.Cursor, true
}

// RealIndex maps the cursor through the filtered view into the source
// collection.
func (p *Panel) RealIndex() (int, bool) {
	pos, ok := p.Current()
	if !ok {
		return 0, false
	}
	return p.Filtered[pos], true
}

// CurrentLabel returns the selected entry's label.
func (p *Panel) CurrentLabel() (string, bool) {
	real, ok := p.RealIndex()
	if !ok {
		return "", false
	}
	return p.Labels[real], true
}

// Select moves the cursor to a filtered position when it is in bounds.
func (p *Panel) Select(pos int) bool {
	if pos < 0 || pos >= len(p.Filtered) {
		return false
	}
	p.Cursor = pos
	return true
}

// SelectReal positions the cursor on the filtered entry showing the given
// source index, when the filter admits it.
func (p *Panel) SelectReal(real int) bool {
	for pos, idx := range p.Filtered {
		if idx == real {
			p.Cursor = pos
			return true
		}
	}
	return false
}

// SelectLabel positions the cursor on the entry with the given label.
func (p *Panel) SelectLabel(label string) bool {
	for real, l := range p.Labels {
		if l == label {
			return p.SelectReal(real)
		}
	}
	return false
}
