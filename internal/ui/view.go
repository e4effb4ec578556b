package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/homelab-core/dispatchrr/internal/format/table"
	"github.com/homelab-core/dispatchrr/internal/ui/state"
)

const bottomBarText = "Tab: focus | j/k: nav | /: search | r: replays | ?: help | q: quit"

// Panel borders are drawn by hand so the title can sit inside the top rule.
var (
	panelBorder        = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	panelBorderFocused = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	panelScrollInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
}

// View implements tea.Model. An active popup takes over the frame; the
// panels behind it are not composited.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if popup := m.modal.Active(); popup != state.PopupNone {
		return m.viewPopup(popup)
	}

	title := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, styles.Title.Render("dispatchrr"))

	heights := m.listHeights()
	leftW := m.leftWidth()
	rightW := m.width - leftW
	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderListPanel(m.repos, state.FocusRepo, leftW, heights[0]),
		m.renderListPanel(m.branches, state.FocusBranches, leftW, heights[1]),
		m.renderListPanel(m.workflows, state.FocusWorkflows, leftW, heights[2]),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderInputsPanel(rightW, m.inputsHeight()),
		m.renderOutputPanel(rightW, m.outputHeight()),
	)
	main := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	bottom := styles.Muted.Render(truncateText(bottomBarText, m.width))
	return title + "\n" + main + "\n" + bottom
}

func (m *Model) leftWidth() int {
	return m.width / 4
}

// listHeights splits the content rows across the three stacked lists.
func (m *Model) listHeights() [3]int {
	h := m.height - 2
	a := h * 33 / 100
	b := h * 33 / 100
	return [3]int{a, b, h - a - b}
}

func (m *Model) inputsHeight() int {
	return (m.height - 2) * 30 / 100
}

func (m *Model) outputHeight() int {
	return m.height - 2 - m.inputsHeight()
}

// panelRows reports how many body rows a panel's box has on screen, which
// is the viewport size for cursor paging and scroll clamping.
func (m *Model) panelRows(p *state.Panel) int {
	if m.height <= 0 {
		return 0
	}
	rows := 0
	switch p {
	case m.repos:
		rows = m.listHeights()[0] - 2
	case m.branches:
		rows = m.listHeights()[1] - 2
	case m.workflows:
		rows = m.listHeights()[2] - 2
	case m.inputs:
		rows = m.inputsHeight() - 2
	case m.replayList:
		rows = m.height - 8
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// panelTitle renders the search query into the title while a search is
// live, and the match count while a committed filter narrows the list.
func panelTitle(p *state.Panel) string {
	if p.Searching {
		return fmt.Sprintf("%s /%s█", p.Title, p.Query)
	}
	if p.Len() < p.Total() {
		return fmt.Sprintf("%s [%d/%d]", p.Title, p.Len(), p.Total())
	}
	return p.Title
}

func (m *Model) renderListPanel(p *state.Panel, focus state.Focus, width, height int) string {
	innerH := height - 2
	if innerH < 1 {
		innerH = 1
	}
	p.EnsureVisible(innerH)

	innerW := width - 2
	rows := make([]string, 0, innerH)
	start := p.ViewportOffset
	end := start + innerH
	if end > p.Len() {
		end = p.Len()
	}
	for i := start; i < end; i++ {
		label, _ := labelAt(p, i)
		rows = append(rows, renderLine(buildItemLine(label, i == p.Cursor, innerW)))
	}
	scrollInfo := ""
	if p.Len() > innerH {
		scrollInfo = fmt.Sprintf(" %d/%d ", end, p.Len())
	}
	return renderPanel(panelTitle(p), scrollInfo, rows, width, height, m.focus == focus, p.Searching)
}

func labelAt(p *state.Panel, pos int) (string, bool) {
	if pos < 0 || pos >= len(p.Filtered) {
		return "", false
	}
	real := p.Filtered[pos]
	if real < 0 || real >= len(p.Labels) {
		return "", false
	}
	return p.Labels[real], true
}

// renderInputsPanel shows the loaded dispatch inputs as an aligned table of
// name, type, and staged value.
func (m *Model) renderInputsPanel(width, height int) string {
	innerH := height - 2
	if innerH < 1 {
		innerH = 1
	}
	m.inputs.EnsureVisible(innerH)

	innerW := width - 2
	title := m.inputs.Title
	if len(m.fields) > 0 {
		title = fmt.Sprintf("%s [%d]", m.inputs.Title, len(m.fields))
	}

	rows := make([]string, 0, innerH)
	if len(m.fields) == 0 {
		rows = append(rows, styles.Muted.Render(" no inputs loaded"))
	} else {
		cells := make([][]string, len(m.fields))
		for i, f := range m.fields {
			name := f.Name
			if f.Required {
				name += " *"
			}
			cells[i] = []string{name, f.Type.String(), f.Value}
		}
		formatted := table.Format(cells, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignLeft})
		start := m.inputs.ViewportOffset
		end := start + innerH
		if end > len(formatted) {
			end = len(formatted)
		}
		for i := start; i < end; i++ {
			rows = append(rows, renderLine(buildItemLine(formatted[i], i == m.inputs.Cursor, innerW)))
		}
	}
	return renderPanel(title, "", rows, width, height, m.focus == state.FocusInputs, false)
}

func (m *Model) renderOutputPanel(width, height int) string {
	body := m.outputBody()
	innerH := height - 2
	if innerH < 1 {
		innerH = 1
	}
	if len(body) > innerH {
		body = body[:innerH]
	}
	return renderPanel("Output", "", body, width, height, m.focus == state.FocusOutput, false)
}

func (m *Model) outputBody() []string {
	if len(m.outputLines) > 0 {
		out := make([]string, len(m.outputLines))
		for i, line := range m.outputLines {
			if line.style != nil {
				out[i] = line.style.Render(line.text)
			} else {
				out[i] = line.text
			}
		}
		return out
	}
	if strings.TrimSpace(m.output) == "" {
		return []string{styles.Muted.Render("No output yet.")}
	}
	style := styles.Info
	if m.outputErr {
		style = styles.Error
	}
	lines := strings.Split(m.output, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = style.Render(line)
	}
	return out
}

func buildItemLine(label string, selected bool, width int) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	if selected {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	fullText := indicator + " " + label
	if width > 0 {
		if pad := width - len([]rune(fullText)); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1, // just the ▌ character
	}
}

func renderLine(line styledLine) string {
	text := line.text
	runes := []rune(text)
	if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
		head := string(runes[:line.highlightFrom])
		tail := string(runes[line.highlightFrom:])
		if line.prefixStyle != nil {
			head = line.prefixStyle.Render(head)
		}
		if line.style != nil {
			tail = line.style.Render(tail)
		}
		return head + tail
	}
	if line.style != nil {
		return line.style.Render(text)
	}
	return text
}

// renderPanel draws a bordered box with the title embedded in the top rule:
// ╭─ title ───── scroll ─╮. Rows are styled strings; each is truncated and
// padded to the inner width with ANSI-aware measurement.
func renderPanel(title, scrollInfo string, rows []string, width, height int, focused, searching bool) string {
	const (
		tlc = "╭"
		trc = "╮"
		blc = "╰"
		brc = "╯"
		hz  = "─"
		vt  = "│"
	)

	innerW := width - 2
	innerH := height - 2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}

	border := panelBorder
	titleStyle := styles.PanelTitle
	if focused {
		border = panelBorderFocused
		titleStyle = styles.PanelTitleFocused
	}
	if searching {
		titleStyle = styles.FilterPrompt
	}

	titleSeg := " " + title + " "
	scrollSeg := scrollInfo
	dashes := width - 4 - len([]rune(titleSeg)) - len([]rune(scrollSeg))
	if dashes < 0 {
		scrollSeg = ""
		dashes = width - 4 - len([]rune(titleSeg))
	}
	if dashes < 0 {
		titleSeg = " … "
		dashes = width - 4 - len([]rune(titleSeg))
	}
	if dashes < 0 {
		dashes = 0
	}
	top := border.Render(tlc+hz) +
		titleStyle.Render(titleSeg) +
		border.Render(strings.Repeat(hz, dashes)) +
		panelScrollInfo.Render(scrollSeg) +
		border.Render(hz + trc)
	bottom := border.Render(blc + strings.Repeat(hz, innerW) + brc)

	out := make([]string, 0, height)
	out = append(out, top)
	for i := 0; i < innerH; i++ {
		var content string
		if i < len(rows) {
			content = rows[i]
		}
		w := lipgloss.Width(content)
		if w > innerW {
			content = truncate.StringWithTail(content, uint(innerW-1), "…")
			w = lipgloss.Width(content)
		}
		if w < innerW {
			content += strings.Repeat(" ", innerW-w)
		}
		out = append(out, border.Render(vt)+content+border.Render(vt))
	}
	out = append(out, bottom)
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
