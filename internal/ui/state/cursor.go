package state

// Next advances the cursor, wrapping past the end of the filtered view. An
// empty view keeps the cursor at none.
func (p *Panel) Next() bool {
	n := len(p.Filtered)
	if n == 0 {
		p.Cursor = -1
		return false
	}
	if p.Cursor < 0 {
		p.Cursor = 0
		return true
	}
	p.Cursor = (p.Cursor + 1) % n
	return true
}

// Prev moves the cursor back, wrapping before the start.
func (p *Panel) Prev() bool {
	n := len(p.Filtered)
	if n == 0 {
		p.Cursor = -1
		return false
	}
	if p.Cursor < 0 {
		p.Cursor = 0
		return true
	}
	p.Cursor = (p.Cursor + n - 1) % n
	return true
}

// MoveHome moves the cursor to the first entry.
func (p *Panel) MoveHome() bool {
	if len(p.Filtered) == 0 {
		p.Cursor = -1
		return false
	}
	old := p.Cursor
	p.Cursor = 0
	return old != p.Cursor
}

// MoveEnd moves the cursor to the last entry.
func (p *Panel) MoveEnd() bool {
	n := len(p.Filtered)
	if n == 0 {
		p.Cursor = -1
		return false
	}
	old := p.Cursor
	p.Cursor = n - 1
	return old != p.Cursor
}

// MovePageUp moves the cursor up by the given page size without wrapping.
func (p *Panel) MovePageUp(maxVisible int) bool {
	return p.moveBy(-p.pageSize(maxVisible))
}

// MovePageDown moves the cursor down by the given page size without
// wrapping.
func (p *Panel) MovePageDown(maxVisible int) bool {
	return p.moveBy(p.pageSize(maxVisible))
}

func (p *Panel) moveBy(delta int) bool {
	n := len(p.Filtered)
	if n == 0 {
		p.Cursor = -1
		return false
	}
	old := p.Cursor
	if p.Cursor < 0 {
		p.Cursor = 0
	}
	p.Cursor += delta
	if p.Cursor < 0 {
		p.Cursor = 0
	}
	if p.Cursor >= n {
		p.Cursor = n - 1
	}
	return p.Cursor != old
}

func (p *Panel) pageSize(maxVisible int) int {
	total := len(p.Filtered)
	if total == 0 {
		return 0
	}
	size := maxVisible
	if size <= 0 || size > total {
		size = total
	}
	if size < 1 {
		size = 1
	}
	return size
}

// EnsureVisible adjusts the viewport offset so the cursor stays on screen.
func (p *Panel) EnsureVisible(maxVisible int) {
	n := len(p.Filtered)
	if n == 0 {
		p.Cursor = -1
		p.ViewportOffset = 0
		return
	}
	if p.Cursor >= n {
		p.Cursor = n - 1
	}
	if maxVisible <= 0 {
		p.ViewportOffset = 0
		return
	}
	maxOffset := n - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if p.ViewportOffset > maxOffset {
		p.ViewportOffset = maxOffset
	}
	if p.ViewportOffset < 0 {
		p.ViewportOffset = 0
	}
	if p.Cursor < 0 {
		return
	}
	if p.Cursor < p.ViewportOffset {
		p.ViewportOffset = p.Cursor
	}
	upper := p.ViewportOffset + maxVisible - 1
	if p.Cursor > upper {
		p.ViewportOffset = p.Cursor - maxVisible + 1
		if p.ViewportOffset < 0 {
			p.ViewportOffset = 0
		}
		if p.ViewportOffset > maxOffset {
			p.ViewportOffset = maxOffset
		}
	}
}
