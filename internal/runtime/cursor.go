package runtime

// SelectionCursor tracks the highlighted option of a branch menu.
// Indexes are 1-based and wrap around in both directions.
type SelectionCursor struct {
	selected int
	count    int
}

// Reset points the cursor at the first of count options.
func (c *SelectionCursor) Reset(count int) {
	if count < 0 {
		count = 0
	}
	c.count = count
	c.selected = 1
}

// MoveUp selects the previous option, wrapping from the first to the last.
func (c *SelectionCursor) MoveUp() {
	if c.count == 0 {
		return
	}
	if c.selected <= 1 {
		c.selected = c.count
		return
	}
	c.selected--
}

// MoveDown selects the next option, wrapping from the last to the first.
func (c *SelectionCursor) MoveDown() {
	if c.count == 0 {
		return
	}
	if c.selected >= c.count {
		c.selected = 1
		return
	}
	c.selected++
}

// Selected returns the 1-based highlighted option.
func (c *SelectionCursor) Selected() int {
	return c.selected
}

// Count returns the number of options.
func (c *SelectionCursor) Count() int {
	return c.count
}

// Valid reports whether the selection lies within [1, count].
func (c *SelectionCursor) Valid() bool {
	return c.count > 0 && c.selected >= 1 && c.selected <= c.count
}
