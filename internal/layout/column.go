package layout

// MinColumnWidth is the minimum width, in pixels, a column is ever allowed
// to take. Widths below this are clamped up on construction and on every
// setter.
const MinColumnWidth = 100

// Column is an ordered vertical stack of one or more windows sharing a
// single width. A Column with zero windows is transient: Workspace removes
// it as soon as its last window leaves.
type Column struct {
	width   int
	windows []WindowID
}

// NewColumn creates a column containing a single window, clamping width to
// MinColumnWidth.
func NewColumn(id WindowID, width int) *Column {
	return &Column{width: clampColumnWidth(width), windows: []WindowID{id}}
}

// NewEmptyColumn creates a column with no windows, clamping width to
// MinColumnWidth.
func NewEmptyColumn(width int) *Column {
	return &Column{width: clampColumnWidth(width), windows: nil}
}

func clampColumnWidth(width int) int {
	if width < MinColumnWidth {
		return MinColumnWidth
	}
	return width
}

// Width returns the column's pixel width.
func (c *Column) Width() int { return c.width }

// SetWidth sets the column's pixel width, clamping to MinColumnWidth.
func (c *Column) SetWidth(width int) { c.width = clampColumnWidth(width) }

// IsEmpty reports whether the column holds no windows.
func (c *Column) IsEmpty() bool { return len(c.windows) == 0 }

// Len returns the number of windows stacked in the column.
func (c *Column) Len() int { return len(c.windows) }

// Windows returns the column's windows, top to bottom. The returned slice
// must not be mutated by the caller.
func (c *Column) Windows() []WindowID { return c.windows }

// Push appends a window to the bottom of the stack.
func (c *Column) Push(id WindowID) {
	c.windows = append(c.windows, id)
}

// InsertAt inserts a window at the given stack position, clamping the
// position into [0, Len()].
func (c *Column) InsertAt(id WindowID, index int) {
	if index < 0 {
		index = 0
	}
	if index > len(c.windows) {
		index = len(c.windows)
	}
	c.windows = append(c.windows, 0)
	copy(c.windows[index+1:], c.windows[index:])
	c.windows[index] = id
}

// Remove removes id from the column. It returns the removed window's former
// index and true, or (-1, false) if id is not present.
func (c *Column) Remove(id WindowID) (int, bool) {
	for i, w := range c.windows {
		if w == id {
			c.windows = append(c.windows[:i], c.windows[i+1:]...)
			return i, true
		}
	}
	return -1, false
}

// Contains reports whether id is stacked in the column.
func (c *Column) Contains(id WindowID) bool {
	for _, w := range c.windows {
		if w == id {
			return true
		}
	}
	return false
}

// At returns the window at the given stack index, or (0, false) if out of
// range.
func (c *Column) At(index int) (WindowID, bool) {
	if index < 0 || index >= len(c.windows) {
		return 0, false
	}
	return c.windows[index], true
}

// Swap exchanges the windows at positions i and j.
func (c *Column) Swap(i, j int) {
	c.windows[i], c.windows[j] = c.windows[j], c.windows[i]
}

// clone returns a deep copy of the column for snapshot/query use.
func (c *Column) clone() *Column {
	cp := &Column{width: c.width}
	if c.windows != nil {
		cp.windows = append([]WindowID(nil), c.windows...)
	}
	return cp
}
