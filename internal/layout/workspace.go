package layout

import (
	"sort"
	"time"
)

// Default tuning constants, applied by NewWorkspace and overridable via the
// Set* methods below.
const (
	DefaultGap         = 10
	DefaultOuterGap    = 10
	DefaultColumnWidth = 800
)

// CenteringMode controls how Workspace adjusts scroll_offset when the
// focused column changes.
type CenteringMode int

const (
	// CenterMode keeps the focused column horizontally centered in the
	// viewport whenever visibility is (re)established.
	CenterMode CenteringMode = iota
	// JustInViewMode only scrolls when the focused column would otherwise
	// fall (even partially) outside the viewport, panning the minimum
	// distance needed to bring the nearest edge into view.
	JustInViewMode
)

// Placement is a computed position for a single managed window, along with
// whether it currently falls inside the viewport.
type Placement struct {
	WindowID    WindowID
	Rect        Rect
	Visible     bool
	ColumnIndex int // -1 for floating windows
}

// Workspace is the per-monitor tiling state: an ordered sequence of columns
// on an infinite horizontal strip, a floating-window overlay set, and the
// viewport scroll offset. All fields are private; the zero value is not
// valid, use NewWorkspace.
type Workspace struct {
	columns               []*Column
	focusedColumn         int
	focusedWindowInColumn int
	scrollOffset          float64

	gap                int
	outerGap           int
	defaultColumnWidth int
	centeringMode      CenteringMode

	floatingWindows map[WindowID]Rect

	activeAnimation *animation
}

// NewWorkspace creates an empty workspace with default gaps, column width,
// and centering mode.
func NewWorkspace() *Workspace {
	return &Workspace{
		gap:                DefaultGap,
		outerGap:           DefaultOuterGap,
		defaultColumnWidth: DefaultColumnWidth,
		centeringMode:      CenterMode,
		floatingWindows:    make(map[WindowID]Rect),
	}
}

// NewWorkspaceWithGaps creates an empty workspace with the given gap and
// outer gap, clamped to >= 0.
func NewWorkspaceWithGaps(gap, outerGap int) *Workspace {
	w := NewWorkspace()
	w.SetGap(gap)
	w.SetOuterGap(outerGap)
	return w
}

// IsEmpty reports whether the workspace has no tiled columns. Floating
// windows do not count.
func (w *Workspace) IsEmpty() bool { return len(w.columns) == 0 }

// ColumnCount returns the number of columns currently on the strip.
func (w *Workspace) ColumnCount() int { return len(w.columns) }

// Columns returns the workspace's columns, leftmost first. The slice and
// its elements must not be mutated by the caller.
func (w *Workspace) Columns() []*Column { return w.columns }

// Column returns the column at index, or nil if out of range.
func (w *Workspace) Column(index int) *Column {
	if index < 0 || index >= len(w.columns) {
		return nil
	}
	return w.columns[index]
}

// FocusedColumnIndex returns the index of the focused column.
func (w *Workspace) FocusedColumnIndex() int { return w.focusedColumn }

// FocusedWindowIndexInColumn returns the focused window's stack index
// within its column.
func (w *Workspace) FocusedWindowIndexInColumn() int { return w.focusedWindowInColumn }

// FocusedWindow returns the currently focused window, or (0, false) if the
// workspace is empty.
func (w *Workspace) FocusedWindow() (WindowID, bool) {
	col := w.Column(w.focusedColumn)
	if col == nil {
		return 0, false
	}
	return col.At(w.focusedWindowInColumn)
}

// ContainsWindow reports whether id is tiled or floating in this workspace.
func (w *Workspace) ContainsWindow(id WindowID) bool {
	if _, ok := w.floatingWindows[id]; ok {
		return true
	}
	for _, c := range w.columns {
		if c.Contains(id) {
			return true
		}
	}
	return false
}

// WindowCount returns the total number of tiled windows (floating windows
// are not counted).
func (w *Workspace) WindowCount() int {
	n := 0
	for _, c := range w.columns {
		n += c.Len()
	}
	return n
}

// AllWindowIDs returns every tiled window id, column-major, top to bottom.
func (w *Workspace) AllWindowIDs() []WindowID {
	var ids []WindowID
	for _, c := range w.columns {
		ids = append(ids, c.Windows()...)
	}
	return ids
}

// FindWindowLocation returns the column and in-column index of id, or
// (0, 0, false) if id is not tiled.
func (w *Workspace) FindWindowLocation(id WindowID) (column, windowIndex int, ok bool) {
	for ci, c := range w.columns {
		for wi, win := range c.Windows() {
			if win == id {
				return ci, wi, true
			}
		}
	}
	return 0, 0, false
}

// Gap returns the pixel gap between adjacent columns.
func (w *Workspace) Gap() int { return w.gap }

// SetGap sets the pixel gap between adjacent columns, clamped to >= 0.
func (w *Workspace) SetGap(gap int) {
	if gap < 0 {
		gap = 0
	}
	w.gap = gap
}

// OuterGap returns the pixel gap kept at the viewport's edges.
func (w *Workspace) OuterGap() int { return w.outerGap }

// SetOuterGap sets the pixel gap kept at the viewport's edges, clamped to
// >= 0.
func (w *Workspace) SetOuterGap(outerGap int) {
	if outerGap < 0 {
		outerGap = 0
	}
	w.outerGap = outerGap
}

// DefaultColumnWidth returns the width given to newly inserted columns.
func (w *Workspace) DefaultColumnWidth() int { return w.defaultColumnWidth }

// SetDefaultColumnWidth sets the width given to newly inserted columns,
// clamped to >= MinColumnWidth.
func (w *Workspace) SetDefaultColumnWidth(width int) {
	w.defaultColumnWidth = clampColumnWidth(width)
}

// CenteringMode returns the workspace's focus-visibility strategy.
func (w *Workspace) CenteringMode() CenteringMode { return w.centeringMode }

// SetCenteringMode sets the workspace's focus-visibility strategy.
func (w *Workspace) SetCenteringMode(mode CenteringMode) { w.centeringMode = mode }

// ScrollOffset returns the base (non-animated) scroll offset.
func (w *Workspace) ScrollOffset() float64 { return w.scrollOffset }

// SetScrollOffsetDirect sets the base scroll offset without animating,
// clamped to the valid range for viewportWidth. Used when restoring a
// persisted workspace, where there is no prior offset to animate from.
func (w *Workspace) SetScrollOffsetDirect(offset float64, viewportWidth int) {
	w.scrollOffset = w.clampScroll(offset, viewportWidth)
}

// FloatingWindows returns a copy of the floating-window rect map.
func (w *Workspace) FloatingWindows() map[WindowID]Rect {
	out := make(map[WindowID]Rect, len(w.floatingWindows))
	for id, r := range w.floatingWindows {
		out[id] = r
	}
	return out
}

// totalStripWidth returns the sum of all column widths plus inter-column
// and outer gaps, using saturating arithmetic.
func (w *Workspace) totalStripWidth() int {
	if len(w.columns) == 0 {
		return 0
	}
	gap := maxOf(w.gap, 0)
	outerGap := maxOf(w.outerGap, 0)

	total := 0
	for _, c := range w.columns {
		total = saturatingAdd(total, c.Width())
	}
	total = saturatingAdd(total, saturatingMul(gap, maxOf(len(w.columns)-1, 0)))
	total = saturatingAdd(total, saturatingMul(outerGap, 2))
	return total
}

func maxScroll(totalWidth, viewportWidth int) int {
	return maxOf(saturatingSub(totalWidth, viewportWidth), 0)
}

func (w *Workspace) clampScroll(offset float64, viewportWidth int) float64 {
	max := maxScroll(w.totalStripWidth(), viewportWidth)
	return clampFloat(offset, 0, float64(max))
}

// InsertWindow creates a new column immediately to the right of the
// focused column (or the sole column in an empty workspace), containing
// only id, and moves focus to it. width, if non-nil, overrides
// DefaultColumnWidth for the new column.
func (w *Workspace) InsertWindow(id WindowID, width *int) error {
	if w.ContainsWindow(id) {
		return &DuplicateWindowError{WindowID: id}
	}

	colWidth := w.defaultColumnWidth
	if width != nil {
		colWidth = *width
	}
	col := NewColumn(id, colWidth)

	if len(w.columns) == 0 {
		w.columns = []*Column{col}
		w.focusedColumn = 0
	} else {
		pos := w.focusedColumn + 1
		w.columns = append(w.columns, nil)
		copy(w.columns[pos+1:], w.columns[pos:])
		w.columns[pos] = col
		w.focusedColumn = pos
	}
	w.focusedWindowInColumn = 0

	w.assertInvariants()
	return nil
}

// InsertWindowInColumn stacks id into the column at colIndex at the given
// stack position (clamped into range) and moves focus to it.
func (w *Workspace) InsertWindowInColumn(id WindowID, colIndex, position int) error {
	if w.ContainsWindow(id) {
		return &DuplicateWindowError{WindowID: id}
	}
	if colIndex < 0 || colIndex >= len(w.columns) {
		return &ColumnOutOfBoundsError{Index: colIndex, Max: len(w.columns) - 1}
	}

	col := w.columns[colIndex]
	if position < 0 {
		position = 0
	}
	if position > col.Len() {
		position = col.Len()
	}
	col.InsertAt(id, position)
	w.focusedColumn = colIndex
	w.focusedWindowInColumn = position

	w.assertInvariants()
	return nil
}

// RemoveWindow removes id from the workspace, applying the focus-on-removal
// policy, and removes the containing column if it becomes empty.
func (w *Workspace) RemoveWindow(id WindowID) error {
	if _, ok := w.floatingWindows[id]; ok {
		delete(w.floatingWindows, id)
		return nil
	}

	for colIdx, col := range w.columns {
		removedIdx, ok := col.Remove(id)
		if !ok {
			continue
		}

		if col.IsEmpty() {
			w.columns = append(w.columns[:colIdx], w.columns[colIdx+1:]...)
			switch {
			case len(w.columns) == 0:
				w.focusedColumn = 0
				w.focusedWindowInColumn = 0
				w.scrollOffset = 0
				w.activeAnimation = nil
			case w.focusedColumn >= len(w.columns):
				w.focusedColumn = len(w.columns) - 1
				w.focusedWindowInColumn = maxOf(w.columns[w.focusedColumn].Len()-1, 0)
			case w.focusedColumn > colIdx:
				w.focusedColumn--
				w.clampFocusedWindowIndex()
			default:
				w.clampFocusedWindowIndex()
			}
		} else if colIdx == w.focusedColumn {
			colLen := col.Len()
			switch {
			case removedIdx < w.focusedWindowInColumn:
				w.focusedWindowInColumn--
			case removedIdx == w.focusedWindowInColumn:
				if w.focusedWindowInColumn >= colLen {
					w.focusedWindowInColumn = colLen - 1
				}
			}
		}

		w.assertInvariants()
		return nil
	}
	return &WindowNotFoundError{WindowID: id}
}

func (w *Workspace) clampFocusedWindowIndex() {
	col := w.Column(w.focusedColumn)
	if col == nil {
		return
	}
	if w.focusedWindowInColumn >= col.Len() {
		w.focusedWindowInColumn = maxOf(col.Len()-1, 0)
	}
}

// FocusLeft moves focus to the column on the left. No-op at the left edge.
func (w *Workspace) FocusLeft() {
	if w.focusedColumn > 0 {
		w.focusedColumn--
		w.clampFocusedWindowIndex()
	}
	w.assertInvariants()
}

// FocusRight moves focus to the column on the right. No-op at the right
// edge.
func (w *Workspace) FocusRight() {
	if w.focusedColumn+1 < len(w.columns) {
		w.focusedColumn++
		w.clampFocusedWindowIndex()
	}
	w.assertInvariants()
}

// FocusUp moves focus to the window above in the focused column's stack.
// No-op at the top.
func (w *Workspace) FocusUp() {
	if w.focusedWindowInColumn > 0 {
		w.focusedWindowInColumn--
	}
}

// FocusDown moves focus to the window below in the focused column's stack.
// No-op at the bottom.
func (w *Workspace) FocusDown() {
	col := w.Column(w.focusedColumn)
	if col != nil && w.focusedWindowInColumn+1 < col.Len() {
		w.focusedWindowInColumn++
	}
}

// SetFocus validates and sets the focus indices directly.
func (w *Workspace) SetFocus(column, windowInColumn int) error {
	if column < 0 || column >= len(w.columns) {
		return &ColumnOutOfBoundsError{Index: column, Max: len(w.columns) - 1}
	}
	colLen := w.columns[column].Len()
	if windowInColumn < 0 || windowInColumn >= colLen {
		return &WindowIndexOutOfBoundsError{Index: windowInColumn, Column: column, Max: colLen - 1}
	}
	w.focusedColumn = column
	w.focusedWindowInColumn = windowInColumn
	return nil
}

// FocusWindow validates id is tiled and moves focus to it.
func (w *Workspace) FocusWindow(id WindowID) error {
	col, win, ok := w.FindWindowLocation(id)
	if !ok {
		return &WindowNotFoundError{WindowID: id}
	}
	w.focusedColumn = col
	w.focusedWindowInColumn = win
	return nil
}

// MoveColumnLeft swaps the focused column with its left neighbor. No-op at
// the left edge.
func (w *Workspace) MoveColumnLeft() {
	if w.focusedColumn > 0 {
		w.columns[w.focusedColumn], w.columns[w.focusedColumn-1] = w.columns[w.focusedColumn-1], w.columns[w.focusedColumn]
		w.focusedColumn--
	}
}

// MoveColumnRight swaps the focused column with its right neighbor. No-op
// at the right edge.
func (w *Workspace) MoveColumnRight() {
	if w.focusedColumn+1 < len(w.columns) {
		w.columns[w.focusedColumn], w.columns[w.focusedColumn+1] = w.columns[w.focusedColumn+1], w.columns[w.focusedColumn]
		w.focusedColumn++
	}
}

// ResizeFocusedColumn adjusts the focused column's width by delta, clamped
// to >= MinColumnWidth.
func (w *Workspace) ResizeFocusedColumn(delta int) {
	col := w.Column(w.focusedColumn)
	if col == nil {
		return
	}
	col.SetWidth(saturatingAdd(col.Width(), delta))
}

// SetFocusedColumnWidth sets the focused column's width directly, clamped
// to >= MinColumnWidth.
func (w *Workspace) SetFocusedColumnWidth(width int) {
	col := w.Column(w.focusedColumn)
	if col == nil {
		return
	}
	col.SetWidth(width)
}

// EqualizeColumnWidths distributes the sum of all current column widths
// equally across all columns.
func (w *Workspace) EqualizeColumnWidths() {
	if len(w.columns) == 0 {
		return
	}
	total := 0
	for _, c := range w.columns {
		total += c.Width()
	}
	each := total / len(w.columns)
	for _, c := range w.columns {
		c.SetWidth(each)
	}
}

// MakeFloating removes id from its tiled column (applying the normal
// removal/focus policy) and adds it to the floating set at rect.
func (w *Workspace) MakeFloating(id WindowID, rect Rect) error {
	if _, ok := w.floatingWindows[id]; ok {
		return nil
	}
	if w.ContainsWindow(id) {
		if err := w.RemoveWindow(id); err != nil {
			return err
		}
	}
	w.floatingWindows[id] = rect
	return nil
}

// MakeTiled removes id from the floating set and inserts it as a new tiled
// column to the right of the focused column.
func (w *Workspace) MakeTiled(id WindowID, width *int) error {
	if _, ok := w.floatingWindows[id]; !ok {
		return &WindowNotFoundError{WindowID: id}
	}
	delete(w.floatingWindows, id)
	return w.InsertWindow(id, width)
}

// FloatingRect returns the stored rect for a floating window.
func (w *Workspace) FloatingRect(id WindowID) (Rect, bool) {
	r, ok := w.floatingWindows[id]
	return r, ok
}

// SetFloatingRect updates the stored rect for an existing floating window.
func (w *Workspace) SetFloatingRect(id WindowID, rect Rect) {
	if _, ok := w.floatingWindows[id]; ok {
		w.floatingWindows[id] = rect
	}
}

// columnX returns the strip x-coordinate of a column's left edge.
func (w *Workspace) columnX(index int) int {
	gap := maxOf(w.gap, 0)
	outerGap := maxOf(w.outerGap, 0)

	x := outerGap
	for i, c := range w.columns {
		if i == index {
			return x
		}
		x = saturatingAdd(x, saturatingAdd(c.Width(), gap))
	}
	return x
}

func (w *Workspace) focusedColumnBounds() (x, width int, ok bool) {
	col := w.Column(w.focusedColumn)
	if col == nil {
		return 0, 0, false
	}
	return w.columnX(w.focusedColumn), col.Width(), true
}

// ScrollBy pans the viewport by delta pixels, clamping scroll_offset into
// [0, max_scroll]. NaN/Inf deltas are treated as zero.
func (w *Workspace) ScrollBy(delta float64, viewportWidth int) {
	safe := delta
	if clampFloat(delta, delta, delta) != delta {
		safe = 0
	}
	w.scrollOffset = w.clampScroll(w.scrollOffset+safe, viewportWidth)
}

// EnsureFocusedVisible snaps or pans scroll_offset so the focused column is
// visible, per the workspace's centering mode.
func (w *Workspace) EnsureFocusedVisible(viewportWidth int) {
	if len(w.columns) == 0 {
		return
	}
	colX, colWidth, ok := w.focusedColumnBounds()
	if !ok {
		return
	}
	outerGap := maxOf(w.outerGap, 0)

	switch w.centeringMode {
	case CenterMode:
		center := saturatingAdd(colX, colWidth/2)
		w.scrollOffset = float64(saturatingSub(center, viewportWidth/2))
	case JustInViewMode:
		viewportLeft := int(round(w.scrollOffset))
		viewportRight := saturatingAdd(viewportLeft, viewportWidth)
		colRight := saturatingAdd(colX, colWidth)
		overlaps := colRight > viewportLeft && colX < viewportRight
		switch {
		case overlaps:
			// Already at least partially visible; leave scroll_offset untouched.
		case colRight <= viewportLeft:
			w.scrollOffset = float64(saturatingSub(colX, outerGap))
		case colX >= viewportRight:
			w.scrollOffset = float64(saturatingSub(saturatingAdd(colRight, outerGap), viewportWidth))
		}
	}

	w.scrollOffset = w.clampScroll(w.scrollOffset, viewportWidth)
}

func round(v float64) float64 {
	if v >= 0 {
		return float64(int(v + 0.5))
	}
	return float64(int(v - 0.5))
}

// ComputePlacements computes the pixel placement and visibility of every
// tiled and floating window for the given viewport. Pure: identical inputs
// always yield identical outputs.
func (w *Workspace) ComputePlacements(viewport Rect) []Placement {
	return w.computePlacementsAt(viewport, w.scrollOffset)
}

// ComputePlacementsAnimated is like ComputePlacements but uses the
// in-flight animation's interpolated offset (if any) instead of the base
// scroll_offset.
func (w *Workspace) ComputePlacementsAnimated(viewport Rect, now time.Time) []Placement {
	return w.computePlacementsAt(viewport, w.EffectiveScrollOffset(now))
}

func (w *Workspace) computePlacementsAt(viewport Rect, scrollOffset float64) []Placement {
	var placements []Placement

	if len(w.columns) > 0 {
		gap := maxOf(w.gap, 0)
		outerGap := maxOf(w.outerGap, 0)
		viewportLeft := int(round(scrollOffset))

		usableHeight := maxOf(saturatingSub(viewport.Height, saturatingMul(outerGap, 2)), 0)

		currentX := outerGap
		for colIdx, col := range w.columns {
			stripX := currentX
			screenX := saturatingAdd(saturatingSub(stripX, viewportLeft), viewport.X)

			n := col.Len()
			windowGaps := 0
			if n > 1 {
				windowGaps = saturatingMul(gap, n-1)
			}
			windowHeight := 0
			if n > 0 {
				windowHeight = maxOf(saturatingSub(usableHeight, windowGaps), 0) / n
			}

			currentY := viewport.Y + outerGap
			for winIdx, id := range col.Windows() {
				height := windowHeight
				if winIdx == n-1 {
					height = maxOf(viewport.Y+viewport.Height-outerGap-currentY, 0)
				}
				rect := NewRect(screenX, currentY, col.Width(), height)
				placements = append(placements, Placement{
					WindowID:    id,
					Rect:        rect,
					Visible:     rect.Intersects(viewport),
					ColumnIndex: colIdx,
				})
				currentY = saturatingAdd(saturatingAdd(currentY, height), gap)
			}

			currentX = saturatingAdd(saturatingAdd(currentX, col.Width()), gap)
		}
	}

	floatingIDs := make([]WindowID, 0, len(w.floatingWindows))
	for id := range w.floatingWindows {
		floatingIDs = append(floatingIDs, id)
	}
	sort.Slice(floatingIDs, func(i, j int) bool { return floatingIDs[i] < floatingIDs[j] })
	for _, id := range floatingIDs {
		rect := w.floatingWindows[id]
		placements = append(placements, Placement{
			WindowID:    id,
			Rect:        rect,
			Visible:     rect.Intersects(viewport),
			ColumnIndex: -1,
		})
	}

	return placements
}

// IsAnimating reports whether a scroll animation is currently in flight.
func (w *Workspace) IsAnimating() bool { return w.activeAnimation != nil }

// EffectiveScrollOffset returns the animated offset at time now if an
// animation is active, otherwise the base scroll_offset.
func (w *Workspace) EffectiveScrollOffset(now time.Time) float64 {
	if w.activeAnimation == nil {
		return w.scrollOffset
	}
	return w.activeAnimation.offsetAt(now)
}

// StartScrollAnimation begins an animated transition of scroll_offset to
// target (clamped to the valid range), replacing any animation already in
// flight. If the clamped target is within half a pixel of the current
// effective offset, the change is applied immediately with no animation.
func (w *Workspace) StartScrollAnimation(target float64, viewportWidth int, duration time.Duration, easing Easing, now time.Time) {
	clampedTarget := w.clampScroll(target, viewportWidth)
	start := w.EffectiveScrollOffset(now)

	if abs(start-clampedTarget) < 0.5 {
		w.scrollOffset = clampedTarget
		w.activeAnimation = nil
		return
	}

	if duration <= 0 {
		duration = DefaultAnimationDuration
	}
	w.activeAnimation = &animation{
		startOffset:  start,
		targetOffset: clampedTarget,
		startTime:    now,
		duration:     duration,
		easing:       easing,
	}
}

// EnsureFocusedVisibleAnimated is like EnsureFocusedVisible, but animates
// the transition instead of jumping directly to the target offset.
func (w *Workspace) EnsureFocusedVisibleAnimated(viewportWidth int, duration time.Duration, easing Easing, now time.Time) {
	if len(w.columns) == 0 {
		return
	}
	colX, colWidth, ok := w.focusedColumnBounds()
	if !ok {
		return
	}
	outerGap := maxOf(w.outerGap, 0)

	var target float64
	switch w.centeringMode {
	case CenterMode:
		center := saturatingAdd(colX, colWidth/2)
		target = float64(saturatingSub(center, viewportWidth/2))
	case JustInViewMode:
		current := w.EffectiveScrollOffset(now)
		viewportLeft := int(round(current))
		viewportRight := saturatingAdd(viewportLeft, viewportWidth)
		colRight := saturatingAdd(colX, colWidth)
		overlaps := colRight > viewportLeft && colX < viewportRight
		switch {
		case overlaps:
			target = current
		case colRight <= viewportLeft:
			target = float64(saturatingSub(colX, outerGap))
		default:
			target = float64(saturatingSub(saturatingAdd(colRight, outerGap), viewportWidth))
		}
	}

	w.StartScrollAnimation(target, viewportWidth, duration, easing, now)
}

// TickAnimation advances the in-flight animation to time now. It returns
// true if an animation is still running afterward. On completion,
// scroll_offset is set to exactly the target and the animation is cleared.
func (w *Workspace) TickAnimation(now time.Time) bool {
	if w.activeAnimation == nil {
		return false
	}
	if w.activeAnimation.done(now) {
		w.scrollOffset = w.activeAnimation.targetOffset
		w.activeAnimation = nil
		return false
	}
	return true
}

// StopAnimation cancels any in-flight animation, snapping scroll_offset to
// the animation's target.
func (w *Workspace) StopAnimation() {
	if w.activeAnimation != nil {
		w.scrollOffset = w.activeAnimation.targetOffset
		w.activeAnimation = nil
	}
}

// CancelAnimation cancels any in-flight animation, leaving scroll_offset at
// its current interpolated position.
func (w *Workspace) CancelAnimation(now time.Time) {
	if w.activeAnimation != nil {
		w.scrollOffset = w.activeAnimation.offsetAt(now)
		w.activeAnimation = nil
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
