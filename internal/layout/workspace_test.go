package layout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(gap, outerGap, defaultWidth int) *Workspace {
	w := NewWorkspaceWithGaps(gap, outerGap)
	w.SetDefaultColumnWidth(defaultWidth)
	return w
}

// Scenario 1: single insert.
func TestComputePlacements_SingleInsert(t *testing.T) {
	w := newTestWorkspace(10, 10, 300)
	require.NoError(t, w.InsertWindow(1, nil))

	viewport := Rect{X: 0, Y: 0, Width: 1000, Height: 800}
	placements := w.ComputePlacements(viewport)

	require.Len(t, placements, 1)
	assert.Equal(t, WindowID(1), placements[0].WindowID)
	assert.Equal(t, Rect{X: 10, Y: 10, Width: 300, Height: 780}, placements[0].Rect)
	assert.True(t, placements[0].Visible)
	assert.Equal(t, 0, w.FocusedColumnIndex())
}

// Scenario 2: three columns, center mode.
func TestEnsureFocusedVisible_CenterMode(t *testing.T) {
	w := newTestWorkspace(10, 10, 300)
	require.NoError(t, w.InsertWindow(1, nil))
	require.NoError(t, w.InsertWindow(2, nil))
	require.NoError(t, w.InsertWindow(3, nil))
	require.Equal(t, 2, w.FocusedColumnIndex())

	viewport := Rect{X: 0, Y: 0, Width: 1000, Height: 800}
	w.EnsureFocusedVisible(viewport.Width)

	assert.InDelta(t, 280, w.ScrollOffset(), 0.001)

	placements := w.ComputePlacements(viewport)
	require.Len(t, placements, 3)
	// Column C (index 2) sits at strip x=630; after -280 translation, x=350.
	for _, p := range placements {
		if p.WindowID == 3 {
			assert.Equal(t, 350, p.Rect.X)
		}
	}
}

// Scenario 3: focus-on-removal policy for a stacked column.
func TestRemoveWindow_FocusOnRemovalPolicy(t *testing.T) {
	w := newTestWorkspace(10, 10, 300)
	require.NoError(t, w.InsertWindow(1, nil))          // A, creates column 0
	require.NoError(t, w.InsertWindowInColumn(2, 0, 1)) // B stacked below A
	require.NoError(t, w.InsertWindowInColumn(3, 0, 2)) // C stacked below B
	require.NoError(t, w.SetFocus(0, 1))                // focus B

	require.NoError(t, w.RemoveWindow(1)) // remove A (before focused)
	windowID, ok := w.FocusedWindow()
	require.True(t, ok)
	assert.Equal(t, WindowID(2), windowID, "focus should stay on B")
	assert.Equal(t, 0, w.FocusedWindowIndexInColumn())

	require.NoError(t, w.RemoveWindow(2)) // remove B (== focused, not last)
	windowID, ok = w.FocusedWindow()
	require.True(t, ok)
	assert.Equal(t, WindowID(3), windowID, "focus should slide to C")

	require.NoError(t, w.RemoveWindow(3)) // remove C, last window, only column
	assert.True(t, w.IsEmpty())
	assert.Equal(t, 0, w.FocusedColumnIndex())
	assert.Equal(t, 0, w.FocusedWindowIndexInColumn())
	assert.Equal(t, float64(0), w.ScrollOffset())
}

// Scenario 4 is a cross-workspace (cross-monitor) operation owned by
// internal/daemon; workspace_test.go covers only the single-workspace half
// (removal from the source, insertion into the destination), exercised
// together in internal/daemon's reconcile tests.
func TestMakeFloating_ThenMakeTiled(t *testing.T) {
	w := newTestWorkspace(10, 10, 300)
	require.NoError(t, w.InsertWindow(1, nil))
	require.NoError(t, w.InsertWindow(2, nil))

	rect := NewRect(50, 50, 400, 300)
	require.NoError(t, w.MakeFloating(2, rect))
	assert.True(t, w.ContainsWindow(2))
	got, ok := w.FloatingRect(2)
	require.True(t, ok)
	assert.Equal(t, rect, got)
	assert.Equal(t, 1, w.ColumnCount())

	require.NoError(t, w.MakeTiled(2, nil))
	_, ok = w.FloatingRect(2)
	assert.False(t, ok)
	assert.Equal(t, 2, w.ColumnCount())
}

// Scenario 5: animation interpolation and completion.
func TestScrollAnimation_InterpolatesAndCompletes(t *testing.T) {
	w := newTestWorkspace(10, 10, 300)
	require.NoError(t, w.InsertWindow(1, nil))
	require.NoError(t, w.InsertWindow(2, nil))
	// Five 300px columns make a 1560px strip, so a target of 300 lies
	// inside the 0..560 scroll range and is not clamped away.
	require.NoError(t, w.InsertWindow(3, nil))
	require.NoError(t, w.InsertWindow(4, nil))
	require.NoError(t, w.InsertWindow(5, nil))

	t0 := time.Unix(1000, 0)
	w.StartScrollAnimation(300, 1000, 200*time.Millisecond, EaseOut, t0)
	require.True(t, w.IsAnimating())

	mid := t0.Add(100 * time.Millisecond)
	got := w.EffectiveScrollOffset(mid)
	want := lerp(0, 300, EaseOut.Apply(0.5))
	assert.InDelta(t, want, got, 1e-9)

	end := t0.Add(200 * time.Millisecond)
	stillRunning := w.TickAnimation(end)
	assert.False(t, stillRunning)
	assert.Equal(t, float64(300), w.ScrollOffset())
	assert.False(t, w.IsAnimating())
}

// Boundary: empty workspace.
func TestComputePlacements_EmptyWorkspace(t *testing.T) {
	w := NewWorkspace()
	placements := w.ComputePlacements(Rect{X: 0, Y: 0, Width: 1000, Height: 800})
	assert.Empty(t, placements)

	w.FocusLeft()
	w.FocusRight()
	w.FocusUp()
	w.FocusDown()
	assert.Equal(t, 0, w.FocusedColumnIndex())
}

// Boundary: viewport height smaller than 2*outer_gap collapses to zero
// height without panicking.
func TestComputePlacements_TinyViewportCollapsesHeight(t *testing.T) {
	w := newTestWorkspace(10, 50, 300)
	require.NoError(t, w.InsertWindow(1, nil))

	placements := w.ComputePlacements(Rect{X: 0, Y: 0, Width: 1000, Height: 40})
	require.Len(t, placements, 1)
	assert.Equal(t, 0, placements[0].Rect.Height)
}

// Boundary: many stacked windows drive window_height to 0 without overlap
// or panic.
func TestComputePlacements_StackedWindowsZeroHeight(t *testing.T) {
	w := newTestWorkspace(10, 10, 300)
	require.NoError(t, w.InsertWindow(1, nil))
	for i := WindowID(2); i <= 50; i++ {
		require.NoError(t, w.InsertWindowInColumn(i, 0, int(i)))
	}

	placements := w.ComputePlacements(Rect{X: 0, Y: 0, Width: 1000, Height: 100})
	require.Len(t, placements, 50)
	for _, p := range placements {
		assert.GreaterOrEqual(t, p.Rect.Height, 0)
	}
}

// Boundary: scrolling further negative than the current offset clamps to 0.
func TestScrollBy_ClampsToZero(t *testing.T) {
	w := newTestWorkspace(10, 10, 300)
	require.NoError(t, w.InsertWindow(1, nil))
	w.ScrollBy(-10000, 1000)
	assert.Equal(t, float64(0), w.ScrollOffset())
}

func TestScrollBy_NaNTreatedAsZero(t *testing.T) {
	w := newTestWorkspace(10, 10, 300)
	require.NoError(t, w.InsertWindow(1, nil))
	w.ScrollBy(0, 1000)
	before := w.ScrollOffset()
	w.ScrollBy(nanFloat(), 1000)
	assert.Equal(t, before, w.ScrollOffset())
}

func nanFloat() float64 {
	var zero float64
	return zero / zero
}

func TestInsertWindow_DuplicateRejected(t *testing.T) {
	w := NewWorkspace()
	require.NoError(t, w.InsertWindow(1, nil))
	err := w.InsertWindow(1, nil)
	require.Error(t, err)
	var dup *DuplicateWindowError
	assert.ErrorAs(t, err, &dup)
}

func TestRemoveWindow_NotFound(t *testing.T) {
	w := NewWorkspace()
	err := w.RemoveWindow(99)
	require.Error(t, err)
	var notFound *WindowNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestInsertWindowInColumn_OutOfBounds(t *testing.T) {
	w := NewWorkspace()
	err := w.InsertWindowInColumn(1, 5, 0)
	require.Error(t, err)
	var oob *ColumnOutOfBoundsError
	assert.ErrorAs(t, err, &oob)
}

func TestSetFocus_ValidatesIndices(t *testing.T) {
	w := NewWorkspace()
	require.NoError(t, w.InsertWindow(1, nil))
	require.Error(t, w.SetFocus(5, 0))
	require.Error(t, w.SetFocus(0, 5))
	require.NoError(t, w.SetFocus(0, 0))
}

// Reload idempotence (scenario 6) belongs to internal/daemon (it concerns
// config/hotkey state, not the layout engine); the layout-level analogue is
// that repeated identical ComputePlacements calls are pure.
func TestComputePlacements_Pure(t *testing.T) {
	w := newTestWorkspace(10, 10, 300)
	require.NoError(t, w.InsertWindow(1, nil))
	require.NoError(t, w.InsertWindow(2, nil))
	viewport := Rect{X: 0, Y: 0, Width: 1000, Height: 800}

	first := w.ComputePlacements(viewport)
	second := w.ComputePlacements(viewport)
	assert.Equal(t, first, second)
}

// Invariant property test: random insert/remove/focus/scroll sequences
// never violate uniqueness, focus bounds, or scroll clamping.
func TestWorkspace_InvariantsHoldUnderRandomOperations(t *testing.T) {
	w := newTestWorkspace(8, 12, 150)
	viewportWidth := 640
	nextID := WindowID(1)
	live := map[WindowID]bool{}

	ops := []func(){
		func() {
			id := nextID
			nextID++
			if w.InsertWindow(id, nil) == nil {
				live[id] = true
			}
		},
		func() {
			for id := range live {
				_ = w.RemoveWindow(id)
				delete(live, id)
				return
			}
		},
		func() { w.FocusLeft() },
		func() { w.FocusRight() },
		func() { w.FocusUp() },
		func() { w.FocusDown() },
		func() { w.ScrollBy(37, viewportWidth) },
		func() { w.ScrollBy(-53, viewportWidth) },
	}

	seed := 12345
	for i := 0; i < 500; i++ {
		seed = (seed*1103515245 + 12345) & 0x7fffffff
		ops[seed%len(ops)]()

		assertUniqueWindowIDs(t, w)
		if !w.IsEmpty() {
			assert.Less(t, w.FocusedColumnIndex(), w.ColumnCount())
			col := w.Column(w.FocusedColumnIndex())
			assert.Less(t, w.FocusedWindowIndexInColumn(), col.Len())
		}
		assert.GreaterOrEqual(t, w.ScrollOffset(), float64(0))
		for _, p := range w.ComputePlacements(Rect{X: 0, Y: 0, Width: viewportWidth, Height: 480}) {
			assert.GreaterOrEqual(t, p.Rect.Width, 0)
			assert.GreaterOrEqual(t, p.Rect.Height, 0)
		}
	}
}

func assertUniqueWindowIDs(t *testing.T, w *Workspace) {
	t.Helper()
	seen := map[WindowID]bool{}
	for _, c := range w.Columns() {
		for _, id := range c.Windows() {
			require.False(t, seen[id], "window %d appears more than once", id)
			seen[id] = true
		}
	}
	for id := range w.FloatingWindows() {
		require.False(t, seen[id], "window %d appears in both columns and floating", id)
		seen[id] = true
	}
}

func TestSetScrollOffsetDirect_Clamps(t *testing.T) {
	w := newTestWorkspace(10, 10, 300)
	require.NoError(t, w.InsertWindow(1, nil))
	w.SetScrollOffsetDirect(-500, 1000)
	assert.Equal(t, float64(0), w.ScrollOffset())

	w.SetScrollOffsetDirect(1_000_000, 1000)
	assert.LessOrEqual(t, w.ScrollOffset(), float64(1000))
}
