//go:build !release

package layout

import "fmt"

// assertInvariants panics if the workspace's internal bookkeeping has
// drifted from the structural invariants every mutator is expected to
// preserve. It is compiled only into non-release builds (omit the
// "release" build tag during development and testing), mirroring a
// debug_assert!-style check: a no-op in invariants_release.go handles the
// "release" tag.
func (w *Workspace) assertInvariants() {
	if len(w.columns) == 0 {
		if w.focusedColumn != 0 || w.focusedWindowInColumn != 0 {
			panic(fmt.Sprintf("layout: focus (%d, %d) not reset on empty workspace", w.focusedColumn, w.focusedWindowInColumn))
		}
		return
	}

	if w.focusedColumn < 0 || w.focusedColumn >= len(w.columns) {
		panic(fmt.Sprintf("layout: focusedColumn %d out of range [0, %d)", w.focusedColumn, len(w.columns)))
	}

	col := w.columns[w.focusedColumn]
	if col.IsEmpty() {
		panic("layout: focused column has no windows")
	}
	if w.focusedWindowInColumn < 0 || w.focusedWindowInColumn >= col.Len() {
		panic(fmt.Sprintf("layout: focusedWindowInColumn %d out of range [0, %d)", w.focusedWindowInColumn, col.Len()))
	}

	for i, c := range w.columns {
		if c.IsEmpty() {
			panic(fmt.Sprintf("layout: column %d left empty after mutation", i))
		}
	}

	seen := make(map[WindowID]struct{})
	for _, c := range w.columns {
		for _, id := range c.Windows() {
			if _, dup := seen[id]; dup {
				panic(fmt.Sprintf("layout: window %d appears in more than one column", id))
			}
			seen[id] = struct{}{}
		}
	}
	for id := range w.floatingWindows {
		if _, dup := seen[id]; dup {
			panic(fmt.Sprintf("layout: window %d is both tiled and floating", id))
		}
	}
}
