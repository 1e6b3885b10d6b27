//go:build release

package layout

// assertInvariants is a no-op in release builds; see invariants.go.
func (w *Workspace) assertInvariants() {}
