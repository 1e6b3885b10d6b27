package daemon

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openniri/openniri/internal/layout"
	"github.com/openniri/openniri/internal/platform"
	"github.com/openniri/openniri/internal/runtimepath"
)

// Persisted window/column/workspace entries key windows by (class,
// executable) rather than by platform window id: OS-assigned ids are not
// stable across restarts, so a saved id is meaningless once reloaded.
// This is the concrete choice for the open "exact matching algorithm"
// question §9 leaves unresolved.
type persistedWindow struct {
	ClassName  string `json:"class_name"`
	Executable string `json:"executable"`
}

type persistedColumn struct {
	Width   int               `json:"width"`
	Windows []persistedWindow `json:"windows"`
}

type persistedFloating struct {
	ClassName  string   `json:"class_name"`
	Executable string   `json:"executable"`
	Rect       WireRect `json:"rect"`
}

type persistedWorkspace struct {
	MonitorDeviceName  string              `json:"monitor_device_name"`
	Gap                int                 `json:"gap"`
	OuterGap           int                 `json:"outer_gap"`
	DefaultColumnWidth int                 `json:"default_column_width"`
	CenteringMode      string              `json:"centering_mode"`
	ScrollOffset       float64             `json:"scroll_offset"`
	Columns            []persistedColumn   `json:"columns"`
	Floating           []persistedFloating `json:"floating"`
}

// snapshotFile is the §6 persistence file layout: saved_at, a focused
// monitor device name, and one persistedWorkspace per monitor.
type snapshotFile struct {
	SavedAt            string               `json:"saved_at"`
	FocusedMonitorName string               `json:"focused_monitor_name"`
	Workspaces         []persistedWorkspace `json:"workspaces"`
}

// saveSnapshot writes the current state atomically (write-then-rename) to
// the persistence path.
func (d *Daemon) saveSnapshot() error {
	path, err := runtimepath.SnapshotPath()
	if err != nil {
		return err
	}

	snap := snapshotFile{SavedAt: d.now().Format(time.RFC3339)}
	if m, ok := d.state.Monitors[d.state.FocusedMonitor]; ok {
		snap.FocusedMonitorName = m.DeviceName
	}
	for id, ws := range d.state.Workspaces {
		m, ok := d.state.Monitors[id]
		if !ok {
			continue
		}
		snap.Workspaces = append(snap.Workspaces, d.persistWorkspace(ws, m))
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("daemon: marshaling snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("daemon: writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("daemon: renaming snapshot into place: %w", err)
	}
	return nil
}

func (d *Daemon) persistWorkspace(ws *layout.Workspace, m platform.Monitor) persistedWorkspace {
	mode := "center"
	if ws.CenteringMode() == layout.JustInViewMode {
		mode = "just_in_view"
	}
	out := persistedWorkspace{
		MonitorDeviceName:  m.DeviceName,
		Gap:                ws.Gap(),
		OuterGap:           ws.OuterGap(),
		DefaultColumnWidth: ws.DefaultColumnWidth(),
		CenteringMode:      mode,
		ScrollOffset:       ws.ScrollOffset(),
	}
	for _, col := range ws.Columns() {
		pc := persistedColumn{Width: col.Width()}
		for _, id := range col.Windows() {
			meta := d.state.WindowMeta[id]
			pc.Windows = append(pc.Windows, persistedWindow{ClassName: meta.ClassName, Executable: meta.Executable})
		}
		out.Columns = append(out.Columns, pc)
	}
	for id, rect := range ws.FloatingWindows() {
		meta := d.state.WindowMeta[id]
		out.Floating = append(out.Floating, persistedFloating{
			ClassName:  meta.ClassName,
			Executable: meta.Executable,
			Rect:       WireRect{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height},
		})
	}
	return out
}

// loadSnapshot restores per-monitor layout from a persisted snapshot, if
// one exists and can be parsed. It is best-effort: any failure is logged
// and treated as "no snapshot", never a startup error. It must run before
// the initial window enumeration in Bootstrap, since it consumes windows
// out of the live pool as it claims them.
func (d *Daemon) loadSnapshot() {
	path, err := runtimepath.SnapshotPath()
	if err != nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			d.state.Logger.Warn("reading snapshot failed", "error", err)
		}
		return
	}
	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		d.state.Logger.Warn("parsing snapshot failed", "error", err)
		return
	}

	byDeviceName := make(map[string]platform.MonitorID, len(d.state.Monitors))
	for id, m := range d.state.Monitors {
		byDeviceName[m.DeviceName] = id
	}

	live := d.liveWindowsByIdentity()

	for _, sw := range snap.Workspaces {
		monitorID, ok := byDeviceName[sw.MonitorDeviceName]
		if !ok {
			continue
		}
		d.restoreWorkspace(monitorID, sw, live)
	}

	if id, ok := byDeviceName[snap.FocusedMonitorName]; ok {
		d.state.FocusedMonitor = id
	}
}

func identityKey(class, executable string) windowIdentity {
	return windowIdentity{class: class, executable: strings.ToLower(executable)}
}

// windowIdentity is the (class, executable) tuple persistence uses to
// re-match a saved window entry to a live one, per §4.6.
type windowIdentity struct {
	class      string
	executable string
}

// liveWindowsByIdentity enumerates currently-visible windows not yet
// claimed by a workspace and groups their platform ids by identity
// tuple, so restoreWorkspace can claim one per persisted slot. Multiple
// live windows sharing an identity are matched in enumeration order;
// there is no stronger disambiguator.
func (d *Daemon) liveWindowsByIdentity() map[windowIdentity][]layout.WindowID {
	out := make(map[windowIdentity][]layout.WindowID)
	windows, err := d.state.Backend.EnumerateWindows()
	if err != nil {
		return out
	}
	for _, w := range windows {
		id := layout.WindowID(w.ID)
		d.state.WindowMeta[id] = windowMeta{ClassName: w.ClassName, Title: w.Title, Executable: w.Executable, ProcessID: w.ProcessID}
		out[identityKey(w.ClassName, w.Executable)] = append(out[identityKey(w.ClassName, w.Executable)], id)
	}
	return out
}

func (d *Daemon) restoreWorkspace(monitorID platform.MonitorID, saved persistedWorkspace, live map[windowIdentity][]layout.WindowID) {
	ws := d.state.Workspaces[monitorID]
	if ws == nil {
		return
	}
	ws.SetGap(saved.Gap)
	ws.SetOuterGap(saved.OuterGap)
	ws.SetDefaultColumnWidth(saved.DefaultColumnWidth)
	if saved.CenteringMode == "just_in_view" {
		ws.SetCenteringMode(layout.JustInViewMode)
	}

	claim := func(class, executable string) (layout.WindowID, bool) {
		key := identityKey(class, executable)
		candidates := live[key]
		if len(candidates) == 0 {
			return 0, false
		}
		live[key] = candidates[1:]
		return candidates[0], true
	}

	for _, col := range saved.Columns {
		width := col.Width
		colIdx := -1
		for _, pw := range col.Windows {
			id, ok := claim(pw.ClassName, pw.Executable)
			if !ok {
				continue
			}
			if colIdx < 0 {
				if err := ws.InsertWindow(id, &width); err != nil {
					continue
				}
				colIdx = ws.FocusedColumnIndex()
			} else {
				if err := ws.InsertWindowInColumn(id, colIdx, ws.Column(colIdx).Len()); err != nil {
					continue
				}
			}
			d.state.WindowMonitor[id] = monitorID
		}
	}
	for _, pf := range saved.Floating {
		id, ok := claim(pf.ClassName, pf.Executable)
		if !ok {
			continue
		}
		rect := layout.Rect{X: pf.Rect.X, Y: pf.Rect.Y, Width: pf.Rect.Width, Height: pf.Rect.Height}
		if err := ws.MakeFloating(id, rect); err != nil {
			continue
		}
		d.state.WindowMonitor[id] = monitorID
	}
	ws.SetScrollOffsetDirect(saved.ScrollOffset, d.viewportFor(monitorID).Width)
}
