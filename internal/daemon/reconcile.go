package daemon

import (
	"github.com/openniri/openniri/internal/layout"
	"github.com/openniri/openniri/internal/platform"
)

// reconcileMonitors implements §4.3: compare the fresh monitor
// enumeration against state.Monitors, create workspaces for additions,
// migrate windows off removed monitors onto the surviving primary in
// their original column order, and refresh bounds for survivors.
func (d *Daemon) reconcileMonitors() {
	fresh, err := d.state.Backend.Monitors()
	if err != nil {
		d.state.Logger.Error("monitor enumeration failed", "error", err)
		return
	}

	freshByID := make(map[platform.MonitorID]platform.Monitor, len(fresh))
	for _, m := range fresh {
		freshByID[m.ID] = m
	}

	for id, m := range freshByID {
		if _, existed := d.state.Monitors[id]; !existed {
			d.state.Monitors[id] = m
			ws := layout.NewWorkspaceWithGaps(d.state.Config.Layout.Gap, d.state.Config.Layout.OuterGap)
			ws.SetDefaultColumnWidth(d.state.Config.Layout.DefaultColumnWidth)
			if d.state.Config.Layout.CenteringMode == "just_in_view" {
				ws.SetCenteringMode(layout.JustInViewMode)
			}
			d.state.Workspaces[id] = ws
			d.state.Logger.Info("monitor added", "monitor", id, "device_name", m.DeviceName)
		} else {
			d.state.Monitors[id] = m // refresh bounds/work area
		}
	}

	var removed []platform.MonitorID
	for id := range d.state.Monitors {
		if _, stillThere := freshByID[id]; !stillThere {
			removed = append(removed, id)
		}
	}

	if len(removed) > 0 {
		target, ok := d.survivingPrimary(freshByID)
		if !ok {
			d.state.Logger.Error("all monitors removed; cannot migrate windows")
		}
		for _, id := range removed {
			ws := d.state.Workspaces[id]
			if ws != nil && ok {
				d.migrateWorkspaceWindows(ws, id, target)
			}
			delete(d.state.Workspaces, id)
			delete(d.state.Monitors, id)
			d.state.Logger.Info("monitor removed", "monitor", id)
		}
		if ok && d.state.FocusedMonitor != target {
			if _, stillFocused := freshByID[d.state.FocusedMonitor]; !stillFocused {
				d.state.FocusedMonitor = target
			}
		}
	}

	if _, ok := freshByID[d.state.FocusedMonitor]; !ok {
		if id, ok := d.state.primaryMonitorID(); ok {
			d.state.FocusedMonitor = id
		}
	}

	for id := range d.state.Workspaces {
		d.applyMonitor(id)
	}
}

// survivingPrimary picks the monitor windows from removed monitors
// migrate onto: the primary among the fresh enumeration, or arbitrarily
// the first if none is marked primary.
func (d *Daemon) survivingPrimary(fresh map[platform.MonitorID]platform.Monitor) (platform.MonitorID, bool) {
	for id, m := range fresh {
		if m.Primary {
			return id, true
		}
	}
	for id := range fresh {
		return id, true
	}
	return 0, false
}

// migrateWorkspaceWindows re-inserts every window from a departing
// workspace onto target, tiled windows in their original column order
// and floating windows with their stored rects.
func (d *Daemon) migrateWorkspaceWindows(ws *layout.Workspace, from, target platform.MonitorID) {
	dst := d.state.Workspaces[target]
	if dst == nil {
		return
	}
	for _, col := range ws.Columns() {
		width := col.Width()
		for _, id := range col.Windows() {
			if err := dst.InsertWindow(id, &width); err != nil {
				d.state.Logger.Warn("window migration failed", "window", id, "error", err)
				continue
			}
			d.state.WindowMonitor[id] = target
		}
	}
	for id, rect := range ws.FloatingWindows() {
		if err := dst.MakeFloating(id, rect); err != nil {
			d.state.Logger.Warn("floating window migration failed", "window", id, "error", err)
			continue
		}
		d.state.WindowMonitor[id] = target
	}
}
