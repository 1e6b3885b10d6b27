package daemon

import (
	"time"

	"github.com/openniri/openniri/internal/layout"
	"github.com/openniri/openniri/internal/platform"
)

func (d *Daemon) applyFocused() Result {
	d.applyMonitor(d.state.FocusedMonitor)
	return Result{}
}

// applyMonitor implements §4.4: compute placements for one monitor's
// workspace, partition into visible/hidden, commit the visible set as a
// batch with per-window fallback, and apply the chosen hidden-window
// visibility strategy to the rest.
func (d *Daemon) applyMonitor(monitorID platform.MonitorID) {
	if d.state.Paused {
		return
	}
	ws := d.state.Workspaces[monitorID]
	if ws == nil {
		return
	}
	viewport := d.viewportFor(monitorID)
	placements := ws.ComputePlacementsAnimated(viewport, d.now())

	var visible, hidden []layout.Placement
	for _, p := range placements {
		if _, full := d.state.Fullscreen[p.WindowID]; full {
			p.Rect = viewport
			p.Visible = true
		}
		if p.Visible {
			visible = append(visible, p)
		} else {
			hidden = append(hidden, p)
		}
	}

	d.commitVisible(monitorID, visible)
	d.applyHidden(hidden)
}

func (d *Daemon) commitVisible(monitorID platform.MonitorID, visible []layout.Placement) {
	if len(visible) == 0 {
		return
	}
	if !d.state.UseDeferredPositioning {
		for _, p := range visible {
			d.moveOne(p)
		}
		return
	}

	batch := d.state.Backend.BeginBatch(monitorID, len(visible))
	for _, p := range visible {
		batch.Add(platformID(p.WindowID), toPlatformRect(p.Rect))
	}
	failed, err := batch.Commit()
	if err != nil {
		// The batch mechanism itself failed: fall back to per-window
		// moves for everything queued.
		for _, p := range visible {
			d.moveOne(p)
		}
		return
	}
	if len(failed) == 0 {
		d.uncloakAll(visible)
		return
	}
	failedSet := make(map[layout.WindowID]bool, len(failed))
	for _, id := range failed {
		failedSet[layout.WindowID(id)] = true
	}
	for _, p := range visible {
		if failedSet[p.WindowID] {
			d.moveOne(p)
		}
	}
	d.uncloakAll(visible)
}

func (d *Daemon) moveOne(p layout.Placement) {
	if err := d.state.Backend.MoveResize(platformID(p.WindowID), toPlatformRect(p.Rect)); err != nil {
		d.state.Logger.Warn("move/resize failed", "window", p.WindowID, "error", err)
	}
	d.uncloak(p.WindowID)
}

func (d *Daemon) uncloakAll(visible []layout.Placement) {
	for _, p := range visible {
		d.uncloak(p.WindowID)
	}
}

func (d *Daemon) uncloak(id layout.WindowID) {
	if d.state.VisibilityStrategy != platform.Cloak {
		return
	}
	if err := d.state.Backend.SetCloaked(platformID(id), false); err != nil {
		d.state.Logger.Warn("uncloak failed", "window", id, "error", err)
	}
}

func (d *Daemon) applyHidden(hidden []layout.Placement) {
	for _, p := range hidden {
		switch d.state.VisibilityStrategy {
		case platform.Cloak:
			if err := d.state.Backend.SetCloaked(platformID(p.WindowID), true); err != nil {
				d.state.Logger.Warn("cloak failed", "window", p.WindowID, "error", err)
			}
		case platform.MoveOffScreen:
			if err := d.state.Backend.MoveOffScreen(platformID(p.WindowID)); err != nil {
				d.state.Logger.Warn("move off-screen failed", "window", p.WindowID, "error", err)
			}
		}
	}
}

// updateFocusBorder implements §4.4 step 5: paint the active border on
// the newly focused window and clear it from whichever window wore it
// before.
func (d *Daemon) updateFocusBorder(id layout.WindowID) {
	if id == d.state.FocusedBorder {
		return
	}
	if d.state.FocusedBorder != 0 {
		if err := d.state.Backend.ClearBorderColor(platformID(d.state.FocusedBorder)); err != nil {
			d.state.Logger.Warn("clear border color failed", "window", d.state.FocusedBorder, "error", err)
		}
	}
	color := platform.BorderColor(d.state.Config.Appearance.ActiveBorderColor)
	if err := d.state.Backend.SetBorderColor(platformID(id), color); err != nil {
		d.state.Logger.Warn("set border color failed", "window", id, "error", err)
	}
	d.state.FocusedBorder = id
}

func toPlatformRect(r layout.Rect) platform.Rect {
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// animationTickInterval matches the ~60 Hz cadence §5 calls for while an
// animation is active.
const animationTickInterval = time.Second / 60
