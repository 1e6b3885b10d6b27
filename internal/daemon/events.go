package daemon

import (
	"time"

	"github.com/openniri/openniri/internal/config"
	"github.com/openniri/openniri/internal/layout"
	"github.com/openniri/openniri/internal/platform"
)

// ffMouseDebounce tracks the pending focus-follows-mouse timer: the
// window the mouse most recently entered and a generation counter. A
// newer mouse-enter replaces the pending record and a focus_left/right/
// up/down command clears it; a timer whose record is no longer the
// pending one is a silent no-op rather than racing the current state.
type ffMouseDebounce struct {
	windowID   layout.WindowID
	generation uint64
	timer      *time.Timer
}

// handlePlatformEvent is the single entry point the event loop calls for
// every platform.Event it receives. It implements the reconciliation
// rules.
func (d *Daemon) handlePlatformEvent(ev platform.Event) {
	switch ev.Kind {
	case platform.EventCreated:
		d.onCreated(layout.WindowID(ev.WindowID))
	case platform.EventDestroyed:
		d.onDestroyed(layout.WindowID(ev.WindowID))
	case platform.EventFocused:
		d.onFocused(layout.WindowID(ev.WindowID), false)
	case platform.EventMinimized:
		d.onMinimized(layout.WindowID(ev.WindowID))
	case platform.EventRestored:
		d.onRestored(layout.WindowID(ev.WindowID))
	case platform.EventMovedOrResized:
		d.onMovedOrResized(layout.WindowID(ev.WindowID))
	case platform.EventDisplayChange:
		d.reconcileMonitors()
	case platform.EventMouseEnterWindow:
		d.onMouseEnterWindow(layout.WindowID(ev.WindowID))
	case platform.EventHotkey:
		d.dispatchByChordID(ev.ChordID)
	case platform.EventGesture:
		d.onGesture(ev.Gesture)
	}
}

// onGesture maps a resolved wheel-gesture direction to its configured
// command, if gestures are enabled and that direction is bound.
func (d *Daemon) onGesture(axis platform.GestureAxis) {
	if !d.state.Config.Gestures.Enabled {
		return
	}
	var cmd string
	switch axis {
	case platform.GestureLeft:
		cmd = d.state.Config.Gestures.Left
	case platform.GestureRight:
		cmd = d.state.Config.Gestures.Right
	case platform.GestureUp:
		cmd = d.state.Config.Gestures.Up
	case platform.GestureDown:
		cmd = d.state.Config.Gestures.Down
	}
	if cmd == "" {
		return
	}
	d.Dispatch(Request{Cmd: cmd})
}

// dispatchByChordID looks the registered hotkey id up against the
// daemon's own id->command table (built alongside platform registration
// in applyHotkeys) and dispatches the bound command.
func (d *Daemon) dispatchByChordID(id int) {
	cmd, ok := d.hotkeyCommands[id]
	if !ok {
		d.state.Logger.Warn("hotkey fired with unknown id", "id", id)
		return
	}
	d.Dispatch(Request{Cmd: cmd})
}

func (d *Daemon) onCreated(id layout.WindowID) {
	if _, known := d.state.WindowMonitor[id]; known {
		return
	}
	if !d.state.Backend.IsWindow(platformID(id)) {
		return
	}
	info, err := d.state.Backend.WindowInfo(platformID(id))
	if err != nil {
		return
	}
	d.state.WindowMeta[id] = windowMeta{ClassName: info.ClassName, Title: info.Title, Executable: info.Executable, ProcessID: info.ProcessID}

	action, width, height := evaluateRules(d.state.Rules, info.ClassName, info.Title, info.Executable)
	switch action {
	case config.RuleActionIgnore:
		return
	case config.RuleActionFloat:
		mon := d.monitorContaining(info.Bounds)
		ws := d.state.Workspaces[mon]
		rect := layout.Rect{X: info.Bounds.X, Y: info.Bounds.Y, Width: info.Bounds.Width, Height: info.Bounds.Height}
		if width > 0 && height > 0 {
			rect.Width, rect.Height = width, height
		} else {
			wa := d.state.Monitors[mon].WorkArea
			rect = layout.Rect{X: wa.X + (wa.Width-800)/2, Y: wa.Y + (wa.Height-600)/2, Width: 800, Height: 600}
		}
		if err := ws.MakeFloating(id, rect); err != nil {
			d.state.Logger.Warn("floating insert failed", "window", id, "error", err)
			return
		}
		d.state.WindowMonitor[id] = mon
		d.applyMonitor(mon)
	default: // Tile
		mon := d.monitorContaining(info.Bounds)
		ws := d.state.Workspaces[mon]
		var w *int
		if width > 0 {
			w = &width
		}
		if err := ws.InsertWindow(id, w); err != nil {
			d.state.Logger.Warn("tiled insert failed", "window", id, "error", err)
			return
		}
		d.state.WindowMonitor[id] = mon
		d.applyMonitor(mon)
	}
}

func (d *Daemon) onDestroyed(id layout.WindowID) {
	ws, mon, ok := d.state.workspaceFor(id)
	if !ok {
		return
	}
	ws.RemoveWindow(id)
	delete(d.state.WindowMonitor, id)
	delete(d.state.WindowMeta, id)
	delete(d.state.Fullscreen, id)
	if d.state.FocusedBorder == id {
		d.state.FocusedBorder = 0
	}
	d.applyMonitor(mon)
}

func (d *Daemon) onFocused(id layout.WindowID, fromMouse bool) {
	mon, ok := d.state.WindowMonitor[id]
	if !ok {
		return
	}
	ws := d.state.Workspaces[mon]
	if col, idx, found := ws.FindWindowLocation(id); found {
		ws.SetFocus(col, idx)
	} else {
		ws.FocusWindow(id)
	}
	d.state.FocusedMonitor = mon
	if fromMouse && !d.state.Config.Behavior.FocusFollowsMouse {
		return
	}
	d.updateFocusBorder(id)
}

func (d *Daemon) onMinimized(id layout.WindowID) {
	ws, mon, ok := d.state.workspaceFor(id)
	if !ok {
		return
	}
	ws.RemoveWindow(id)
	delete(d.state.WindowMonitor, id)
	d.applyMonitor(mon)
}

func (d *Daemon) onRestored(id layout.WindowID) {
	if _, known := d.state.WindowMonitor[id]; known {
		return
	}
	d.onCreated(id)
}

func (d *Daemon) onMovedOrResized(id layout.WindowID) {
	mon, ok := d.state.WindowMonitor[id]
	if !ok {
		return
	}
	ws := d.state.Workspaces[mon]
	info, err := d.state.Backend.WindowInfo(platformID(id))
	if err != nil {
		return
	}
	bounds := layout.Rect{X: info.Bounds.X, Y: info.Bounds.Y, Width: info.Bounds.Width, Height: info.Bounds.Height}

	if rect, floating := ws.FloatingRect(id); floating {
		_ = rect
		ws.SetFloatingRect(id, bounds)
		return
	}

	target := d.monitorContaining(info.Bounds)
	if target != mon {
		d.migrateWindow(id, mon, target)
	}
}

func (d *Daemon) onMouseEnterWindow(id layout.WindowID) {
	if !d.state.Config.Behavior.FocusFollowsMouse {
		return
	}
	delay := time.Duration(d.state.Config.Behavior.FocusFollowsMouseDelayMs) * time.Millisecond
	if d.state.pendingFFMouse != nil {
		d.state.pendingFFMouse.timer.Stop()
	}
	gen := uint64(0)
	if d.state.pendingFFMouse != nil {
		gen = d.state.pendingFFMouse.generation + 1
	}
	db := &ffMouseDebounce{windowID: id, generation: gen}
	db.timer = time.AfterFunc(delay, func() {
		d.loopCh <- func() {
			if d.state.pendingFFMouse != db {
				return
			}
			d.onFocused(id, true)
			d.state.Backend.ForegroundWindow(platformID(id))
		}
	})
	d.state.pendingFFMouse = db
}

// migrateWindow removes a window from one monitor's workspace and
// inserts it (preserving tiled/floating state) into another's, used both
// by user-dragged cross-monitor moves and by MoveWindowToMonitorLeft/Right.
func (d *Daemon) migrateWindow(id layout.WindowID, from, to platform.MonitorID) {
	srcWs := d.state.Workspaces[from]
	dstWs := d.state.Workspaces[to]

	if rect, floating := srcWs.FloatingRect(id); floating {
		srcWs.RemoveWindow(id)
		dstWs.MakeFloating(id, rect)
	} else {
		srcWs.RemoveWindow(id)
		dstWs.InsertWindow(id, nil)
	}
	d.state.WindowMonitor[id] = to
	d.state.FocusedMonitor = to
	d.applyMonitor(from)
	d.applyMonitor(to)
}

func (d *Daemon) monitorContaining(bounds platform.Rect) platform.MonitorID {
	cx := bounds.X + bounds.Width/2
	cy := bounds.Y + bounds.Height/2
	for id, m := range d.state.Monitors {
		if cx >= m.WorkArea.X && cx < m.WorkArea.X+m.WorkArea.Width &&
			cy >= m.WorkArea.Y && cy < m.WorkArea.Y+m.WorkArea.Height {
			return id
		}
	}
	if id, ok := d.state.primaryMonitorID(); ok {
		return id
	}
	return d.state.FocusedMonitor
}

func platformID(id layout.WindowID) platform.WindowID { return platform.WindowID(id) }
