package daemon

import (
	"fmt"
	"time"

	"github.com/openniri/openniri/internal/layout"
	"github.com/openniri/openniri/internal/platform"
)

// ColumnWidthMode selects one of the four set_column_width variants.
type ColumnWidthMode string

const (
	ColumnWidthOneThird  ColumnWidthMode = "one_third"
	ColumnWidthHalf      ColumnWidthMode = "half"
	ColumnWidthTwoThirds ColumnWidthMode = "two_thirds"
	ColumnWidthEqualize  ColumnWidthMode = "equalize"
)

// Request is a single command, already decoded from whichever surface it
// arrived on (IPC, hotkey, gesture, tray). Fields besides Cmd are only
// meaningful for the commands that use them.
type Request struct {
	Cmd       string
	DeltaPx   int
	WidthMode ColumnWidthMode
}

// Result is the outcome of dispatching a Request. At most one of the
// payload fields is populated, matching the IPC response variants in §6.
type Result struct {
	Err           error
	Workspace     *WireWorkspace
	FocusedWindow *WireWindowInfo
	Windows       []WireWindowInfo
	Status        *WireStatus
}

// Dispatch runs req synchronously on the calling goroutine, which must be
// the event loop goroutine (see loop.go — every external caller submits
// through d.loopCh instead of calling this directly).
func (d *Daemon) Dispatch(req Request) Result {
	switch req.Cmd {
	case "focus_left":
		return d.withFocusedWorkspace(func(ws *layout.Workspace) Result { ws.FocusLeft(); return d.afterFocusMove(ws) })
	case "focus_right":
		return d.withFocusedWorkspace(func(ws *layout.Workspace) Result { ws.FocusRight(); return d.afterFocusMove(ws) })
	case "focus_up":
		return d.withFocusedWorkspace(func(ws *layout.Workspace) Result { ws.FocusUp(); return d.afterFocusMove(ws) })
	case "focus_down":
		return d.withFocusedWorkspace(func(ws *layout.Workspace) Result { ws.FocusDown(); return d.afterFocusMove(ws) })
	case "move_column_left":
		return d.withFocusedWorkspace(func(ws *layout.Workspace) Result { ws.MoveColumnLeft(); return d.applyFocused() })
	case "move_column_right":
		return d.withFocusedWorkspace(func(ws *layout.Workspace) Result { ws.MoveColumnRight(); return d.applyFocused() })
	case "scroll":
		return d.withFocusedWorkspace(func(ws *layout.Workspace) Result {
			ws.CancelAnimation(d.now())
			ws.ScrollBy(float64(req.DeltaPx), d.viewportFor(d.state.FocusedMonitor).Width)
			return d.applyFocused()
		})
	case "resize":
		return d.withFocusedWorkspace(func(ws *layout.Workspace) Result { ws.ResizeFocusedColumn(req.DeltaPx); return d.applyFocused() })
	case "set_column_width":
		return d.cmdSetColumnWidth(req.WidthMode)
	case "focus_monitor_left":
		return d.cmdFocusMonitor(-1)
	case "focus_monitor_right":
		return d.cmdFocusMonitor(1)
	case "move_window_to_monitor_left":
		return d.cmdMoveWindowToMonitor(-1)
	case "move_window_to_monitor_right":
		return d.cmdMoveWindowToMonitor(1)
	case "close_window":
		return d.cmdCloseWindow()
	case "toggle_floating":
		return d.cmdToggleFloating()
	case "toggle_fullscreen":
		return d.cmdToggleFullscreen()
	case "refresh":
		return d.cmdRefresh()
	case "reload":
		return d.cmdReload()
	case "query_workspace":
		return d.cmdQueryWorkspace()
	case "query_focused":
		return d.cmdQueryFocused()
	case "query_all_windows":
		return d.cmdQueryAllWindows()
	case "query_status":
		return d.cmdQueryStatus()
	case "stop":
		d.requestShutdown()
		return Result{}
	default:
		return Result{Err: fmt.Errorf("daemon: unknown command %q", req.Cmd)}
	}
}

func (d *Daemon) withFocusedWorkspace(fn func(*layout.Workspace) Result) Result {
	ws, ok := d.state.Workspaces[d.state.FocusedMonitor]
	if !ok {
		return Result{Err: fmt.Errorf("daemon: no focused monitor")}
	}
	return fn(ws)
}

// afterFocusMove is the FocusLeft/Right/Up/Down tail: animate the
// viewport to the new focus, apply, and activate the window in the
// foreground.
func (d *Daemon) afterFocusMove(ws *layout.Workspace) Result {
	if d.state.pendingFFMouse != nil {
		d.state.pendingFFMouse.timer.Stop()
		d.state.pendingFFMouse = nil
	}
	viewport := d.viewportFor(d.state.FocusedMonitor)
	ws.EnsureFocusedVisibleAnimated(viewport.Width, layout.DefaultAnimationDuration, layout.EaseOut, d.now())
	d.startAnimationTicker()
	r := d.applyFocused()
	if id, ok := ws.FocusedWindow(); ok {
		d.updateFocusBorder(id)
		d.state.Backend.ForegroundWindow(platformID(id))
	}
	return r
}

func (d *Daemon) cmdSetColumnWidth(mode ColumnWidthMode) Result {
	return d.withFocusedWorkspace(func(ws *layout.Workspace) Result {
		if mode == ColumnWidthEqualize {
			ws.EqualizeColumnWidths()
			return d.applyFocused()
		}
		viewport := d.viewportFor(d.state.FocusedMonitor)
		var width int
		switch mode {
		case ColumnWidthOneThird:
			width = viewport.Width / 3
		case ColumnWidthHalf:
			width = viewport.Width / 2
		case ColumnWidthTwoThirds:
			width = viewport.Width * 2 / 3
		default:
			return Result{Err: fmt.Errorf("daemon: unknown column width mode %q", mode)}
		}
		ws.SetFocusedColumnWidth(width)
		return d.applyFocused()
	})
}

func (d *Daemon) cmdFocusMonitor(direction int) Result {
	order := d.state.monitorIDsByXOrder()
	idx := -1
	for i, id := range order {
		if id == d.state.FocusedMonitor {
			idx = i
			break
		}
	}
	if idx < 0 || len(order) == 0 {
		return Result{Err: fmt.Errorf("daemon: no focused monitor")}
	}
	next := idx + direction
	if next < 0 || next >= len(order) {
		return Result{} // no adjacent monitor; no-op, matches no-wrap column move semantics
	}
	d.state.FocusedMonitor = order[next]
	if ws, ok := d.state.Workspaces[d.state.FocusedMonitor]; ok {
		if id, ok := ws.FocusedWindow(); ok {
			d.updateFocusBorder(id)
			d.state.Backend.ForegroundWindow(platformID(id))
		}
	}
	return d.cmdQueryFocused()
}

func (d *Daemon) cmdMoveWindowToMonitor(direction int) Result {
	order := d.state.monitorIDsByXOrder()
	idx := -1
	for i, id := range order {
		if id == d.state.FocusedMonitor {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Result{Err: fmt.Errorf("daemon: no focused monitor")}
	}
	next := idx + direction
	if next < 0 || next >= len(order) {
		return Result{}
	}
	ws, ok := d.state.Workspaces[d.state.FocusedMonitor]
	if !ok {
		return Result{Err: fmt.Errorf("daemon: no focused monitor")}
	}
	id, ok := ws.FocusedWindow()
	if !ok {
		return Result{Err: fmt.Errorf("daemon: no focused window")}
	}
	d.migrateWindow(id, d.state.FocusedMonitor, order[next])
	return d.cmdQueryFocused()
}

func (d *Daemon) cmdCloseWindow() Result {
	ws, ok := d.state.Workspaces[d.state.FocusedMonitor]
	if !ok {
		return Result{Err: fmt.Errorf("daemon: no focused monitor")}
	}
	id, ok := ws.FocusedWindow()
	if !ok {
		return Result{Err: fmt.Errorf("daemon: no focused window")}
	}
	if err := d.state.Backend.CloseWindow(platformID(id)); err != nil {
		return Result{Err: err}
	}
	return Result{}
}

func (d *Daemon) cmdToggleFloating() Result {
	return d.withFocusedWorkspace(func(ws *layout.Workspace) Result {
		id, ok := ws.FocusedWindow()
		if _, floating := ws.FloatingRect(d.state.FocusedBorder); floating {
			// A floating window wearing the active border holds focus;
			// the workspace's own focus only tracks tiled windows.
			id, ok = d.state.FocusedBorder, true
		}
		if !ok {
			return Result{Err: fmt.Errorf("daemon: no focused window")}
		}
		if rect, floating := ws.FloatingRect(id); floating {
			if err := ws.MakeTiled(id, nil); err != nil {
				return Result{Err: err}
			}
			_ = rect
		} else {
			info, err := d.state.Backend.WindowInfo(platformID(id))
			if err != nil {
				return Result{Err: err}
			}
			rect := layout.Rect{X: info.Bounds.X, Y: info.Bounds.Y, Width: info.Bounds.Width, Height: info.Bounds.Height}
			if err := ws.MakeFloating(id, rect); err != nil {
				return Result{Err: err}
			}
			d.updateFocusBorder(id)
		}
		return d.applyFocused()
	})
}

func (d *Daemon) cmdToggleFullscreen() Result {
	ws, ok := d.state.Workspaces[d.state.FocusedMonitor]
	if !ok {
		return Result{Err: fmt.Errorf("daemon: no focused monitor")}
	}
	id, ok := ws.FocusedWindow()
	if !ok {
		return Result{Err: fmt.Errorf("daemon: no focused window")}
	}
	if rec, full := d.state.Fullscreen[id]; full {
		delete(d.state.Fullscreen, id)
		d.state.Backend.MoveResize(platformID(id), platform.Rect{X: rec.rect.X, Y: rec.rect.Y, Width: rec.rect.Width, Height: rec.rect.Height})
		return Result{}
	}
	info, err := d.state.Backend.WindowInfo(platformID(id))
	if err != nil {
		return Result{Err: err}
	}
	d.state.Fullscreen[id] = fullscreenRecord{
		monitor: d.state.FocusedMonitor,
		rect:    layout.Rect{X: info.Bounds.X, Y: info.Bounds.Y, Width: info.Bounds.Width, Height: info.Bounds.Height},
	}
	viewport := d.viewportFor(d.state.FocusedMonitor)
	d.state.Backend.MoveResize(platformID(id), platform.Rect{X: viewport.X, Y: viewport.Y, Width: viewport.Width, Height: viewport.Height})
	return Result{}
}

func (d *Daemon) cmdRefresh() Result {
	current, err := d.state.Backend.EnumerateWindows()
	if err != nil {
		return Result{Err: err}
	}
	seen := make(map[layout.WindowID]bool, len(current))
	for _, w := range current {
		seen[layout.WindowID(w.ID)] = true
		if _, known := d.state.WindowMonitor[layout.WindowID(w.ID)]; !known {
			d.onCreated(layout.WindowID(w.ID))
		}
	}
	for id := range d.state.WindowMonitor {
		if !seen[id] {
			d.onDestroyed(id)
		}
	}
	d.reconcileMonitors()
	return Result{}
}

func (d *Daemon) cmdReload() Result {
	cfg, path, err := d.loadConfig()
	if err != nil {
		return Result{Err: err}
	}
	if err := d.state.ApplyConfig(cfg, path); err != nil {
		return Result{Err: err}
	}
	if err := d.state.Backend.UnregisterHotkeys(); err != nil {
		d.state.Logger.Warn("unregister hotkeys on reload failed", "error", err)
	}
	if err := d.applyHotkeys(); err != nil {
		return Result{Err: err}
	}
	for id := range d.state.Workspaces {
		d.applyMonitor(id)
	}
	return Result{}
}

func (d *Daemon) cmdQueryWorkspace() Result {
	ws, ok := d.state.Workspaces[d.state.FocusedMonitor]
	if !ok {
		return Result{Err: fmt.Errorf("daemon: no focused monitor")}
	}
	wire := d.wireWorkspace(ws, d.state.FocusedMonitor)
	return Result{Workspace: &wire}
}

func (d *Daemon) cmdQueryFocused() Result {
	ws, ok := d.state.Workspaces[d.state.FocusedMonitor]
	if !ok {
		return Result{Err: fmt.Errorf("daemon: no focused monitor")}
	}
	id, ok := ws.FocusedWindow()
	if !ok {
		return Result{Err: fmt.Errorf("daemon: no focused window")}
	}
	wire := d.wireWindowInfo(id)
	return Result{FocusedWindow: &wire}
}

func (d *Daemon) cmdQueryAllWindows() Result {
	out := make([]WireWindowInfo, 0, len(d.state.WindowMonitor))
	for id := range d.state.WindowMonitor {
		out = append(out, d.wireWindowInfo(id))
	}
	return Result{Windows: out}
}

func (d *Daemon) cmdQueryStatus() Result {
	status := WireStatus{
		Paused:         d.state.Paused,
		MonitorCount:   len(d.state.Monitors),
		WindowCount:    len(d.state.WindowMonitor),
		FocusedMonitor: int64(d.state.FocusedMonitor),
		ConfigPath:     d.state.ConfigPath,
	}
	return Result{Status: &status}
}

// now is the single clock read point for animation timing, so it is
// trivial to stub in tests.
func (d *Daemon) now() time.Time { return time.Now() }
