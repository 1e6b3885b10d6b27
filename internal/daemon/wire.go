package daemon

import (
	"github.com/openniri/openniri/internal/layout"
	"github.com/openniri/openniri/internal/platform"
)

// WireRect mirrors layout.Rect for JSON, so the wire format is stable
// even if the layout package's internal representation changes.
type WireRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WireWindowInfo is the §6 IPC WindowInfo shape.
type WireWindowInfo struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	ClassName   string   `json:"class_name"`
	ProcessID   uint32   `json:"process_id"`
	Executable  string   `json:"executable"`
	Rect        WireRect `json:"rect"`
	ColumnIndex *int     `json:"column_index"`
	WindowIndex *int     `json:"window_index"`
	MonitorID   int64    `json:"monitor_id"`
	IsFloating  bool     `json:"is_floating"`
	IsFocused   bool     `json:"is_focused"`
}

// WireColumn is one column of a WireWorkspace.
type WireColumn struct {
	Width   int      `json:"width"`
	Windows []uint64 `json:"windows"`
}

// WireWorkspace is the serialized form of a layout.Workspace returned by
// query_workspace. The persistence snapshot uses its own identity-keyed
// types (persistence.go), not this one.
type WireWorkspace struct {
	MonitorID             int64               `json:"monitor_id"`
	Gap                   int                 `json:"gap"`
	OuterGap              int                 `json:"outer_gap"`
	DefaultColumnWidth    int                 `json:"default_column_width"`
	CenteringMode         string              `json:"centering_mode"`
	ScrollOffset          float64             `json:"scroll_offset"`
	FocusedColumn         int                 `json:"focused_column"`
	FocusedWindowInColumn int                 `json:"focused_window_in_column"`
	Columns               []WireColumn        `json:"columns"`
	Floating              map[uint64]WireRect `json:"floating"`
}

// WireStatus is the query_status payload.
type WireStatus struct {
	Paused         bool   `json:"paused"`
	MonitorCount   int    `json:"monitor_count"`
	WindowCount    int    `json:"window_count"`
	FocusedMonitor int64  `json:"focused_monitor"`
	ConfigPath     string `json:"config_path"`
}

func (d *Daemon) wireWindowInfo(id layout.WindowID) WireWindowInfo {
	meta := d.state.WindowMeta[id]
	mon := d.state.WindowMonitor[id]
	ws := d.state.Workspaces[mon]

	w := WireWindowInfo{
		ID:         uint64(id),
		Title:      meta.Title,
		ClassName:  meta.ClassName,
		ProcessID:  meta.ProcessID,
		Executable: meta.Executable,
		MonitorID:  int64(mon),
	}

	if info, err := d.state.Backend.WindowInfo(platformID(id)); err == nil {
		w.Rect = WireRect{X: info.Bounds.X, Y: info.Bounds.Y, Width: info.Bounds.Width, Height: info.Bounds.Height}
	}

	if ws != nil {
		if rect, floating := ws.FloatingRect(id); floating {
			w.IsFloating = true
			w.Rect = WireRect{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height}
		} else if col, idx, found := ws.FindWindowLocation(id); found {
			w.ColumnIndex = &col
			w.WindowIndex = &idx
		}
		if focused, ok := ws.FocusedWindow(); ok && focused == id && mon == d.state.FocusedMonitor {
			w.IsFocused = true
		}
	}
	return w
}

func (d *Daemon) wireWorkspace(ws *layout.Workspace, monitorID platform.MonitorID) WireWorkspace {
	mode := "center"
	if ws.CenteringMode() == layout.JustInViewMode {
		mode = "just_in_view"
	}
	columns := make([]WireColumn, 0, ws.ColumnCount())
	for i := 0; i < ws.ColumnCount(); i++ {
		col := ws.Column(i)
		ids := make([]uint64, 0, col.Len())
		for _, id := range col.Windows() {
			ids = append(ids, uint64(id))
		}
		columns = append(columns, WireColumn{Width: col.Width(), Windows: ids})
	}
	floating := make(map[uint64]WireRect, len(ws.FloatingWindows()))
	for id, r := range ws.FloatingWindows() {
		floating[uint64(id)] = WireRect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
	}
	return WireWorkspace{
		MonitorID:             int64(monitorID),
		Gap:                   ws.Gap(),
		OuterGap:              ws.OuterGap(),
		DefaultColumnWidth:    ws.DefaultColumnWidth(),
		CenteringMode:         mode,
		ScrollOffset:          ws.ScrollOffset(),
		FocusedColumn:         ws.FocusedColumnIndex(),
		FocusedWindowInColumn: ws.FocusedWindowIndexInColumn(),
		Columns:               columns,
		Floating:              floating,
	}
}
