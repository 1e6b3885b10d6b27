// Package daemon owns the single-threaded cooperative event loop that
// aggregates per-monitor layout state, dispatches commands from IPC,
// hotkeys, and gestures, and reconciles platform window/monitor events
// into it. Nothing outside the loop goroutine touches AppState.
package daemon

import (
	"log/slog"

	"github.com/openniri/openniri/internal/config"
	"github.com/openniri/openniri/internal/hotkeys"
	"github.com/openniri/openniri/internal/layout"
	"github.com/openniri/openniri/internal/platform"
)

// windowMeta caches the platform-reported identity of a managed window so
// rule re-evaluation, persistence matching, and IPC WindowInfo responses
// don't need to re-query the OS.
type windowMeta struct {
	ClassName  string
	Title      string
	Executable string
	ProcessID  uint32
}

// fullscreenRecord remembers a window's placement from just before it was
// made fullscreen, so toggling fullscreen off restores it.
type fullscreenRecord struct {
	monitor platform.MonitorID
	rect    layout.Rect
}

// AppState is the daemon's complete mutable state. Every field is only
// ever read or written from the event loop goroutine (see loop.go); there
// is deliberately no mutex here, matching the single-threaded-loop
// concurrency model.
type AppState struct {
	Backend platform.Backend
	Logger  *slog.Logger

	Config     *config.Config
	ConfigPath string

	Workspaces     map[platform.MonitorID]*layout.Workspace
	Monitors       map[platform.MonitorID]platform.Monitor
	FocusedMonitor platform.MonitorID

	Rules       []compiledRule
	HotkeyTable *hotkeys.Table

	VisibilityStrategy     platform.VisibilityStrategy
	UseDeferredPositioning bool

	Paused bool

	WindowMonitor map[layout.WindowID]platform.MonitorID
	WindowMeta    map[layout.WindowID]windowMeta
	Fullscreen    map[layout.WindowID]fullscreenRecord
	FocusedBorder layout.WindowID // window currently wearing the active border, 0 if none

	pendingFFMouse *ffMouseDebounce
}

// NewAppState builds an empty state; Daemon.Bootstrap populates Monitors
// and Workspaces before the event loop starts.
func NewAppState(backend platform.Backend, logger *slog.Logger) *AppState {
	return &AppState{
		Backend:       backend,
		Logger:        logger,
		Workspaces:    make(map[platform.MonitorID]*layout.Workspace),
		Monitors:      make(map[platform.MonitorID]platform.Monitor),
		WindowMonitor: make(map[layout.WindowID]platform.MonitorID),
		WindowMeta:    make(map[layout.WindowID]windowMeta),
		Fullscreen:    make(map[layout.WindowID]fullscreenRecord),
	}
}

// ApplyConfig installs cfg as current, recompiling rules and the hotkey
// table, and pushes the layout constants (gaps, default column width,
// centering mode) onto every existing workspace. It does not touch live
// hotkey registration; callers (Reload, startup) apply that separately
// once this succeeds.
func (s *AppState) ApplyConfig(cfg *config.Config, path string) error {
	rules, err := compileRules(cfg.WindowRules)
	if err != nil {
		return err
	}
	entries := make(map[string]string, len(cfg.Hotkeys))
	for _, hk := range cfg.Hotkeys {
		entries[hk.Chord] = hk.Command
	}
	table, err := hotkeys.Compile(entries)
	if err != nil {
		return err
	}

	s.Config = cfg
	s.ConfigPath = path
	s.Rules = rules
	s.HotkeyTable = table
	if cfg.Appearance.UseCloaking {
		s.VisibilityStrategy = platform.Cloak
	} else {
		s.VisibilityStrategy = platform.MoveOffScreen
	}
	s.UseDeferredPositioning = cfg.Appearance.UseDeferredPositioning

	for _, ws := range s.Workspaces {
		ws.SetGap(cfg.Layout.Gap)
		ws.SetOuterGap(cfg.Layout.OuterGap)
		ws.SetDefaultColumnWidth(cfg.Layout.DefaultColumnWidth)
		if cfg.Layout.CenteringMode == config.CenteringModeJustInView {
			ws.SetCenteringMode(layout.JustInViewMode)
		} else {
			ws.SetCenteringMode(layout.CenterMode)
		}
	}
	return nil
}

// workspaceFor returns the workspace a window currently belongs to, if
// it is tracked anywhere.
func (s *AppState) workspaceFor(id layout.WindowID) (*layout.Workspace, platform.MonitorID, bool) {
	mon, ok := s.WindowMonitor[id]
	if !ok {
		return nil, 0, false
	}
	ws, ok := s.Workspaces[mon]
	return ws, mon, ok
}

// monitorIDsByXOrder returns monitor IDs sorted by their bounds'
// left edge, the ordering FocusMonitorLeft/Right and
// MoveWindowToMonitorLeft/Right use.
func (s *AppState) monitorIDsByXOrder() []platform.MonitorID {
	ids := make([]platform.MonitorID, 0, len(s.Monitors))
	for id := range s.Monitors {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && s.Monitors[ids[j-1]].Bounds.X > s.Monitors[ids[j]].Bounds.X; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

func (s *AppState) primaryMonitorID() (platform.MonitorID, bool) {
	for id, m := range s.Monitors {
		if m.Primary {
			return id, true
		}
	}
	for id := range s.Monitors {
		return id, true
	}
	return 0, false
}

func (s *AppState) viewportFor(monitorID platform.MonitorID) layout.Rect {
	m := s.Monitors[monitorID]
	return layout.Rect{X: m.WorkArea.X, Y: m.WorkArea.Y, Width: m.WorkArea.Width, Height: m.WorkArea.Height}
}
