//go:build !windows

package daemon

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openniri/openniri/internal/config"
	"github.com/openniri/openniri/internal/layout"
	"github.com/openniri/openniri/internal/platform"
)

// newTestDaemon builds a Daemon wired to a StubBackend with a single
// 1920x1080 monitor and the built-in default config applied, skipping the
// disk/hotkey/hook concerns Bootstrap normally handles.
func newTestDaemon(t *testing.T) (*Daemon, *platform.StubBackend) {
	t.Helper()
	backend := platform.NewStubBackend()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := NewDaemon(backend, logger)

	cfg := config.Default()
	require.NoError(t, d.state.ApplyConfig(cfg, ""))

	mon := platform.Monitor{
		ID:       1,
		Bounds:   platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		WorkArea: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		Primary:  true,
	}
	backend.AddMonitor(mon)
	d.state.Monitors[mon.ID] = mon
	ws := layout.NewWorkspaceWithGaps(cfg.Layout.Gap, cfg.Layout.OuterGap)
	ws.SetDefaultColumnWidth(cfg.Layout.DefaultColumnWidth)
	d.state.Workspaces[mon.ID] = ws
	d.state.FocusedMonitor = mon.ID

	return d, backend
}

func addTestWindow(d *Daemon, backend *platform.StubBackend, id layout.WindowID, class, title, exe string) {
	backend.AddWindow(platform.WindowInfo{
		ID:         platform.WindowID(id),
		ClassName:  class,
		Title:      title,
		Executable: exe,
		Bounds:     platform.Rect{X: 0, Y: 0, Width: 400, Height: 300},
	})
	d.onCreated(id)
}

func TestOnCreated_TilesIntoFocusedMonitorWorkspace(t *testing.T) {
	d, backend := newTestDaemon(t)
	addTestWindow(d, backend, 1, "Notepad", "untitled", "notepad.exe")

	ws := d.state.Workspaces[d.state.FocusedMonitor]
	assert.True(t, ws.ContainsWindow(1))
	assert.Equal(t, platform.MonitorID(1), d.state.WindowMonitor[1])
}

func TestOnCreated_IgnoreRuleSkipsWindow(t *testing.T) {
	d, backend := newTestDaemon(t)
	d.state.Rules = []compiledRule{{matchExecutable: "explorer.exe", action: config.RuleActionIgnore}}
	addTestWindow(d, backend, 1, "Shell_TrayWnd", "", "explorer.exe")

	_, known := d.state.WindowMonitor[1]
	assert.False(t, known)
}

func TestOnCreated_FloatRuleMakesWindowFloating(t *testing.T) {
	d, backend := newTestDaemon(t)
	d.state.Rules = []compiledRule{{matchExecutable: "calc.exe", action: config.RuleActionFloat, width: 300, height: 200}}
	addTestWindow(d, backend, 1, "CalcFrame", "Calculator", "calc.exe")

	ws := d.state.Workspaces[d.state.FocusedMonitor]
	rect, floating := ws.FloatingRect(1)
	require.True(t, floating)
	assert.Equal(t, 300, rect.Width)
	assert.Equal(t, 200, rect.Height)
}

func TestOnDestroyed_RemovesFromWorkspaceAndState(t *testing.T) {
	d, backend := newTestDaemon(t)
	addTestWindow(d, backend, 1, "Notepad", "", "notepad.exe")
	d.state.FocusedBorder = 1

	backend.RemoveWindow(platform.WindowID(1))
	d.onDestroyed(1)

	_, known := d.state.WindowMonitor[1]
	assert.False(t, known)
	assert.Equal(t, layout.WindowID(0), d.state.FocusedBorder)
}

func TestDispatch_FocusMoveCommandsAreNoOpOnEmptyWorkspace(t *testing.T) {
	d, _ := newTestDaemon(t)
	result := d.Dispatch(Request{Cmd: "focus_left"})
	assert.NoError(t, result.Err)
}

func TestDispatch_UnknownCommandReturnsError(t *testing.T) {
	d, _ := newTestDaemon(t)
	result := d.Dispatch(Request{Cmd: "not_a_real_command"})
	assert.Error(t, result.Err)
}

func TestDispatch_CloseWindowClosesFocusedWindow(t *testing.T) {
	d, backend := newTestDaemon(t)
	addTestWindow(d, backend, 1, "Notepad", "", "notepad.exe")

	result := d.Dispatch(Request{Cmd: "close_window"})
	require.NoError(t, result.Err)
	assert.False(t, backend.IsWindow(platform.WindowID(1)))
}

func TestDispatch_CloseWindow_NoFocusedWindowErrors(t *testing.T) {
	d, _ := newTestDaemon(t)
	result := d.Dispatch(Request{Cmd: "close_window"})
	assert.Error(t, result.Err)
}

func TestDispatch_ToggleFloatingRoundTrips(t *testing.T) {
	d, backend := newTestDaemon(t)
	addTestWindow(d, backend, 1, "Notepad", "", "notepad.exe")

	require.NoError(t, d.Dispatch(Request{Cmd: "toggle_floating"}).Err)
	ws := d.state.Workspaces[d.state.FocusedMonitor]
	_, floating := ws.FloatingRect(1)
	assert.True(t, floating)

	require.NoError(t, d.Dispatch(Request{Cmd: "toggle_floating"}).Err)
	_, floating = ws.FloatingRect(1)
	assert.False(t, floating)
}

func TestDispatch_SetColumnWidthModes(t *testing.T) {
	d, backend := newTestDaemon(t)
	addTestWindow(d, backend, 1, "Notepad", "", "notepad.exe")

	require.NoError(t, d.Dispatch(Request{Cmd: "set_column_width", WidthMode: ColumnWidthHalf}).Err)
	ws := d.state.Workspaces[d.state.FocusedMonitor]
	assert.Equal(t, 1920/2, ws.Column(0).Width())
}

func TestDispatch_SetColumnWidth_UnknownModeErrors(t *testing.T) {
	d, backend := newTestDaemon(t)
	addTestWindow(d, backend, 1, "Notepad", "", "notepad.exe")

	result := d.Dispatch(Request{Cmd: "set_column_width", WidthMode: "nonsense"})
	assert.Error(t, result.Err)
}

func TestDispatch_QueryStatusReportsCounts(t *testing.T) {
	d, backend := newTestDaemon(t)
	addTestWindow(d, backend, 1, "Notepad", "", "notepad.exe")

	result := d.Dispatch(Request{Cmd: "query_status"})
	require.NoError(t, result.Err)
	require.NotNil(t, result.Status)
	assert.Equal(t, 1, result.Status.MonitorCount)
	assert.Equal(t, 1, result.Status.WindowCount)
}

func TestDispatch_QueryWorkspace_NoFocusedMonitorErrors(t *testing.T) {
	d, _ := newTestDaemon(t)
	d.state.FocusedMonitor = 999
	result := d.Dispatch(Request{Cmd: "query_workspace"})
	assert.Error(t, result.Err)
}

func TestReconcileMonitors_MigratesWindowsFromRemovedMonitor(t *testing.T) {
	d, backend := newTestDaemon(t)
	addTestWindow(d, backend, 1, "Notepad", "", "notepad.exe")

	secondary := platform.Monitor{
		ID:       2,
		Bounds:   platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080},
		WorkArea: platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080},
		Primary:  true,
	}
	backend.AddMonitor(secondary)
	d.reconcileMonitors()
	require.Contains(t, d.state.Workspaces, platform.MonitorID(2))

	backend.RemoveMonitor(platform.MonitorID(1))
	d.reconcileMonitors()

	assert.NotContains(t, d.state.Workspaces, platform.MonitorID(1))
	ws2 := d.state.Workspaces[platform.MonitorID(2)]
	require.NotNil(t, ws2)
	assert.True(t, ws2.ContainsWindow(1))
}

func TestApplyMonitor_MovesVisibleWindowsAndUncloaksThem(t *testing.T) {
	d, backend := newTestDaemon(t)
	addTestWindow(d, backend, 1, "Notepad", "", "notepad.exe")

	d.applyMonitor(d.state.FocusedMonitor)

	info, err := backend.WindowInfo(platform.WindowID(1))
	require.NoError(t, err)
	assert.Greater(t, info.Bounds.Width, 0)
	assert.False(t, backend.IsCloaked(platform.WindowID(1)))
}

func TestEvaluateRules_FirstMatchWins(t *testing.T) {
	rules, err := compileRules([]config.WindowRuleConfig{
		{MatchExecutable: "chrome.exe", Action: config.RuleActionFloat},
		{MatchExecutable: "chrome.exe", Action: config.RuleActionIgnore},
	})
	require.NoError(t, err)

	action, _, _ := evaluateRules(rules, "Chrome_WidgetWin_1", "", "chrome.exe")
	assert.Equal(t, config.RuleActionFloat, action)
}

func TestEvaluateRules_DefaultsToTileWhenNothingMatches(t *testing.T) {
	action, _, _ := evaluateRules(nil, "AnyClass", "Any Title", "any.exe")
	assert.Equal(t, config.RuleActionTile, action)
}

func TestEvaluateRules_MatchExecutableIsExactNotSubstring(t *testing.T) {
	rules, err := compileRules([]config.WindowRuleConfig{
		{MatchExecutable: "code.exe", Action: config.RuleActionIgnore},
	})
	require.NoError(t, err)

	action, _, _ := evaluateRules(rules, "Chrome_WidgetWin_1", "", "vscode.exe")
	assert.Equal(t, config.RuleActionTile, action, "vscode.exe must not match a code.exe rule")

	action, _, _ = evaluateRules(rules, "Chrome_WidgetWin_1", "", "notecode.exe")
	assert.Equal(t, config.RuleActionTile, action, "notecode.exe must not match a code.exe rule")

	action, _, _ = evaluateRules(rules, "Chrome_WidgetWin_1", "", "CODE.EXE")
	assert.Equal(t, config.RuleActionIgnore, action, "match_executable is case-insensitive")
}

func TestCompileRules_RejectsInvalidRegex(t *testing.T) {
	_, err := compileRules([]config.WindowRuleConfig{{MatchClass: "[", Action: config.RuleActionTile}})
	assert.Error(t, err)
}

func TestRestoreWorkspace_KeepsStackedColumnTogether(t *testing.T) {
	d, _ := newTestDaemon(t)
	ws := d.state.Workspaces[d.state.FocusedMonitor]

	saved := persistedWorkspace{
		MonitorDeviceName:  "primary",
		DefaultColumnWidth: 800,
		Columns: []persistedColumn{
			{
				Width: 800,
				Windows: []persistedWindow{
					{ClassName: "A", Executable: "a.exe"},
					{ClassName: "B", Executable: "b.exe"},
					{ClassName: "C", Executable: "c.exe"},
				},
			},
		},
	}
	live := map[windowIdentity][]layout.WindowID{
		identityKey("A", "a.exe"): {1},
		identityKey("B", "b.exe"): {2},
		identityKey("C", "c.exe"): {3},
	}

	d.restoreWorkspace(d.state.FocusedMonitor, saved, live)

	require.Len(t, ws.Columns(), 1, "three stacked windows must restore into one column, not three")
	assert.Equal(t, []layout.WindowID{1, 2, 3}, ws.Column(0).Windows())
}

func TestCmdToggleFullscreen_SurvivesSubsequentApplyMonitor(t *testing.T) {
	d, backend := newTestDaemon(t)
	addTestWindow(d, backend, 1, "Notepad", "", "notepad.exe")
	addTestWindow(d, backend, 2, "Notepad", "", "notepad.exe")

	require.NoError(t, d.Dispatch(Request{Cmd: "toggle_fullscreen"}).Err)

	viewport := d.viewportFor(d.state.FocusedMonitor)
	info, err := backend.WindowInfo(platform.WindowID(2))
	require.NoError(t, err)
	require.Equal(t, viewport.Width, info.Bounds.Width)
	require.Equal(t, viewport.Height, info.Bounds.Height)

	require.NoError(t, d.Dispatch(Request{Cmd: "focus_left"}).Err)

	info, err = backend.WindowInfo(platform.WindowID(2))
	require.NoError(t, err)
	assert.Equal(t, viewport.Width, info.Bounds.Width, "fullscreened window must stay full-viewport after an unrelated command")
	assert.Equal(t, viewport.Height, info.Bounds.Height)
}
