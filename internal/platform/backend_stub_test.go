//go:build !windows

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubBackend_MonitorsAndWindowsRoundTrip(t *testing.T) {
	b := NewStubBackend()
	b.AddMonitor(Monitor{ID: 1, Bounds: Rect{Width: 1920, Height: 1080}, Primary: true})
	b.AddWindow(WindowInfo{ID: 10, ClassName: "Notepad", Executable: "notepad.exe"})

	monitors, err := b.Monitors()
	require.NoError(t, err)
	require.Len(t, monitors, 1)
	assert.True(t, monitors[0].Primary)

	windows, err := b.EnumerateWindows()
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, WindowID(10), windows[0].ID)

	assert.True(t, b.IsWindow(10))
	b.RemoveWindow(10)
	assert.False(t, b.IsWindow(10))
}

func TestStubBackend_WindowInfo_UnknownReturnsError(t *testing.T) {
	b := NewStubBackend()
	_, err := b.WindowInfo(99)
	assert.Error(t, err)
}

func TestStubBackend_MoveResizeUpdatesBounds(t *testing.T) {
	b := NewStubBackend()
	b.AddWindow(WindowInfo{ID: 1})

	require.NoError(t, b.MoveResize(1, Rect{X: 5, Y: 5, Width: 100, Height: 200}))
	info, err := b.WindowInfo(1)
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 5, Y: 5, Width: 100, Height: 200}, info.Bounds)
}

func TestStubBackend_MoveResize_UnknownWindowErrors(t *testing.T) {
	b := NewStubBackend()
	assert.Error(t, b.MoveResize(404, Rect{}))
}

func TestStubBackend_BatchCommitAppliesAllBounds(t *testing.T) {
	b := NewStubBackend()
	b.AddWindow(WindowInfo{ID: 1})
	b.AddWindow(WindowInfo{ID: 2})

	batch := b.BeginBatch(1, 2)
	batch.Add(1, Rect{X: 0, Y: 0, Width: 300, Height: 400})
	batch.Add(2, Rect{X: 300, Y: 0, Width: 300, Height: 400})
	_, err := batch.Commit()
	require.NoError(t, err)

	info1, _ := b.WindowInfo(1)
	info2, _ := b.WindowInfo(2)
	assert.Equal(t, 0, info1.Bounds.X)
	assert.Equal(t, 300, info2.Bounds.X)
}

func TestStubBackend_CloakTracking(t *testing.T) {
	b := NewStubBackend()
	b.AddWindow(WindowInfo{ID: 1})

	assert.False(t, b.IsCloaked(1))
	require.NoError(t, b.SetCloaked(1, true))
	assert.True(t, b.IsCloaked(1))
	require.NoError(t, b.SetCloaked(1, false))
	assert.False(t, b.IsCloaked(1))
}

func TestStubBackend_CloseWindowRemovesIt(t *testing.T) {
	b := NewStubBackend()
	b.AddWindow(WindowInfo{ID: 1})

	require.NoError(t, b.CloseWindow(1))
	assert.False(t, b.IsWindow(1))
	assert.Error(t, b.CloseWindow(1))
}

func TestStubBackend_ForegroundWindow_UnknownErrors(t *testing.T) {
	b := NewStubBackend()
	assert.Error(t, b.ForegroundWindow(1))
	b.AddWindow(WindowInfo{ID: 1})
	assert.NoError(t, b.ForegroundWindow(1))
}

func TestStubBackend_HotkeyRegistrationTracksLastCall(t *testing.T) {
	b := NewStubBackend()
	regs := []HotkeyRegistration{{ID: 1, Modifiers: 0x0008, VKCode: 0x4C}}
	require.NoError(t, b.RegisterHotkeys(regs))
	assert.Equal(t, regs, b.hotkeys)

	require.NoError(t, b.UnregisterHotkeys())
	assert.Nil(t, b.hotkeys)
}

func TestStubBackend_EmitDeliversOnEventsChannel(t *testing.T) {
	b := NewStubBackend()
	b.Emit(Event{Kind: EventCreated, WindowID: 7})

	select {
	case ev := <-b.Events():
		assert.Equal(t, WindowID(7), ev.WindowID)
	default:
		t.Fatal("expected event to be immediately available")
	}
}

func TestStubBackend_SetFocusFollowsMouseTracksState(t *testing.T) {
	b := NewStubBackend()
	require.NoError(t, b.SetFocusFollowsMouse(true))
	assert.True(t, b.ffMouse)
}
