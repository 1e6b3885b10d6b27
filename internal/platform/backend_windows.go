//go:build windows

package platform

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/openniri/openniri/internal/gesture"
)

// Win32Backend drives the real desktop via user32/dwmapi/kernel32, the
// same set of DLLs the original Win32 platform layer was scoped to.
//
// RegisterHotKey delivers WM_HOTKEY to the calling thread's message
// queue, so hotkey registration and the message pump that observes
// WM_HOTKEY must run on the same OS thread. hotkeyReqs carries
// register/unregister requests onto that dedicated, thread-locked
// goroutine started by Init.
type Win32Backend struct {
	events chan Event

	mu            sync.Mutex
	winEventHooks []uintptr
	mouseHook     uintptr
	gestures      *gesture.Accumulator

	hotkeyReqs chan hotkeyRequest
}

type hotkeyRequest struct {
	regs  []HotkeyRegistration // nil means "unregister everything"
	reply chan error
}

var _ Backend = (*Win32Backend)(nil)

// NewBackend returns the platform's default Backend implementation.
func NewBackend() Backend {
	return NewWin32Backend()
}

// NewWin32Backend constructs an unstarted backend; call Init before use.
func NewWin32Backend() *Win32Backend {
	return &Win32Backend{
		events:     make(chan Event, 256),
		hotkeyReqs: make(chan hotkeyRequest, 4),
		gestures:   gesture.NewAccumulator(),
	}
}

// Lazy DLL handles. NewLazySystemDLL resolves from %SystemRoot%\System32
// rather than trusting PATH, matching the safe-loading convention the
// windows package itself uses for its own procs.
var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	dwmapi = windows.NewLazySystemDLL("dwmapi.dll")
	shcore = windows.NewLazySystemDLL("shcore.dll")

	procEnumWindows               = user32.NewProc("EnumWindows")
	procGetWindowTextW            = user32.NewProc("GetWindowTextW")
	procGetClassNameW             = user32.NewProc("GetClassNameW")
	procGetWindowThreadProcessId  = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowRect             = user32.NewProc("GetWindowRect")
	procIsWindowVisible           = user32.NewProc("IsWindowVisible")
	procIsWindow                  = user32.NewProc("IsWindow")
	procGetWindowLongPtrW         = user32.NewProc("GetWindowLongPtrW")
	procSetWindowPos              = user32.NewProc("SetWindowPos")
	procBeginDeferWindowPos       = user32.NewProc("BeginDeferWindowPos")
	procDeferWindowPos            = user32.NewProc("DeferWindowPos")
	procEndDeferWindowPos         = user32.NewProc("EndDeferWindowPos")
	procSetForegroundWindow       = user32.NewProc("SetForegroundWindow")
	procPostMessageW              = user32.NewProc("PostMessageW")
	procEnumDisplayMonitors       = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW           = user32.NewProc("GetMonitorInfoW")
	procSetWinEventHook           = user32.NewProc("SetWinEventHook")
	procUnhookWinEvent            = user32.NewProc("UnhookWinEvent")
	procSetWindowsHookExW         = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx       = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx            = user32.NewProc("CallNextHookEx")
	procRegisterHotKey            = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey          = user32.NewProc("UnregisterHotKey")
	procPeekMessageW              = user32.NewProc("PeekMessageW")
	procMsgWaitForMultipleObjects = user32.NewProc("MsgWaitForMultipleObjects")

	procDwmSetWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")

	procSetProcessDpiAwarenessContext = user32.NewProc("SetProcessDpiAwarenessContext")
	procSetProcessDpiAwareness        = shcore.NewProc("SetProcessDpiAwareness")
)

const (
	swHide            = 0
	swShowNoActivate  = 4
	hwndTop           = 0
	hwndNoTopMost     = ^uintptr(1) // -2
	swpNoActivate     = 0x0010
	swpNoZOrder       = 0x0004
	swpShowWindow     = 0x0040
	swpHideWindow     = 0x0080
	swpNoSendChanging = 0x0400

	gwlExStyle     = -20
	wsExToolWindow = 0x00000080

	dwmwaCloak = 13

	eventObjectCreate         = 0x8000
	eventObjectDestroy        = 0x8001
	eventObjectLocationChange = 0x800B
	eventSystemForeground     = 0x0003
	eventSystemMinimizeStart  = 0x0016
	eventSystemMinimizeEnd    = 0x0017
	eventSystemDisplayChange  = 0x0007
	winEventOutOfContext      = 0x0000
	winEventSkipOwnProcess    = 0x0002

	whMouseLL     = 14
	wmMouseMove   = 0x0200
	wmMouseWheel  = 0x020A
	wmMouseHWheel = 0x020E

	modAlt     = 0x0001
	modControl = 0x0002
	modShift   = 0x0004
	modWin     = 0x0008
	wmHotkey   = 0x0312

	dpiAwarenessContextPerMonitorAwareV2 = ^uintptr(3) // -4, DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2
	processPerMonitorDpiAware            = 2
)

type win32Rect struct {
	Left, Top, Right, Bottom int32
}

func (r win32Rect) toRect() Rect {
	return Rect{X: int(r.Left), Y: int(r.Top), Width: int(r.Right - r.Left), Height: int(r.Bottom - r.Top)}
}

type monitorInfoEx struct {
	CbSize     uint32
	Monitor    win32Rect
	WorkArea   win32Rect
	Flags      uint32
	DeviceName [32]uint16
}

const monitorInfoFPrimary = 0x0001

// Init declares per-monitor DPI awareness and installs the WinEvent hooks
// that drive window lifecycle and display-change notifications. It does
// not install the mouse hook or register hotkeys; those activate lazily
// via SetFocusFollowsMouse and RegisterHotkeys once the daemon has loaded
// its configuration.
func (b *Win32Backend) Init() error {
	// Best-effort: prefer the Win10 1703+ context API, fall back to the
	// shcore per-process awareness call on older systems.
	if procSetProcessDpiAwarenessContext.Find() == nil {
		procSetProcessDpiAwarenessContext.Call(dpiAwarenessContextPerMonitorAwareV2)
	} else if procSetProcessDpiAwareness.Find() == nil {
		procSetProcessDpiAwareness.Call(uintptr(processPerMonitorDpiAware))
	}

	hookSpecs := []struct{ min, max uint32 }{
		{eventObjectCreate, eventObjectCreate},
		{eventObjectDestroy, eventObjectDestroy},
		{eventSystemForeground, eventSystemForeground},
		{eventObjectLocationChange, eventObjectLocationChange},
		{eventSystemMinimizeStart, eventSystemMinimizeEnd},
		{eventSystemDisplayChange, eventSystemDisplayChange},
	}
	cb := syscall.NewCallback(b.winEventProc)
	for _, spec := range hookSpecs {
		h, _, _ := procSetWinEventHook.Call(
			uintptr(spec.min), uintptr(spec.max),
			0, cb, 0, 0,
			uintptr(winEventOutOfContext|winEventSkipOwnProcess),
		)
		if h == 0 {
			return &Win32Error{Func: "SetWinEventHook", Code: 0}
		}
		b.winEventHooks = append(b.winEventHooks, h)
	}

	go b.hotkeyThread()
	return nil
}

// hotkeyThread owns every RegisterHotKey/UnregisterHotKey call and runs
// the PeekMessage/MsgWaitForMultipleObjects loop that observes the resulting WM_HOTKEY messages. It
// never returns; the backend has no mechanism to stop it short of
// process exit, which is acceptable since Shutdown only needs the hotkeys
// unregistered, not the thread joined.
func (b *Win32Backend) hotkeyThread() {
	runtime.LockOSThread()

	current := map[int32]HotkeyRegistration{}
	applyUnregisterAll := func() {
		for id := range current {
			procUnregisterHotKey.Call(0, uintptr(id))
		}
		current = map[int32]HotkeyRegistration{}
	}

	for {
		select {
		case req := <-b.hotkeyReqs:
			applyUnregisterAll()
			var err error
			for _, r := range req.regs {
				ret, _, _ := procRegisterHotKey.Call(0, uintptr(r.ID), uintptr(r.Modifiers), uintptr(r.VKCode))
				if ret == 0 {
					err = &Win32Error{Func: fmt.Sprintf("RegisterHotKey(id=%d)", r.ID), Code: 0}
					break
				}
				current[int32(r.ID)] = r
			}
			if req.reply != nil {
				req.reply <- err
			}
		default:
			var msg struct {
				Hwnd    uintptr
				Message uint32
				WParam  uintptr
				LParam  uintptr
				Time    uint32
				Pt      struct{ X, Y int32 }
			}
			ret, _, _ := procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0, 1 /* PM_REMOVE */)
			if ret != 0 {
				if msg.Message == wmHotkey {
					if reg, ok := current[int32(msg.WParam)]; ok {
						b.postEvent(Event{Kind: EventHotkey, ChordID: reg.ID})
					}
				}
				continue
			}
			// No pending request or message: yield briefly so this
			// thread does not spin the CPU while idle.
			procMsgWaitForMultipleObjects.Call(0, 0, 0, 50, 0x04FF /* QS_ALLINPUT */)
		}
	}
}

func (b *Win32Backend) Events() <-chan Event { return b.events }

func (b *Win32Backend) post(kind EventKind, id WindowID) {
	b.postEvent(Event{Kind: kind, WindowID: id})
}

func (b *Win32Backend) postEvent(ev Event) {
	select {
	case b.events <- ev:
	default:
		// Channel saturated; drop rather than block the hook thread.
		// A full reconciliation pass (EventDisplayChange or a manual
		// refresh) recovers from any event this loses.
	}
}

func (b *Win32Backend) winEventProc(hWinEventHook, event uintptr, hwnd uintptr, idObject, idChild int32, idEventThread, dwmsEventTime uint32) uintptr {
	if idObject != 0 /* OBJID_WINDOW */ {
		return 0
	}
	switch uint32(event) {
	case eventObjectCreate:
		b.post(EventCreated, WindowID(hwnd))
	case eventObjectDestroy:
		b.post(EventDestroyed, WindowID(hwnd))
	case eventSystemForeground:
		b.post(EventFocused, WindowID(hwnd))
	case eventObjectLocationChange:
		b.post(EventMovedOrResized, WindowID(hwnd))
	case eventSystemMinimizeStart:
		b.post(EventMinimized, WindowID(hwnd))
	case eventSystemMinimizeEnd:
		b.post(EventRestored, WindowID(hwnd))
	case eventSystemDisplayChange:
		b.post(EventDisplayChange, 0)
	}
	return 0
}

func (b *Win32Backend) Monitors() ([]Monitor, error) {
	var out []Monitor
	cb := syscall.NewCallback(func(hMonitor, hdcMonitor uintptr, lprcMonitor, dwData uintptr) uintptr {
		var mi monitorInfoEx
		mi.CbSize = uint32(unsafe.Sizeof(mi))
		ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&mi)))
		if ret == 0 {
			return 1
		}
		out = append(out, Monitor{
			ID:         MonitorID(hMonitor),
			DeviceName: windows.UTF16ToString(mi.DeviceName[:]),
			Bounds:     mi.Monitor.toRect(),
			WorkArea:   mi.WorkArea.toRect(),
			Primary:    mi.Flags&monitorInfoFPrimary != 0,
		})
		return 1
	})
	ret, _, _ := procEnumDisplayMonitors.Call(0, 0, cb, 0)
	if ret == 0 {
		return nil, &Win32Error{Func: "EnumDisplayMonitors", Code: 0}
	}
	return out, nil
}

func (b *Win32Backend) EnumerateWindows() ([]WindowInfo, error) {
	var out []WindowInfo
	cb := syscall.NewCallback(func(hwnd, lparam uintptr) uintptr {
		if w, ok := b.describeWindow(hwnd); ok {
			out = append(out, w)
		}
		return 1
	})
	ret, _, _ := procEnumWindows.Call(cb, 0)
	if ret == 0 {
		return nil, &Win32Error{Func: "EnumWindows", Code: 0}
	}
	return out, nil
}

// describeWindow gathers metadata for one HWND and applies the
// manageability filter: visible, unowned, non-tool, non-empty-titled,
// non-cloaked.
func (b *Win32Backend) describeWindow(hwnd uintptr) (WindowInfo, bool) {
	visible, _, _ := procIsWindowVisible.Call(hwnd)
	if visible == 0 {
		return WindowInfo{}, false
	}
	const gwOwner = 4
	if owner, _, _ := user32.NewProc("GetWindow").Call(hwnd, gwOwner); owner != 0 {
		return WindowInfo{}, false
	}
	gwlExStyleIndex := int32(gwlExStyle)
	exStyle, _, _ := procGetWindowLongPtrW.Call(hwnd, uintptr(gwlExStyleIndex))
	if exStyle&wsExToolWindow != 0 {
		return WindowInfo{}, false
	}

	var cloaked uint32
	isCloaked(hwnd, &cloaked)
	if cloaked != 0 {
		return WindowInfo{}, false
	}

	title := windowText(hwnd)
	if title == "" {
		return WindowInfo{}, false
	}
	class := windowClassName(hwnd)

	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))

	var r win32Rect
	procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))

	exe := executableNameForPID(pid)

	return WindowInfo{
		ID:         WindowID(hwnd),
		Title:      title,
		ClassName:  class,
		ProcessID:  pid,
		Executable: exe,
		Bounds:     r.toRect(),
	}, true
}

func (b *Win32Backend) WindowInfo(id WindowID) (WindowInfo, error) {
	w, ok := b.describeWindow(uintptr(id))
	if !ok {
		return WindowInfo{}, fmt.Errorf("platform: window %d not found or not manageable", id)
	}
	return w, nil
}

func (b *Win32Backend) IsWindow(id WindowID) bool {
	ret, _, _ := procIsWindow.Call(uintptr(id))
	return ret != 0
}

// win32Batch accumulates DeferWindowPos calls for one monitor.
type win32Batch struct {
	handle  uintptr
	queued  []WindowID
	pending []WindowID
	broken  bool
}

func (b *Win32Backend) BeginBatch(monitorID MonitorID, count int) BatchHandle {
	h, _, _ := procBeginDeferWindowPos.Call(uintptr(count))
	return &win32Batch{handle: h, broken: h == 0}
}

func (wb *win32Batch) Add(windowID WindowID, bounds Rect) {
	wb.queued = append(wb.queued, windowID)
	if wb.broken {
		wb.pending = append(wb.pending, windowID)
		return
	}
	h, _, _ := procDeferWindowPos.Call(
		wb.handle, uintptr(windowID), 0,
		uintptr(int32(bounds.X)), uintptr(int32(bounds.Y)),
		uintptr(int32(bounds.Width)), uintptr(int32(bounds.Height)),
		uintptr(swpNoZOrder|swpNoActivate|swpNoSendChanging),
	)
	if h == 0 {
		wb.broken = true
		wb.pending = append(wb.pending, windowID)
		return
	}
	wb.handle = h
}

func (wb *win32Batch) Commit() ([]WindowID, error) {
	if wb.broken || wb.handle == 0 {
		return wb.queued, &Win32Error{Func: "DeferWindowPos", Code: 0}
	}
	ret, _, _ := procEndDeferWindowPos.Call(wb.handle)
	if ret == 0 {
		return wb.queued, &Win32Error{Func: "EndDeferWindowPos", Code: 0}
	}
	return wb.pending, nil
}

func (b *Win32Backend) MoveResize(id WindowID, bounds Rect) error {
	ret, _, _ := procSetWindowPos.Call(
		uintptr(id), 0,
		uintptr(int32(bounds.X)), uintptr(int32(bounds.Y)),
		uintptr(int32(bounds.Width)), uintptr(int32(bounds.Height)),
		uintptr(swpNoZOrder|swpNoActivate),
	)
	if ret == 0 {
		return &Win32Error{Func: "SetWindowPos", Code: 0}
	}
	return nil
}

func (b *Win32Backend) SetCloaked(id WindowID, cloaked bool) error {
	var v int32
	if cloaked {
		v = 1
	}
	ret, _, _ := procDwmSetWindowAttribute.Call(
		uintptr(id), uintptr(dwmwaCloak),
		uintptr(unsafe.Pointer(&v)), unsafe.Sizeof(v),
	)
	if ret != 0 {
		return &Win32Error{Func: "DwmSetWindowAttribute(DWMWA_CLOAK)", Code: ret}
	}
	return nil
}

func (b *Win32Backend) MoveOffScreen(id WindowID) error {
	info, err := b.WindowInfo(id)
	if err != nil {
		return err
	}
	return b.MoveResize(id, Rect{X: -32000, Y: -32000, Width: info.Bounds.Width, Height: info.Bounds.Height})
}

// SetBorderColor colors the window's own compositor-drawn frame through
// DWMWA_BORDER_COLOR; ClearBorderColor restores the system default.
func (b *Win32Backend) SetBorderColor(id WindowID, color BorderColor) error {
	c := uint32(color) // 0xRRGGBB -> COLORREF 0x00BBGGRR
	return setBorderColorAttr(id, (c&0xFF)<<16|c&0xFF00|(c>>16)&0xFF)
}
func (b *Win32Backend) ClearBorderColor(id WindowID) error {
	return setBorderColorAttr(id, 0xFFFFFFFF) // DWMWA_COLOR_DEFAULT
}

func setBorderColorAttr(id WindowID, colorref uint32) error {
	const dwmwaBorderColor = 34
	ret, _, _ := procDwmSetWindowAttribute.Call(uintptr(id), dwmwaBorderColor, uintptr(unsafe.Pointer(&colorref)), unsafe.Sizeof(colorref))
	if ret != 0 {
		return &Win32Error{Func: "DwmSetWindowAttribute(DWMWA_BORDER_COLOR)", Code: ret}
	}
	return nil
}

func (b *Win32Backend) CloseWindow(id WindowID) error {
	const wmClose = 0x0010
	ret, _, _ := procPostMessageW.Call(uintptr(id), wmClose, 0, 0)
	if ret == 0 {
		return &Win32Error{Func: "PostMessageW(WM_CLOSE)", Code: 0}
	}
	return nil
}

func (b *Win32Backend) ForegroundWindow(id WindowID) error {
	ret, _, _ := procSetForegroundWindow.Call(uintptr(id))
	if ret == 0 {
		return &Win32Error{Func: "SetForegroundWindow", Code: 0}
	}
	return nil
}

// RegisterHotkeys replaces the entire registered set: every previously
// registered chord is unregistered first, then regs is registered in
// order. This matches how the daemon calls it (once at startup, once per
// Reload with the freshly compiled table) and avoids leaking a stale
// registration if a chord is dropped from the config.
func (b *Win32Backend) RegisterHotkeys(regs []HotkeyRegistration) error {
	reply := make(chan error, 1)
	b.hotkeyReqs <- hotkeyRequest{regs: regs, reply: reply}
	return <-reply
}

func (b *Win32Backend) UnregisterHotkeys() error {
	reply := make(chan error, 1)
	b.hotkeyReqs <- hotkeyRequest{regs: nil, reply: reply}
	return <-reply
}

func (b *Win32Backend) SetFocusFollowsMouse(enabled bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if enabled {
		if b.mouseHook != 0 {
			return nil
		}
		cb := syscall.NewCallback(b.lowLevelMouseProc)
		h, _, _ := procSetWindowsHookExW.Call(uintptr(whMouseLL), cb, 0, 0)
		if h == 0 {
			return &Win32Error{Func: "SetWindowsHookExW(WH_MOUSE_LL)", Code: 0}
		}
		b.mouseHook = h
		return nil
	}
	if b.mouseHook != 0 {
		procUnhookWindowsHookEx.Call(b.mouseHook)
		b.mouseHook = 0
	}
	return nil
}

type msllhookstruct struct {
	Pt        struct{ X, Y int32 }
	MouseData uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

func (b *Win32Backend) lowLevelMouseProc(nCode int32, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		info := (*msllhookstruct)(unsafe.Pointer(lParam))
		switch wParam {
		case wmMouseMove:
			if hwnd := windowFromPoint(info.Pt.X, info.Pt.Y); hwnd != 0 {
				b.post(EventMouseEnterWindow, WindowID(hwnd))
			}
		case wmMouseWheel, wmMouseHWheel:
			b.handleWheel(wParam, info.MouseData)
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

// handleWheel decodes the signed wheel delta packed into the high word
// of MouseData and feeds it to the gesture accumulator, posting a
// resolved gesture event if one crosses threshold.
func (b *Win32Backend) handleWheel(message uintptr, mouseData uint32) {
	delta := int(int16(mouseData >> 16))
	now := time.Now()

	var axis gesture.Axis
	var fired bool
	if message == wmMouseHWheel {
		axis, fired = b.gestures.FeedHorizontal(delta, now)
	} else {
		axis, fired = b.gestures.FeedVertical(delta, now)
	}
	if !fired {
		return
	}
	b.postEvent(Event{Kind: EventGesture, Gesture: gestureAxisFromAccumulator(axis)})
}

func gestureAxisFromAccumulator(a gesture.Axis) GestureAxis {
	switch a {
	case gesture.Left:
		return GestureLeft
	case gesture.Right:
		return GestureRight
	case gesture.Up:
		return GestureUp
	default:
		return GestureDown
	}
}

func (b *Win32Backend) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range b.winEventHooks {
		procUnhookWinEvent.Call(h)
	}
	b.winEventHooks = nil
	if b.mouseHook != 0 {
		procUnhookWindowsHookEx.Call(b.mouseHook)
		b.mouseHook = 0
	}

	select {
	case b.hotkeyReqs <- hotkeyRequest{regs: nil}:
	default:
		// The request queue is full; skip rather than block Shutdown.
		// (If hotkeyThread was never started, the request just stays
		// queued.)
	}
}

func windowText(hwnd uintptr) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:n])
}

func windowClassName(hwnd uintptr) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetClassNameW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:n])
}

func isCloaked(hwnd uintptr, out *uint32) {
	dwmapiGetAttr := dwmapi.NewProc("DwmGetWindowAttribute")
	const dwmwaCloaked = 14
	dwmapiGetAttr.Call(hwnd, uintptr(dwmwaCloaked), uintptr(unsafe.Pointer(out)), unsafe.Sizeof(*out))
}

func windowFromPoint(x, y int32) uintptr {
	procWindowFromPoint := user32.NewProc("WindowFromPoint")
	type point struct{ X, Y int32 }
	h, _, _ := procWindowFromPoint.Call(uintptr(unsafe.Pointer(&point{X: x, Y: y})))
	return h
}

// executableNameForPID resolves a process handle's image path; failures
// (the process has already exited, or access is denied) yield an empty
// string rather than an error, since callers treat it as best-effort
// metadata for window-rule matching.
func executableNameForPID(pid uint32) string {
	const processQueryLimitedInformation = 0x1000
	h, err := windows.OpenProcess(processQueryLimitedInformation, false, pid)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	return windows.UTF16ToString(buf[:size])
}
