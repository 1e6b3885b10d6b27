//go:build !windows

package platform

import (
	"fmt"
	"sync"
)

// StubBackend is an in-memory Backend used for development off Windows
// and for daemon/layout tests that need a Backend without a live
// desktop. It keeps a small synthetic set of monitors and windows that
// tests populate directly, and records every call so tests can assert on
// what the daemon asked the platform to do.
type StubBackend struct {
	mu sync.Mutex

	events chan Event

	monitors []Monitor
	windows  map[WindowID]WindowInfo
	cloaked  map[WindowID]bool
	borders  map[WindowID]BorderColor
	closed   map[WindowID]bool
	hotkeys  []HotkeyRegistration
	ffMouse  bool
}

var _ Backend = (*StubBackend)(nil)

// NewBackend returns the platform's default Backend implementation. On
// non-Windows builds that is the in-memory StubBackend, since there is no
// Win32 desktop to drive; the daemon's command surface and layout engine
// still run against it for development and testing off Windows.
func NewBackend() Backend {
	return NewStubBackend()
}

// NewStubBackend returns a backend with no monitors or windows; callers
// add fixtures via AddMonitor/AddWindow before exercising the daemon.
func NewStubBackend() *StubBackend {
	return &StubBackend{
		events:  make(chan Event, 256),
		windows: make(map[WindowID]WindowInfo),
		cloaked: make(map[WindowID]bool),
		borders: make(map[WindowID]BorderColor),
		closed:  make(map[WindowID]bool),
	}
}

func (b *StubBackend) Init() error          { return nil }
func (b *StubBackend) Events() <-chan Event { return b.events }

// Emit lets a test or the stub's own fixtures push a synthetic OS event.
func (b *StubBackend) Emit(ev Event) {
	b.events <- ev
}

// AddMonitor registers a synthetic monitor, returned thereafter from
// Monitors.
func (b *StubBackend) AddMonitor(m Monitor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.monitors = append(b.monitors, m)
}

// RemoveMonitor deletes a synthetic monitor, simulating a display being
// unplugged; it will no longer appear in Monitors.
func (b *StubBackend) RemoveMonitor(id MonitorID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, m := range b.monitors {
		if m.ID == id {
			b.monitors = append(b.monitors[:i], b.monitors[i+1:]...)
			return
		}
	}
}

// AddWindow registers a synthetic window, returned thereafter from
// EnumerateWindows and WindowInfo.
func (b *StubBackend) AddWindow(w WindowInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.windows[w.ID] = w
}

// RemoveWindow deletes a synthetic window, simulating destruction.
func (b *StubBackend) RemoveWindow(id WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.windows, id)
}

func (b *StubBackend) Monitors() ([]Monitor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Monitor, len(b.monitors))
	copy(out, b.monitors)
	return out, nil
}

func (b *StubBackend) EnumerateWindows() ([]WindowInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]WindowInfo, 0, len(b.windows))
	for _, w := range b.windows {
		out = append(out, w)
	}
	return out, nil
}

func (b *StubBackend) WindowInfo(id WindowID) (WindowInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return WindowInfo{}, fmt.Errorf("platform: window %d not found", id)
	}
	return w, nil
}

func (b *StubBackend) IsWindow(id WindowID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.windows[id]
	return ok
}

type stubBatch struct {
	b    *StubBackend
	ids  []WindowID
	rect []Rect
}

func (b *StubBackend) BeginBatch(monitorID MonitorID, count int) BatchHandle {
	return &stubBatch{b: b, ids: make([]WindowID, 0, count), rect: make([]Rect, 0, count)}
}

func (s *stubBatch) Add(windowID WindowID, bounds Rect) {
	s.ids = append(s.ids, windowID)
	s.rect = append(s.rect, bounds)
}

func (s *stubBatch) Commit() ([]WindowID, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	for i, id := range s.ids {
		w, ok := s.b.windows[id]
		if !ok {
			continue
		}
		w.Bounds = s.rect[i]
		s.b.windows[id] = w
	}
	return nil, nil
}

func (b *StubBackend) MoveResize(id WindowID, bounds Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return fmt.Errorf("platform: window %d not found", id)
	}
	w.Bounds = bounds
	b.windows[id] = w
	return nil
}

func (b *StubBackend) SetCloaked(id WindowID, cloaked bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cloaked[id] = cloaked
	return nil
}

// IsCloaked reports the last cloak state set for id; used by tests.
func (b *StubBackend) IsCloaked(id WindowID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cloaked[id]
}

func (b *StubBackend) MoveOffScreen(id WindowID) error {
	return b.MoveResize(id, Rect{X: -32000, Y: -32000})
}

func (b *StubBackend) SetBorderColor(id WindowID, color BorderColor) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.borders[id] = color
	return nil
}

func (b *StubBackend) ClearBorderColor(id WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.borders, id)
	return nil
}

func (b *StubBackend) CloseWindow(id WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.windows[id]; !ok {
		return fmt.Errorf("platform: window %d not found", id)
	}
	b.closed[id] = true
	delete(b.windows, id)
	return nil
}

func (b *StubBackend) ForegroundWindow(id WindowID) error {
	if !b.IsWindow(id) {
		return fmt.Errorf("platform: window %d not found", id)
	}
	return nil
}

func (b *StubBackend) RegisterHotkeys(chords []HotkeyRegistration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hotkeys = chords
	return nil
}

func (b *StubBackend) UnregisterHotkeys() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hotkeys = nil
	return nil
}

func (b *StubBackend) SetFocusFollowsMouse(enabled bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ffMouse = enabled
	return nil
}

func (b *StubBackend) Shutdown() {}
