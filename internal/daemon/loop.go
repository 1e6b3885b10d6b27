package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openniri/openniri/internal/config"
	"github.com/openniri/openniri/internal/layout"
	"github.com/openniri/openniri/internal/platform"
)

// ipcServer is the subset of internal/ipc.Server the event loop depends
// on, kept narrow so this package doesn't import ipc directly (ipc
// imports daemon for the Dispatch/Request types instead).
type ipcServer interface {
	Start() error
	Stop()
}

// Daemon owns the single cooperative event loop described in the package
// doc comment: one goroutine reads from platform events, submitted
// commands, and the animation ticker, and is the only goroutine that ever
// touches AppState.
type Daemon struct {
	state *AppState

	// loopCh carries closures onto the loop goroutine from other
	// goroutines (IPC connection handlers, the focus-follows-mouse
	// debounce timers, the animation ticker). Every closure runs with
	// exclusive access to state.
	loopCh chan func()

	hotkeyCommands map[int]string
	nextHotkeyID   int

	ipc ipcServer

	animTicker *time.Ticker
	animStop   chan struct{}

	shutdownOnce  bool
	shutdownDone  chan struct{}
	quiescenceMax time.Duration
}

// NewDaemon wires a backend and logger into an idle Daemon. Call
// Bootstrap then Run to bring it up.
func NewDaemon(backend platform.Backend, logger *slog.Logger) *Daemon {
	return &Daemon{
		state:          NewAppState(backend, logger),
		loopCh:         make(chan func(), 32),
		hotkeyCommands: make(map[int]string),
		shutdownDone:   make(chan struct{}),
		quiescenceMax:  2 * time.Second,
	}
}

// SetIPCServer attaches the IPC listener this daemon starts/stops as part
// of its own lifecycle. Submitted separately from NewDaemon because the
// server itself is constructed with a reference back to this Daemon.
func (d *Daemon) SetIPCServer(s ipcServer) { d.ipc = s }

// viewportFor forwards to AppState; commands.go calls it as a Daemon
// method since every other piece of derived state it touches (animation
// ticker, border updates) is also a Daemon responsibility.
func (d *Daemon) viewportFor(id platform.MonitorID) layout.Rect {
	return d.state.viewportFor(id)
}

func (d *Daemon) loadConfig() (*config.Config, string, error) {
	return config.Load()
}

// applyHotkeys rebuilds the id->command table from the compiled hotkey
// table and registers it with the backend. Hotkey ids are daemon-assigned
// small integers, not anything Win32-meaningful, so a reload always gets
// a fresh set even if the bound chords didn't change.
func (d *Daemon) applyHotkeys() error {
	if d.state.HotkeyTable == nil {
		return nil
	}
	d.hotkeyCommands = make(map[int]string, d.state.HotkeyTable.Len())
	regs := make([]platform.HotkeyRegistration, 0, d.state.HotkeyTable.Len())
	d.nextHotkeyID = 0
	for _, chord := range d.state.HotkeyTable.Chords() {
		cmd, ok := d.state.HotkeyTable.CommandFor(chord)
		if !ok {
			continue
		}
		d.nextHotkeyID++
		id := d.nextHotkeyID
		d.hotkeyCommands[id] = cmd
		regs = append(regs, platform.HotkeyRegistration{ID: id, Modifiers: uint32(chord.Modifiers), VKCode: chord.VKCode})
	}
	if err := d.state.Backend.RegisterHotkeys(regs); err != nil {
		return fmt.Errorf("daemon: registering hotkeys: %w", err)
	}
	return nil
}

// Bootstrap loads configuration, applies it, performs the initial
// monitor/window enumeration, restores any matching persistence snapshot,
// and registers hotkeys — everything Run needs before it starts consuming
// events.
func (d *Daemon) Bootstrap() error {
	cfg, path, err := d.loadConfig()
	if err != nil {
		d.state.Logger.Warn("loading config failed; using built-in defaults", "error", err)
		cfg, path = config.Default(), ""
	}
	if err := d.state.ApplyConfig(cfg, path); err != nil {
		d.state.Logger.Warn("applying config failed; using built-in defaults", "error", err)
		cfg, path = config.Default(), ""
		if err := d.state.ApplyConfig(cfg, path); err != nil {
			return fmt.Errorf("daemon: applying config: %w", err)
		}
	}
	if err := d.state.Backend.Init(); err != nil {
		return fmt.Errorf("daemon: backend init: %w", err)
	}

	monitors, err := d.state.Backend.Monitors()
	if err != nil {
		return fmt.Errorf("daemon: enumerating monitors: %w", err)
	}
	for _, m := range monitors {
		d.state.Monitors[m.ID] = m
		ws := layout.NewWorkspaceWithGaps(cfg.Layout.Gap, cfg.Layout.OuterGap)
		ws.SetDefaultColumnWidth(cfg.Layout.DefaultColumnWidth)
		if cfg.Layout.CenteringMode == config.CenteringModeJustInView {
			ws.SetCenteringMode(layout.JustInViewMode)
		}
		d.state.Workspaces[m.ID] = ws
	}
	if id, ok := d.state.primaryMonitorID(); ok {
		d.state.FocusedMonitor = id
	}

	d.loadSnapshot()

	windows, err := d.state.Backend.EnumerateWindows()
	if err != nil {
		return fmt.Errorf("daemon: enumerating windows: %w", err)
	}
	for _, w := range windows {
		if _, known := d.state.WindowMonitor[layout.WindowID(w.ID)]; known {
			continue
		}
		d.onCreated(layout.WindowID(w.ID))
	}

	if err := d.applyHotkeys(); err != nil {
		return err
	}
	if err := d.state.Backend.SetFocusFollowsMouse(cfg.Behavior.FocusFollowsMouse); err != nil {
		d.state.Logger.Warn("enabling focus-follows-mouse failed", "error", err)
	}

	for id := range d.state.Workspaces {
		d.applyMonitor(id)
	}
	return nil
}

// Run is the event loop. It blocks until ctx is cancelled or a stop
// command triggers requestShutdown.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.panicRecoverUncloak()

	if d.ipc != nil {
		if err := d.ipc.Start(); err != nil {
			return fmt.Errorf("daemon: starting ipc server: %w", err)
		}
	}

	events := d.state.Backend.Events()
	for {
		select {
		case <-ctx.Done():
			d.shutdown()
			return nil
		case fn := <-d.loopCh:
			fn()
		case ev, ok := <-events:
			if !ok {
				d.shutdown()
				return nil
			}
			d.handlePlatformEvent(ev)
		case <-d.shutdownDone:
			return nil
		}
	}
}

// Submit queues fn to run on the loop goroutine and is the only way
// non-loop goroutines (IPC handlers, debounce timers) may touch state.
func (d *Daemon) Submit(fn func()) {
	d.loopCh <- fn
}

// startAnimationTicker begins a ~60Hz ticker that advances every
// animating workspace's scroll offset, stopping itself once nothing is
// animating. Safe to call repeatedly; a ticker already running is a
// no-op.
func (d *Daemon) startAnimationTicker() {
	if d.animTicker != nil {
		return
	}
	d.animTicker = time.NewTicker(animationTickInterval)
	d.animStop = make(chan struct{})
	ticker := d.animTicker
	stop := d.animStop
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				d.Submit(d.tickAnimations)
			}
		}
	}()
}

func (d *Daemon) tickAnimations() {
	anyAnimating := false
	for id, ws := range d.state.Workspaces {
		if ws.TickAnimation(d.now()) {
			anyAnimating = true
			d.applyMonitor(id)
		}
	}
	if !anyAnimating && d.animTicker != nil {
		close(d.animStop)
		d.animTicker.Stop()
		d.animTicker = nil
		d.animStop = nil
	}
}

// requestShutdown implements the §5 shutdown sequence: stop accepting
// IPC, drain remaining events up to quiescence or a timeout, uncloak
// every managed window, persist a snapshot, release hooks and hotkeys,
// then signal Run to return.
func (d *Daemon) requestShutdown() {
	if d.shutdownOnce {
		return
	}
	d.shutdownOnce = true
	go func() {
		d.Submit(d.shutdown)
	}()
}

func (d *Daemon) shutdown() {
	if d.ipc != nil {
		d.ipc.Stop()
	}

	deadline := time.After(d.quiescenceMax)
drain:
	for {
		select {
		case ev, ok := <-d.state.Backend.Events():
			if !ok {
				break drain
			}
			d.handlePlatformEvent(ev)
		case <-deadline:
			break drain
		default:
			break drain
		}
	}

	if d.state.VisibilityStrategy == platform.Cloak {
		var g errgroup.Group
		for id := range d.state.WindowMonitor {
			id := id
			g.Go(func() error {
				return d.state.Backend.SetCloaked(platformID(id), false)
			})
		}
		if err := g.Wait(); err != nil {
			d.state.Logger.Warn("uncloaking on shutdown failed", "error", err)
		}
	}

	if err := d.saveSnapshot(); err != nil {
		d.state.Logger.Warn("saving snapshot failed", "error", err)
	}

	if err := d.state.Backend.UnregisterHotkeys(); err != nil {
		d.state.Logger.Warn("unregistering hotkeys on shutdown failed", "error", err)
	}
	d.state.Backend.Shutdown()

	close(d.shutdownDone)
}

// panicRecoverUncloak is deferred at the top of Run so that a
// panic in the event loop still leaves every managed window visible
// rather than permanently cloaked.
func (d *Daemon) panicRecoverUncloak() {
	if r := recover(); r != nil {
		for id := range d.state.WindowMonitor {
			d.state.Backend.SetCloaked(platformID(id), false)
		}
		panic(r)
	}
}
