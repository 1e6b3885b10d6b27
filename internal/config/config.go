// Package config defines the daemon's TOML configuration schema, its
// built-in defaults, and validation rules. Loading and file-search-order
// concerns live in loader.go.
package config

import "fmt"

// CenteringMode mirrors layout.CenteringMode's two variants as a
// TOML-friendly string enum.
type CenteringMode string

const (
	CenteringModeCenter     CenteringMode = "center"
	CenteringModeJustInView CenteringMode = "just_in_view"
)

// LayoutConfig configures the layout engine's tunables.
type LayoutConfig struct {
	Gap                int           `toml:"gap"`
	OuterGap           int           `toml:"outer_gap"`
	DefaultColumnWidth int           `toml:"default_column_width"`
	CenteringMode      CenteringMode `toml:"centering_mode"`
}

// AppearanceConfig configures how hidden/inactive windows are rendered.
type AppearanceConfig struct {
	UseCloaking            bool `toml:"use_cloaking"`
	UseDeferredPositioning bool `toml:"use_deferred_positioning"`
	ActiveBorderColor      int  `toml:"active_border_color"`
}

// LogLevel is the daemon's structured-logging verbosity.
type LogLevel string

const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// BehaviorConfig configures focus-follows-mouse and logging behavior.
type BehaviorConfig struct {
	FocusFollowsMouse        bool     `toml:"focus_follows_mouse"`
	FocusFollowsMouseDelayMs uint32   `toml:"focus_follows_mouse_delay_ms"`
	TrackFocusChanges        bool     `toml:"track_focus_changes"`
	LogLevel                 LogLevel `toml:"log_level"`
}

// HotkeyEntry binds a key chord string to a command name.
type HotkeyEntry struct {
	Chord   string `toml:"chord"`
	Command string `toml:"command"`
}

// RuleAction is the three-variant tag a WindowRule resolves to.
type RuleAction string

const (
	RuleActionTile   RuleAction = "tile"
	RuleActionFloat  RuleAction = "float"
	RuleActionIgnore RuleAction = "ignore"
)

// WindowRuleConfig is the TOML form of a window rule; compiled into
// layout-ready rules (regex compilation) by the daemon at load time.
type WindowRuleConfig struct {
	MatchClass      string     `toml:"match_class,omitempty"`
	MatchTitle      string     `toml:"match_title,omitempty"`
	MatchExecutable string     `toml:"match_executable,omitempty"`
	Action          RuleAction `toml:"action"`
	Width           int        `toml:"width,omitempty"`
	Height          int        `toml:"height,omitempty"`
}

// SnapHintsConfig configures the transient overlay shown during
// column/window snapping operations.
type SnapHintsConfig struct {
	Enabled    bool `toml:"enabled"`
	DurationMs int  `toml:"duration_ms"`
	Opacity    int  `toml:"opacity"`
}

// GesturesConfig configures mouse-wheel gesture recognition and the
// commands each direction triggers.
type GesturesConfig struct {
	Enabled bool   `toml:"enabled"`
	Left    string `toml:"left,omitempty"`
	Right   string `toml:"right,omitempty"`
	Up      string `toml:"up,omitempty"`
	Down    string `toml:"down,omitempty"`
}

// Config is the daemon's complete effective configuration.
type Config struct {
	Layout      LayoutConfig       `toml:"layout"`
	Appearance  AppearanceConfig   `toml:"appearance"`
	Behavior    BehaviorConfig     `toml:"behavior"`
	Hotkeys     []HotkeyEntry      `toml:"hotkeys"`
	WindowRules []WindowRuleConfig `toml:"window_rules"`
	SnapHints   SnapHintsConfig    `toml:"snap_hints"`
	Gestures    GesturesConfig     `toml:"gestures"`
}

// MinColumnWidth mirrors layout.MinColumnWidth; duplicated here so config
// validation does not have to import the layout package just for one
// constant.
const MinColumnWidth = 100

// Default returns the built-in configuration used when no file is found
// and as the base that a loaded file is merged over.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Gap:                10,
			OuterGap:           10,
			DefaultColumnWidth: 800,
			CenteringMode:      CenteringModeCenter,
		},
		Appearance: AppearanceConfig{
			UseCloaking:            true,
			UseDeferredPositioning: true,
			ActiveBorderColor:      0x0078D4,
		},
		Behavior: BehaviorConfig{
			FocusFollowsMouse:        false,
			FocusFollowsMouseDelayMs: 150,
			TrackFocusChanges:        true,
			LogLevel:                 LogLevelInfo,
		},
		Hotkeys: []HotkeyEntry{
			{Chord: "Win+Left", Command: "focus_left"},
			{Chord: "Win+Right", Command: "focus_right"},
			{Chord: "Win+Up", Command: "focus_up"},
			{Chord: "Win+Down", Command: "focus_down"},
			{Chord: "Win+Shift+Left", Command: "move_column_left"},
			{Chord: "Win+Shift+Right", Command: "move_column_right"},
			{Chord: "Win+Q", Command: "close_window"},
			{Chord: "Win+Space", Command: "toggle_floating"},
			{Chord: "Win+F", Command: "toggle_fullscreen"},
			{Chord: "Win+R", Command: "reload"},
		},
		WindowRules: nil,
		SnapHints: SnapHintsConfig{
			Enabled:    true,
			DurationMs: 150,
			Opacity:    180,
		},
		Gestures: GesturesConfig{
			Enabled: false,
			Left:    "focus_left",
			Right:   "focus_right",
		},
	}
}

// ValidationError reports a single configuration problem anchored to its
// TOML path, the same shape the daemon surfaces in a Reload error
// response.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks structural constraints that do not require compiling
// regexes or hotkey chords (internal/daemon's AppState.ApplyConfig
// compiles those when the config is applied, since they need the
// hotkeys/rules packages).
func (c *Config) Validate() error {
	if c.Layout.Gap < 0 {
		return &ValidationError{Path: "layout.gap", Err: fmt.Errorf("must be >= 0")}
	}
	if c.Layout.OuterGap < 0 {
		return &ValidationError{Path: "layout.outer_gap", Err: fmt.Errorf("must be >= 0")}
	}
	if c.Layout.DefaultColumnWidth < MinColumnWidth {
		return &ValidationError{Path: "layout.default_column_width", Err: fmt.Errorf("must be >= %d", MinColumnWidth)}
	}
	switch c.Layout.CenteringMode {
	case CenteringModeCenter, CenteringModeJustInView, "":
	default:
		return &ValidationError{Path: "layout.centering_mode", Err: fmt.Errorf("must be %q or %q", CenteringModeCenter, CenteringModeJustInView)}
	}

	switch c.Behavior.LogLevel {
	case LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, "":
	default:
		return &ValidationError{Path: "behavior.log_level", Err: fmt.Errorf("must be one of trace, debug, info, warn, error")}
	}

	for i, rule := range c.WindowRules {
		switch rule.Action {
		case RuleActionTile, RuleActionFloat, RuleActionIgnore:
		default:
			return &ValidationError{Path: fmt.Sprintf("window_rules[%d].action", i), Err: fmt.Errorf("must be tile, float, or ignore")}
		}
		if rule.Width < 0 || rule.Height < 0 {
			return &ValidationError{Path: fmt.Sprintf("window_rules[%d]", i), Err: fmt.Errorf("width/height must be >= 0")}
		}
	}

	if c.SnapHints.Opacity < 0 || c.SnapHints.Opacity > 255 {
		return &ValidationError{Path: "snap_hints.opacity", Err: fmt.Errorf("must be between 0 and 255")}
	}
	if c.SnapHints.DurationMs < 0 {
		return &ValidationError{Path: "snap_hints.duration_ms", Err: fmt.Errorf("must be >= 0")}
	}

	seen := make(map[string]struct{}, len(c.Hotkeys))
	for i, hk := range c.Hotkeys {
		if hk.Chord == "" {
			return &ValidationError{Path: fmt.Sprintf("hotkeys[%d].chord", i), Err: fmt.Errorf("must not be empty")}
		}
		if hk.Command == "" {
			return &ValidationError{Path: fmt.Sprintf("hotkeys[%d].command", i), Err: fmt.Errorf("must not be empty")}
		}
		if _, dup := seen[hk.Chord]; dup {
			return &ValidationError{Path: "hotkeys", Err: fmt.Errorf("duplicate chord %q", hk.Chord)}
		}
		seen[hk.Chord] = struct{}{}
	}

	return nil
}

// mergeDefaults fills zero-valued fields of c from defaults, mirroring
// the teacher's fill-missing-field idiom for partially specified TOML
// documents.
func mergeDefaults(c, defaults *Config) {
	if c.Layout.DefaultColumnWidth == 0 {
		c.Layout.DefaultColumnWidth = defaults.Layout.DefaultColumnWidth
	}
	if c.Layout.OuterGap == 0 {
		c.Layout.OuterGap = defaults.Layout.OuterGap
	}
	if c.Layout.Gap == 0 {
		c.Layout.Gap = defaults.Layout.Gap
	}
	if c.Layout.CenteringMode == "" {
		c.Layout.CenteringMode = defaults.Layout.CenteringMode
	}
	if c.Behavior.LogLevel == "" {
		c.Behavior.LogLevel = defaults.Behavior.LogLevel
	}
	if c.Behavior.FocusFollowsMouseDelayMs == 0 {
		c.Behavior.FocusFollowsMouseDelayMs = defaults.Behavior.FocusFollowsMouseDelayMs
	}
	if c.Appearance.ActiveBorderColor == 0 {
		c.Appearance.ActiveBorderColor = defaults.Appearance.ActiveBorderColor
	}
	if len(c.Hotkeys) == 0 {
		c.Hotkeys = defaults.Hotkeys
	}
	if c.SnapHints.DurationMs == 0 {
		c.SnapHints.DurationMs = defaults.SnapHints.DurationMs
	}
	if c.SnapHints.Opacity == 0 {
		c.SnapHints.Opacity = defaults.SnapHints.Opacity
	}
}
