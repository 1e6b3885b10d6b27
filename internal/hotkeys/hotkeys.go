// Package hotkeys parses key chord strings such as "Win+Shift+L" into
// modifier/virtual-key pairs and maintains the bidirectional chord<->command
// table the daemon registers with the platform backend.
package hotkeys

import (
	"fmt"
	"strings"
)

// Modifier is a bitmask of held modifier keys, matching the layout Win32's
// RegisterHotKey expects (MOD_ALT, MOD_CONTROL, MOD_SHIFT, MOD_WIN).
type Modifier uint32

const (
	ModAlt     Modifier = 0x0001
	ModControl Modifier = 0x0002
	ModShift   Modifier = 0x0004
	ModWin     Modifier = 0x0008
)

// Chord is a normalized modifier set plus one non-modifier virtual key
// code. Two chord values compare equal (via ==) iff they denote the same
// key combination, regardless of how the modifiers were ordered in the
// source string.
type Chord struct {
	Modifiers Modifier
	VKCode    uint32
}

func (c Chord) String() string {
	var b strings.Builder
	if c.Modifiers&ModWin != 0 {
		b.WriteString("Win+")
	}
	if c.Modifiers&ModControl != 0 {
		b.WriteString("Ctrl+")
	}
	if c.Modifiers&ModAlt != 0 {
		b.WriteString("Alt+")
	}
	if c.Modifiers&ModShift != 0 {
		b.WriteString("Shift+")
	}
	if name, ok := vkNames[c.VKCode]; ok {
		b.WriteString(name)
	} else {
		fmt.Fprintf(&b, "VK_%#x", c.VKCode)
	}
	return b.String()
}

// ParseChord parses a chord string such as "Win+Shift+L" into a Chord. It
// rejects chords with zero or more than one non-modifier key, and unknown
// key names.
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(s, "+")
	var mods Modifier
	var vk uint32
	haveKey := false

	for _, raw := range parts {
		part := strings.TrimSpace(raw)
		if part == "" {
			return Chord{}, fmt.Errorf("hotkeys: empty segment in chord %q", s)
		}
		switch strings.ToLower(part) {
		case "win", "super", "cmd":
			mods |= ModWin
		case "ctrl", "control":
			mods |= ModControl
		case "alt":
			mods |= ModAlt
		case "shift":
			mods |= ModShift
		default:
			if haveKey {
				return Chord{}, fmt.Errorf("hotkeys: chord %q has more than one non-modifier key", s)
			}
			code, ok := vkCodes[strings.ToUpper(part)]
			if !ok {
				return Chord{}, fmt.Errorf("hotkeys: unknown key %q in chord %q", part, s)
			}
			vk = code
			haveKey = true
		}
	}

	if !haveKey {
		return Chord{}, fmt.Errorf("hotkeys: chord %q has no non-modifier key", s)
	}
	return Chord{Modifiers: mods, VKCode: vk}, nil
}

// vkCodes maps the key names accepted in config chord strings to Win32
// virtual-key codes. It covers the alphanumeric row, arrows, and the
// handful of named keys commonly bound by tiling window managers.
var vkCodes = map[string]uint32{
	"A": 0x41, "B": 0x42, "C": 0x43, "D": 0x44, "E": 0x45, "F": 0x46, "G": 0x47,
	"H": 0x48, "I": 0x49, "J": 0x4A, "K": 0x4B, "L": 0x4C, "M": 0x4D, "N": 0x4E,
	"O": 0x4F, "P": 0x50, "Q": 0x51, "R": 0x52, "S": 0x53, "T": 0x54, "U": 0x55,
	"V": 0x56, "W": 0x57, "X": 0x58, "Y": 0x59, "Z": 0x5A,
	"0": 0x30, "1": 0x31, "2": 0x32, "3": 0x33, "4": 0x34,
	"5": 0x35, "6": 0x36, "7": 0x37, "8": 0x38, "9": 0x39,
	"LEFT": 0x25, "UP": 0x26, "RIGHT": 0x27, "DOWN": 0x28,
	"SPACE": 0x20, "ENTER": 0x0D, "ESCAPE": 0x1B, "TAB": 0x09,
	"F1": 0x70, "F2": 0x71, "F3": 0x72, "F4": 0x73, "F5": 0x74, "F6": 0x75,
	"F7": 0x76, "F8": 0x77, "F9": 0x78, "F10": 0x79, "F11": 0x7A, "F12": 0x7B,
	"OEM_COMMA": 0xBC, "OEM_PERIOD": 0xBE,
}

var vkNames = func() map[uint32]string {
	out := make(map[uint32]string, len(vkCodes))
	for name, code := range vkCodes {
		out[code] = name
	}
	return out
}()

// Table is a rebuildable, bidirectional map between compiled chords and
// command names. It is immutable once built; Reload builds a fresh Table
// and the caller swaps it in atomically.
type Table struct {
	chordToCommand map[Chord]string
	commandToChord map[string]Chord
}

// Compile builds a Table from configured chord/command pairs, rejecting
// unparseable chords and duplicate chords (whether written identically or
// merely reordered, e.g. "Shift+Win+L" vs "Win+Shift+L").
func Compile(entries map[string]string) (*Table, error) {
	t := &Table{
		chordToCommand: make(map[Chord]string, len(entries)),
		commandToChord: make(map[string]Chord, len(entries)),
	}
	for chordStr, command := range entries {
		chord, err := ParseChord(chordStr)
		if err != nil {
			return nil, err
		}
		if existing, dup := t.chordToCommand[chord]; dup {
			return nil, fmt.Errorf("hotkeys: chord %q (%s) duplicates binding for %q", chordStr, chord, existing)
		}
		t.chordToCommand[chord] = command
		t.commandToChord[command] = chord
	}
	return t, nil
}

// CommandFor returns the command bound to chord, if any.
func (t *Table) CommandFor(chord Chord) (string, bool) {
	cmd, ok := t.chordToCommand[chord]
	return cmd, ok
}

// ChordFor returns the chord bound to command, if any.
func (t *Table) ChordFor(command string) (Chord, bool) {
	chord, ok := t.commandToChord[command]
	return chord, ok
}

// Chords returns every chord in the table, useful for registration and
// for unregistration on teardown.
func (t *Table) Chords() []Chord {
	out := make([]Chord, 0, len(t.chordToCommand))
	for c := range t.chordToCommand {
		out = append(out, c)
	}
	return out
}

// Len returns the number of bound chords.
func (t *Table) Len() int { return len(t.chordToCommand) }
