package hotkeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChord_ModifiersAndKeyOrderIndependent(t *testing.T) {
	a, err := ParseChord("Win+Shift+L")
	require.NoError(t, err)
	b, err := ParseChord("Shift+Win+L")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, ModWin|ModShift, a.Modifiers)
	assert.Equal(t, uint32(0x4C), a.VKCode)
}

func TestParseChord_AcceptsSuperAndCmdAliases(t *testing.T) {
	for _, alias := range []string{"Win", "Super", "Cmd"} {
		chord, err := ParseChord(alias + "+Q")
		require.NoError(t, err)
		assert.Equal(t, ModWin, chord.Modifiers)
	}
}

func TestParseChord_RejectsNoKey(t *testing.T) {
	_, err := ParseChord("Win+Shift")
	assert.Error(t, err)
}

func TestParseChord_RejectsMultipleKeys(t *testing.T) {
	_, err := ParseChord("Win+A+B")
	assert.Error(t, err)
}

func TestParseChord_RejectsUnknownKey(t *testing.T) {
	_, err := ParseChord("Win+Nonexistent")
	assert.Error(t, err)
}

func TestParseChord_RejectsEmptySegment(t *testing.T) {
	_, err := ParseChord("Win++L")
	assert.Error(t, err)
}

func TestCompile_RejectsDuplicateChordsEvenWhenReordered(t *testing.T) {
	_, err := Compile(map[string]string{
		"Win+Shift+L": "focus_left",
		"Shift+Win+L": "focus_right",
	})
	assert.Error(t, err)
}

func TestCompile_BuildsBidirectionalTable(t *testing.T) {
	table, err := Compile(map[string]string{
		"Win+L": "focus_right",
		"Win+H": "focus_left",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	chord, err := ParseChord("Win+L")
	require.NoError(t, err)
	cmd, ok := table.CommandFor(chord)
	require.True(t, ok)
	assert.Equal(t, "focus_right", cmd)

	got, ok := table.ChordFor("focus_left")
	require.True(t, ok)
	wantChord, _ := ParseChord("Win+H")
	assert.Equal(t, wantChord, got)
}

func TestCompile_RejectsUnparseableChord(t *testing.T) {
	_, err := Compile(map[string]string{"NotAChord": "stop"})
	assert.Error(t, err)
}

func TestChord_StringRoundTrips(t *testing.T) {
	chord, err := ParseChord("Win+Shift+Alt+Ctrl+F5")
	require.NoError(t, err)
	reparsed, err := ParseChord(chord.String())
	require.NoError(t, err)
	assert.Equal(t, chord, reparsed)
}
