package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewColumn_ClampsMinWidth(t *testing.T) {
	c := NewColumn(1, 10)
	assert.Equal(t, MinColumnWidth, c.Width())
}

func TestColumn_InsertAtClampsPosition(t *testing.T) {
	c := NewColumn(1, 200)
	c.InsertAt(2, -5)
	c.InsertAt(3, 100)
	assert.Equal(t, []WindowID{2, 1, 3}, c.Windows())
}

func TestColumn_RemoveReturnsIndex(t *testing.T) {
	c := NewColumn(1, 200)
	c.Push(2)
	c.Push(3)

	idx, ok := c.Remove(2)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.False(t, c.Contains(2))

	_, ok = c.Remove(99)
	assert.False(t, ok)
}

func TestColumn_Swap(t *testing.T) {
	c := NewColumn(1, 200)
	c.Push(2)
	c.Swap(0, 1)
	assert.Equal(t, []WindowID{2, 1}, c.Windows())
}
