package layout

import "fmt"

// DuplicateWindowError is returned when a WindowId already exists anywhere
// in the workspace (a column or the floating set).
type DuplicateWindowError struct {
	WindowID WindowID
}

func (e *DuplicateWindowError) Error() string {
	return fmt.Sprintf("window %d already exists in workspace", e.WindowID)
}

// WindowNotFoundError is returned when an operation references a WindowId
// that is not present in the workspace.
type WindowNotFoundError struct {
	WindowID WindowID
}

func (e *WindowNotFoundError) Error() string {
	return fmt.Sprintf("window %d not found in workspace", e.WindowID)
}

// ColumnOutOfBoundsError is returned when a column index exceeds the current
// column count.
type ColumnOutOfBoundsError struct {
	Index, Max int
}

func (e *ColumnOutOfBoundsError) Error() string {
	return fmt.Sprintf("column index %d out of bounds (max %d)", e.Index, e.Max)
}

// WindowIndexOutOfBoundsError is returned when a window index within a
// column exceeds that column's window count.
type WindowIndexOutOfBoundsError struct {
	Index, Column, Max int
}

func (e *WindowIndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("window index %d out of bounds in column %d (max %d)", e.Index, e.Column, e.Max)
}
