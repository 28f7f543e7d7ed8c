package core

// These errors are construction-time user errors.  Once a Context
// exists, the engine itself has no fallible operations: out-of-bounds
// reads return Empty, out-of-bounds writes and locks are dropped, and
// operator arithmetic is clamped.

import "fmt"

// BadDimensions occurs when a Context is requested with a
// non-positive height or width.
type BadDimensions struct {
	Height int
	Width  int
}

func (e *BadDimensions) Error() string {
	return fmt.Sprintf("bad grid dimensions %dx%d", e.Height, e.Width)
}

// RaggedRows occurs when a Context is built from lines of unequal
// length.  The rest of the engine assumes a rectangular store.
type RaggedRows struct {
	Row  int
	Want int
	Got  int
}

func (e *RaggedRows) Error() string {
	return fmt.Sprintf("row %d has %d cells; want %d", e.Row, e.Got, e.Want)
}
