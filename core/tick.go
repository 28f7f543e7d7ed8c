package core

// Tick advances the grid by one step and returns the notes emitted
// during it.
//
// One tick, in strict order: reset the lock mask and variable table,
// clear the previous tick's bangs, run the tick-operator pass, run
// the bang-operator pass, and increment the tick counter.
//
// Both passes scan in row-major order, and operators mutate the grid
// as the scan goes, so an operator's writes and locks are visible to
// operators later in the same pass.  That visibility order is part
// of the language.
//
// The bang pass only fires on bangs that already exist when it runs,
// so a bang written during the bang pass itself waits for the next
// tick: propagation is one hop per tick.
//
// Callers must serialize Tick; a Context is single-owner and a tick
// is atomic from the driver's point of view.
func Tick(c *Context, tickOps, bangOps map[rune]Operator) []NoteEvent {
	rows, cols := c.Height(), c.Width()
	c.UnlockAll()
	c.ClearAllVariables()

	// Clear the previous tick's bangs.
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if c.Read(row, col) == Bang {
				c.Write(row, col, Empty)
			}
		}
	}

	// Tick pass.  Operators here may write fresh bangs.
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if op, have := tickOps[c.Read(row, col)]; have {
				op.Apply(c, row, col)
			}
		}
	}

	// Freeze the bang locations before the bang pass.  A bang
	// written by a bang operator itself does not gate anything
	// until the next tick: propagation is one hop per tick.
	banged := make([][]bool, rows)
	for row := 0; row < rows; row++ {
		banged[row] = make([]bool, cols)
		for col := 0; col < cols; col++ {
			banged[row][col] = c.Read(row, col) == Bang
		}
	}
	bangAt := func(row, col int) bool {
		return 0 <= row && row < rows && 0 <= col && col < cols && banged[row][col]
	}

	// Bang pass: a bang to the north, west, or south (not east)
	// triggers the lowercase form.
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if op, have := bangOps[c.Read(row, col)]; have {
				if bangAt(row-1, col) || bangAt(row, col-1) || bangAt(row+1, col) {
					op.Apply(c, row, col)
				}
			}
		}
	}

	c.Ticks++

	return c.TakeNotes()
}
