package core

import (
	"math/rand"
	"strings"
	"time"
)

const (
	// Empty marks a cell with nothing in it.  Reads outside the
	// grid also return Empty.
	Empty rune = 0

	// Bang is the one-tick pulse marker.  A bang is cleared at
	// the start of the tick after the one that wrote it.
	Bang rune = '*'

	// Filler is the character that stands for Empty in the grid's
	// textual form (see Lines and package sio).
	Filler rune = '.'
)

// NotesInitialCap is the initial capacity for a Context's note queue.
var NotesInitialCap = 16

// Port is a transient descriptor for one grid cell: a name for
// debugging, the cell's location, and either the value read from it
// or the value an operator intends to write to it.
//
// A Port produced by Listen may carry a substituted default value,
// but its location is always the real cell, which matters when the
// Port is reused as a write or lock target.
type Port struct {
	Name  string
	Row   int
	Col   int
	Value rune
}

// NewPort creates a Port.
func NewPort(name string, row, col int, value rune) Port {
	return Port{Name: name, Row: row, Col: col, Value: value}
}

// Context owns everything an operator can see or stage changes
// against: the grid, the per-tick lock mask and variable table, the
// tick counter and timestamp, and the queue of emitted notes.
//
// A Context is exclusively owned by whoever is calling Tick; nothing
// here is safe for concurrent use.
type Context struct {
	height int
	width  int
	cells  [][]rune
	locks  [][]bool
	vars   map[rune]rune
	notes  []NoteEvent
	rng    *rand.Rand

	// Ticks counts completed ticks.  Time-dependent operators do
	// modulo arithmetic on it.
	Ticks int

	// TickTime is an opaque timestamp that the driver refreshes
	// once per tick.  It is stamped onto emitted notes and never
	// otherwise interpreted.
	TickTime int64
}

// NewContext creates an empty grid with the given dimensions.
func NewContext(height, width int) (*Context, error) {
	if height <= 0 || width <= 0 {
		return nil, &BadDimensions{Height: height, Width: width}
	}
	c := &Context{
		height: height,
		width:  width,
		cells:  make([][]rune, height),
		locks:  make([][]bool, height),
		vars:   make(map[rune]rune, 8),
		notes:  make([]NoteEvent, 0, NotesInitialCap),
	}
	for row := 0; row < height; row++ {
		c.cells[row] = make([]rune, width)
		c.locks[row] = make([]bool, width)
	}
	return c, nil
}

// NewContextFromLines creates a grid from its textual form: one row
// per line, one cell per character, with Filler standing for Empty.
//
// All lines must have the same length.
func NewContextFromLines(lines []string) (*Context, error) {
	if len(lines) == 0 {
		return nil, &BadDimensions{Height: 0, Width: 0}
	}
	width := len([]rune(lines[0]))
	c, err := NewContext(len(lines), width)
	if err != nil {
		return nil, err
	}
	for row, line := range lines {
		rs := []rune(line)
		if len(rs) != width {
			return nil, &RaggedRows{Row: row, Want: width, Got: len(rs)}
		}
		for col, r := range rs {
			if r == Filler {
				r = Empty
			}
			c.cells[row][col] = r
		}
	}
	return c, nil
}

// Height returns the number of rows.
func (c *Context) Height() int {
	return c.height
}

// Width returns the number of columns.
func (c *Context) Width() int {
	return c.width
}

func (c *Context) in(row, col int) bool {
	return 0 <= row && row < c.height && 0 <= col && col < c.width
}

// Read returns the cell at (row,col), or Empty if the location is
// outside the grid.
func (c *Context) Read(row, col int) rune {
	if !c.in(row, col) {
		return Empty
	}
	return c.cells[row][col]
}

// Write replaces the cell at (row,col).  Writes outside the grid are
// dropped.
func (c *Context) Write(row, col int, value rune) {
	if !c.in(row, col) {
		return
	}
	c.cells[row][col] = value
}

// Lock marks the cell at (row,col) as finalized for the current
// tick.  Locks outside the grid are dropped.
func (c *Context) Lock(row, col int) {
	if !c.in(row, col) {
		return
	}
	c.locks[row][col] = true
}

// IsLocked reports whether the cell at (row,col) has been finalized
// this tick.  Locations outside the grid are never locked.
func (c *Context) IsLocked(row, col int) bool {
	if !c.in(row, col) {
		return false
	}
	return c.locks[row][col]
}

// UnlockAll resets the lock mask.  Called at the start of every
// tick.
func (c *Context) UnlockAll() {
	for row := range c.locks {
		for col := range c.locks[row] {
			c.locks[row][col] = false
		}
	}
}

// SetVariable stores a value in the tick-local variable table.
func (c *Context) SetVariable(key, value rune) {
	c.vars[key] = value
}

// ReadVariable returns the value stored under key, or Empty if the
// key is unset.
func (c *Context) ReadVariable(key rune) rune {
	return c.vars[key]
}

// ClearAllVariables empties the variable table.  Called at the start
// of every tick; variables never persist across ticks except via the
// grid itself.
func (c *Context) ClearAllVariables() {
	for key := range c.vars {
		delete(c.vars, key)
	}
}

// Listen reads the cell at (row,col) and packages it as a Port.  If
// the cell is Empty (or outside the grid), the caller's default is
// substituted into the Port's value.
func (c *Context) Listen(name string, row, col int, def rune) Port {
	value := c.Read(row, col)
	if value == Empty {
		value = def
	}
	return NewPort(name, row, col, value)
}

// WriteNote appends a note to this tick's emission queue.
func (c *Context) WriteNote(n NoteEvent) {
	c.notes = append(c.notes, n)
}

// TakeNotes drains the emission queue, returning the notes emitted
// since the last drain.
func (c *Context) TakeNotes() []NoteEvent {
	notes := c.notes
	c.notes = make([]NoteEvent, 0, NotesInitialCap)
	return notes
}

// SetRandom replaces the Context's random source.  Useful to make
// the random operator reproducible in tests and replays.
func (c *Context) SetRandom(rng *rand.Rand) {
	c.rng = rng
}

func (c *Context) intn(n int) int {
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c.rng.Intn(n)
}

// Lines renders the grid in its textual form, with Filler standing
// for Empty.
func (c *Context) Lines() []string {
	lines := make([]string, c.height)
	for row := 0; row < c.height; row++ {
		var b strings.Builder
		for col := 0; col < c.width; col++ {
			r := c.cells[row][col]
			if r == Empty {
				r = Filler
			}
			b.WriteRune(r)
		}
		lines[row] = b.String()
	}
	return lines
}

func (c *Context) String() string {
	return strings.Join(c.Lines(), "\n")
}
