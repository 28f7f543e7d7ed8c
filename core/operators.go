package core

import "fmt"

// The operator library.
//
// Input conventions: most operators read the cells immediately left
// and right of their own glyph, write one row below, and lock every
// port they touch.  The per-operator defaults and offsets below are
// part of the language and must not drift.

// TickOperators builds the glyph table for the tick pass from an
// operator-name-to-glyph mapping.  Operators whose names are absent
// from the mapping are silently omitted.
func TickOperators(symbols map[string]rune) map[rune]Operator {
	ops := []Operator{
		NewOperator("Add", add),
		NewOperator("Sub", sub),
		NewOperator("Clock", clock),
		NewOperator("Delay", delay),
		NewOperator("East", east),
		NewOperator("If", condition),
		NewOperator("Generate", generate),
		NewOperator("Halt", halt),
		NewOperator("Increment", increment),
		NewOperator("Jump", jump),
		NewOperator("Concat", concat),
		NewOperator("Lesser", lesser),
		NewOperator("Multiply", multiply),
		NewOperator("North", north),
		NewOperator("Read", read),
		NewOperator("Push", push),
		NewOperator("Query", query),
		NewOperator("Random", random),
		NewOperator("South", south),
		NewOperator("Track", track),
		NewOperator("Euclid", euclid),
		NewOperator("Variable", variable),
		NewOperator("West", west),
		NewOperator("Write", write),
		NewOperator("Jymp", jymp),
		NewOperator("Interpolate", interpolate),
		NewOperator("Comment", comment),
		// The note emitter runs every tick but only produces a
		// note when a bang is beside it.
		NewOperator("Midi", midiNote),
	}

	acc := make(map[rune]Operator, len(ops))
	for _, op := range ops {
		if glyph, have := symbols[op.Name]; have {
			acc[glyph] = op
		}
	}
	return acc
}

// BangOperators builds the glyph table for the bang pass: the same
// operators keyed by the lowercase form of their glyphs.
func BangOperators(symbols map[string]rune) map[rune]Operator {
	tick := TickOperators(symbols)
	acc := make(map[rune]Operator, len(tick))
	for glyph, op := range tick {
		acc[lower(glyph)] = op
	}
	return acc
}

func lower(c rune) rune {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func add(c *Context, row, col int) []Update {
	a := c.Listen("a", row, col-1, '0')
	b := c.Listen("b", row, col+1, '0')

	av, aUpper := Base36(a.Value)
	bv, bUpper := Base36(b.Value)
	out := NewPort("out", row+1, col, Char36(av+bv, aUpper || bUpper))

	return []Update{
		Inputs{a, b},
		Outputs{out},
	}
}

func sub(c *Context, row, col int) []Update {
	a := c.Listen("a", row, col-1, '0')
	b := c.Listen("b", row, col+1, '0')

	av, aUpper := Base36(a.Value)
	bv, bUpper := Base36(b.Value)
	diff := av - bv
	if diff < 0 {
		diff = -diff
	}
	out := NewPort("out", row+1, col, Char36(diff, aUpper || bUpper))

	return []Update{
		Inputs{a, b},
		Outputs{out},
	}
}

func multiply(c *Context, row, col int) []Update {
	a := c.Listen("a", row, col-1, '0')
	b := c.Listen("b", row, col+1, '0')

	av, aUpper := Base36(a.Value)
	bv, bUpper := Base36(b.Value)
	// The product saturates at 255 instead of wrapping.
	prod := av * bv
	if 255 < prod {
		prod = 255
	}
	out := NewPort("out", row+1, col, Char36(prod, aUpper || bUpper))

	return []Update{
		Inputs{a, b},
		Outputs{out},
	}
}

func lesser(c *Context, row, col int) []Update {
	a := c.Listen("a", row, col-1, Empty)
	b := c.Listen("b", row, col+1, Empty)

	value := Empty
	if a.Value != Empty && b.Value != Empty {
		av, aUpper := Base36(a.Value)
		bv, bUpper := Base36(b.Value)
		less := av
		if bv < av {
			less = bv
		}
		value = Char36(less, aUpper || bUpper)
	}
	out := NewPort("out", row+1, col, value)

	return []Update{
		Inputs{a, b},
		Outputs{out},
	}
}

// increment reads its own previous output as an accumulator.
func increment(c *Context, row, col int) []Update {
	step := c.Listen("step", row, col-1, '1')
	mod := c.Listen("mod", row, col+1, 'z')

	sv, _ := Base36(step.Value)
	mv, modUpper := Base36(mod.Value)
	if mv < 1 {
		mv = 1
	}
	out := c.Listen("out", row+1, col, '0')
	ov, _ := Base36(out.Value)
	out.Value = Char36((ov+sv)%mv, modUpper)

	return []Update{
		Inputs{step, mod},
		Outputs{out},
	}
}

// interpolate approaches its target by rate per tick, reading its
// own previous output as an accumulator.
func interpolate(c *Context, row, col int) []Update {
	rate := c.Listen("rate", row, col-1, '1')
	target := c.Listen("target", row, col+1, 'z')

	rv, _ := Base36(rate.Value)
	tv, targetUpper := Base36(target.Value)
	out := c.Listen("out", row+1, col, '0')
	ov, _ := Base36(out.Value)
	ov += rv
	if tv < ov {
		ov = tv
	}
	out.Value = Char36(ov, targetUpper)

	return []Update{
		Inputs{rate, target},
		Outputs{out},
	}
}

func clock(c *Context, row, col int) []Update {
	rate := c.Listen("rate", row, col-1, '1')
	mod := c.Listen("mod", row, col+1, '8')

	rv, _ := Base36(rate.Value)
	mv, modUpper := Base36(mod.Value)
	if rv < 1 {
		rv = 1
	}
	if mv < 1 {
		mv = 1
	}
	out := NewPort("out", row+1, col, Char36(c.Ticks/rv%mv, modUpper))

	return []Update{
		Inputs{rate, mod},
		Outputs{out},
	}
}

func delay(c *Context, row, col int) []Update {
	rate := c.Listen("rate", row, col-1, '1')
	mod := c.Listen("mod", row, col+1, '8')

	rv, _ := Base36(rate.Value)
	mv, _ := Base36(mod.Value)
	if rv < 1 {
		rv = 1
	}
	if mv < 1 {
		mv = 1
	}
	out := c.Listen("out", row+1, col, Empty)
	if c.Ticks%(rv*mv) == 0 {
		out.Value = Bang
	}

	return []Update{
		Inputs{rate, mod},
		Outputs{out},
	}
}

func euclid(c *Context, row, col int) []Update {
	step := c.Listen("step", row, col-1, '1')
	max := c.Listen("max", row, col+1, '8')

	sv, _ := Base36(step.Value)
	mv, _ := Base36(max.Value)
	if mv < 1 {
		mv = 1
	}
	out := c.Listen("out", row+1, col, Empty)
	if sv*(c.Ticks+mv-1)%mv+sv >= mv {
		out.Value = Bang
	}

	return []Update{
		Inputs{step, max},
		Outputs{out},
	}
}

func condition(c *Context, row, col int) []Update {
	a := c.Listen("a", row, col-1, Empty)
	b := c.Listen("b", row, col+1, Empty)

	av, _ := Base36(a.Value)
	bv, _ := Base36(b.Value)
	out := c.Listen("out", row+1, col, Empty)
	if av == bv {
		out.Value = Bang
	}

	return []Update{
		Inputs{a, b},
		Outputs{out},
	}
}

func random(c *Context, row, col int) []Update {
	min := c.Listen("min", row, col-1, '0')
	max := c.Listen("max", row, col+1, 'z')

	minv, minUpper := Base36(min.Value)
	maxv, maxUpper := Base36(max.Value)
	// The upper bound is exclusive and at least min+1.
	if maxv < minv+1 {
		maxv = minv + 1
	}
	out := NewPort("out", row+1, col, Char36(minv+c.intn(maxv-minv), minUpper || maxUpper))

	return []Update{
		Inputs{min, max},
		Outputs{out},
	}
}

// jump passes a value through vertically.
func jump(c *Context, row, col int) []Update {
	in := c.Listen("input", row-1, col, Empty)
	out := NewPort("output", row+1, col, in.Value)

	return []Update{
		Inputs{in},
		Outputs{out},
	}
}

// jymp passes a value through horizontally.
func jymp(c *Context, row, col int) []Update {
	in := c.Listen("input", row, col-1, Empty)
	out := NewPort("output", row, col+1, in.Value)

	return []Update{
		Inputs{in},
		Outputs{out},
	}
}

// move slides the operator's own cell one step.  An empty
// destination receives the value and both cells lock; an occupied
// one bounces, replacing the source with a bang and leaving the
// destination's lock state alone.
func move(c *Context, row, col, drow, dcol int) []Update {
	in := c.Listen("", row, col, Empty)
	out := c.Listen("", row+drow, col+dcol, Empty)
	if out.Value == Empty {
		out.Value = in.Value
		in.Value = Empty
		return []Update{
			Outputs{in, out},
			Locks{out},
		}
	}
	in.Value = Bang
	return []Update{
		Outputs{in},
	}
}

func east(c *Context, row, col int) []Update {
	return move(c, row, col, 0, 1)
}

func west(c *Context, row, col int) []Update {
	return move(c, row, col, 0, -1)
}

func north(c *Context, row, col int) []Update {
	return move(c, row, col, -1, 0)
}

func south(c *Context, row, col int) []Update {
	return move(c, row, col, 1, 0)
}

// halt rewrites its output cell unchanged, purely to lock it.
func halt(c *Context, row, col int) []Update {
	out := c.Listen("out", row+1, col, Empty)
	return []Update{
		Inputs{out},
		Outputs{out},
		Locks{out},
	}
}

// track reads one of the len cells to its right, indexed by key, and
// locks the whole span.
func track(c *Context, row, col int) []Update {
	key := c.Listen("key", row, col-2, '0')
	length := c.Listen("len", row, col-1, '1')

	kv, _ := Base36(key.Value)
	lv, _ := Base36(length.Value)
	if lv < 1 {
		lv = 1
	}
	val := c.Listen("val", row, col+1+kv%lv, Empty)
	out := NewPort("out", row+1, col, val.Value)

	locks := make(Locks, 0, lv)
	for i := 0; i < lv; i++ {
		locks = append(locks, NewPort("locked", row, col+1+i, Empty))
	}

	return []Update{
		Inputs{key, length, val},
		Outputs{out},
		locks,
	}
}

// push writes its right-hand value into one of the len cells below,
// indexed by key, and locks that span.
func push(c *Context, row, col int) []Update {
	key := c.Listen("key", row, col-2, '0')
	length := c.Listen("len", row, col-1, '1')

	kv, _ := Base36(key.Value)
	lv, _ := Base36(length.Value)
	if lv < 1 {
		lv = 1
	}
	val := c.Listen("val", row, col+1, Empty)
	out := NewPort("out", row+1, col+kv%lv, val.Value)

	locks := make(Locks, 0, lv)
	for i := 0; i < lv; i++ {
		locks = append(locks, NewPort("locked", row+1, col+i, Empty))
	}

	return []Update{
		Inputs{key, length, val},
		Outputs{out},
		locks,
	}
}

func read(c *Context, row, col int) []Update {
	x := c.Listen("x", row, col-2, '0')
	y := c.Listen("y", row, col-1, '0')

	xv, _ := Base36(x.Value)
	yv, _ := Base36(y.Value)
	val := c.Listen("val", row+yv, col+1+xv, Empty)
	out := NewPort("out", row+1, col, val.Value)

	return []Update{
		Inputs{x, y, val},
		Outputs{out},
	}
}

func write(c *Context, row, col int) []Update {
	x := c.Listen("x", row, col-2, '0')
	y := c.Listen("y", row, col-1, '0')

	xv, _ := Base36(x.Value)
	yv, _ := Base36(y.Value)
	val := c.Listen("val", row, col+1, Empty)
	out := NewPort("out", row+1+yv, col+xv, val.Value)

	return []Update{
		Inputs{x, y, val},
		Outputs{out},
	}
}

// query copies len cells starting at the (x,y) offset to the row
// below the operator, right-aligned against its own column.
func query(c *Context, row, col int) []Update {
	x := c.Listen("x", row, col-3, '0')
	y := c.Listen("y", row, col-2, '0')
	length := c.Listen("len", row, col-1, '1')

	xv, _ := Base36(x.Value)
	yv, _ := Base36(y.Value)
	lv, _ := Base36(length.Value)
	if lv < 1 {
		lv = 1
	}

	ins := make(Inputs, 0, lv+2)
	outs := make(Outputs, 0, lv)
	for i := 0; i < lv; i++ {
		in := c.Listen(fmt.Sprintf("in-%d", i), row+yv, col+1+xv+i, Empty)
		outs = append(outs, NewPort(fmt.Sprintf("out-%d", i), row+1, col+1+i-lv, in.Value))
		ins = append(ins, in)
	}
	ins = append(ins, x, y)

	return []Update{
		ins,
		outs,
	}
}

// generate copies len cells from its own row to the (x,y) offset one
// row down.
func generate(c *Context, row, col int) []Update {
	x := c.Listen("x", row, col-3, '0')
	y := c.Listen("y", row, col-2, '0')
	length := c.Listen("len", row, col-1, '1')

	xv, _ := Base36(x.Value)
	yv, _ := Base36(y.Value)
	lv, _ := Base36(length.Value)
	if lv < 1 {
		lv = 1
	}

	ins := make(Inputs, 0, lv+2)
	outs := make(Outputs, 0, lv)
	for i := 0; i < lv; i++ {
		in := c.Listen(fmt.Sprintf("in-%d", i), row, col+1+i, Empty)
		outs = append(outs, NewPort(fmt.Sprintf("out-%d", i), row+1+yv, col+xv+i, in.Value))
		ins = append(ins, in)
	}
	ins = append(ins, x, y)

	return []Update{
		ins,
		outs,
	}
}

// concat treats the len cells to its right as variable keys and
// writes each variable's value below its key.
func concat(c *Context, row, col int) []Update {
	length := c.Listen("len", row, col-1, '1')

	lv, _ := Base36(length.Value)
	outs := make(Outputs, 0, lv)
	locks := make(Locks, 0, lv)
	for i := 0; i < lv; i++ {
		key := c.Read(row, col+1+i)
		outs = append(outs, NewPort(fmt.Sprintf("out-%d", i), row+1, col+1+i, c.ReadVariable(key)))
		locks = append(locks, NewPort("locked", row, col+1+i, Empty))
	}

	return []Update{
		Inputs{length},
		outs,
		locks,
	}
}

// variable either stores (left operand present) or fetches (left
// operand empty).  A store produces no output cell this tick.
func variable(c *Context, row, col int) []Update {
	w := c.Listen("write", row, col-1, Empty)
	r := c.Listen("read", row, col+1, Empty)

	if w.Value == Empty {
		out := NewPort("out", row+1, col, c.ReadVariable(r.Value))
		return []Update{
			Inputs{w, r},
			Outputs{out},
		}
	}
	return []Update{
		Inputs{r},
		Variables{{Key: w.Value, Value: r.Value}},
	}
}

// comment locks every cell from its own glyph to the next occurrence
// of that glyph (or the grid's right edge).
func comment(c *Context, row, col int) []Update {
	delim := c.Read(row, col)
	end := col + 1
	for i := end; i < c.Width(); i++ {
		end = i
		if c.Read(row, i) == delim {
			break
		}
	}
	locks := make(Locks, 0, end-col+1)
	for l := col; l <= end; l++ {
		locks = append(locks, NewPort("locked", row, l, Empty))
	}
	return []Update{
		locks,
	}
}

// midiNote reads its five right-hand operands every tick and emits a
// note when the note operand is a letter and a bang sits to the
// north, west, or south.
func midiNote(c *Context, row, col int) []Update {
	channel := c.Listen("channel", row, col+1, '0')
	octave := c.Listen("octave", row, col+2, '0')
	note := c.Listen("note", row, col+3, '0')
	velocity := c.Listen("velocity", row, col+4, 'f')
	duration := c.Listen("duration", row, col+5, '1')

	chv, _ := Base36(channel.Value)
	ov, _ := Base36(octave.Value)
	nv, noteUpper := Base36(note.Value)
	vv, _ := Base36(velocity.Value)
	dv, _ := Base36(duration.Value)

	var notes Notes
	if nv >= 10 && (c.Read(row-1, col) == Bang ||
		c.Read(row, col-1) == Bang ||
		c.Read(row+1, col) == Bang) {
		notes = Notes{NoteFromBase36(chv, ov, nv, !noteUpper, vv, dv, c.TickTime)}
	}

	return []Update{
		Inputs{channel, octave, note, velocity, duration},
		notes,
	}
}
