package core

// An Update is one staged mutation in the list an operator returns.
//
// Operators never touch the Context directly.  They stage Updates,
// and Operator.Apply plays the list back in order against the store.
// That staging is what makes two full-grid scans per tick safe even
// though any operator can affect cells far from its own position.
type Update interface {
	apply(c *Context)
}

// Inputs marks each port's cell as locked: the data there has been
// consumed this tick.  No values change.
type Inputs []Port

func (u Inputs) apply(c *Context) {
	for _, p := range u {
		c.Lock(p.Row, p.Col)
	}
}

// Outputs writes each port's value to its cell and then locks it.
type Outputs []Port

func (u Outputs) apply(c *Context) {
	for _, p := range u {
		c.Write(p.Row, p.Col, p.Value)
		c.Lock(p.Row, p.Col)
	}
}

// Locks locks each port's cell without writing, claiming a span so
// that later-scanned cells inside it are skipped this tick.
type Locks []Port

func (u Locks) apply(c *Context) {
	for _, p := range u {
		c.Lock(p.Row, p.Col)
	}
}

// Notes appends note events to the tick's emission queue.
type Notes []NoteEvent

func (u Notes) apply(c *Context) {
	for _, n := range u {
		c.WriteNote(n)
	}
}

// VarPair is one variable-table entry.
type VarPair struct {
	Key   rune
	Value rune
}

// Variables stores entries in the tick-local variable table.
type Variables []VarPair

func (u Variables) apply(c *Context) {
	for _, v := range u {
		c.SetVariable(v.Key, v.Value)
	}
}

// Operator is one member of the closed operator set: a name and a
// stateless evaluation function from a position to staged updates.
type Operator struct {
	Name     string
	Evaluate func(c *Context, row, col int) []Update
}

// NewOperator creates an Operator.
func NewOperator(name string, evaluate func(*Context, int, int) []Update) Operator {
	return Operator{Name: name, Evaluate: evaluate}
}

// Apply runs the operator at (row,col) and plays its updates back
// against the store.
//
// If the cell is already locked this tick, the operator is skipped
// entirely, side effects included.
func (o Operator) Apply(c *Context, row, col int) {
	if c.IsLocked(row, col) {
		return
	}
	for _, u := range o.Evaluate(c, row, col) {
		u.apply(c)
	}
}
