package core

import (
	"io/ioutil"
	"strings"
)

// DefaultSymbols is the built-in operator-name-to-glyph mapping,
// used when no symbol file is given (or the given one can't be
// read).
var DefaultSymbols = `
A Add
B Sub
C Clock
D Delay
E East
F If
G Generate
H Halt
I Increment
J Jump
K Concat
L Lesser
M Multiply
N North
O Read
P Push
Q Query
R Random
S South
T Track
U Euclid
V Variable
W West
X Write
Y Jymp
Z Interpolate
# Comment
: Midi
`

// ParseSymbols parses a symbol mapping: one "<glyph> <Name>" pair
// per line.  Lines without a space are ignored.  Only the first
// character of the glyph field is used.
func ParseSymbols(text string) map[string]rune {
	acc := make(map[string]rune, 32)
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		glyph, name, found := strings.Cut(line, " ")
		if !found {
			continue
		}
		rs := []rune(glyph)
		if len(rs) == 0 {
			continue
		}
		acc[name] = rs[0]
	}
	return acc
}

// ReadSymbols reads a symbol mapping from the given file, falling
// back to DefaultSymbols if the file can't be read.
func ReadSymbols(filename string) map[string]rune {
	text := DefaultSymbols
	if bs, err := ioutil.ReadFile(filename); err == nil {
		text = string(bs)
	}
	return ParseSymbols(text)
}
