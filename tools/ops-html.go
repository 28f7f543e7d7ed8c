package tools

import (
	"fmt"
	"io"
	"sort"

	"github.com/Comcast/gridbeat/core"

	md "github.com/russross/blackfriday/v2"
)

// OpDocs maps operator names to Markdown descriptions.
//
// These notes document behavior, not glyphs: the glyph column on the
// rendered page comes from whatever symbol mapping is in effect.
var OpDocs = map[string]string{
	"Add":         "Reads two operands, to the *west* and *east*, and writes their sum *south*.  The written glyph is uppercase when either operand is.",
	"Sub":         "Writes the absolute difference of its *west* and *east* operands *south*.",
	"Clock":       "Counts up by *rate* each tick, modulo *mod*, and writes the count *south*.",
	"Delay":       "Bangs *south* every *rate* ticks, modulo *mod*, writing an empty cell in between.",
	"East":        "Moves one cell east each tick.  Explodes into a bang when blocked; slides off the edge silently.",
	"If":          "Bangs *south* when its *west* and *east* operands are equal.",
	"Generate":    "Writes a row of operands at an *x*, *y* offset south of itself.",
	"Halt":        "Locks the cell *south* of itself.",
	"Increment":   "Steps the value *south* by *step*, modulo *mod*.",
	"Jump":        "Copies the value *north* of itself to the cell *south*.",
	"Concat":      "Reads *len* variables east of itself and writes each variable's value below its name.",
	"Lesser":      "Writes the smaller of its *west* and *east* operands *south*; empty if either is empty.",
	"Multiply":    "Writes the product of its *west* and *east* operands *south*, saturating before the wrap.",
	"North":       "Moves one cell north each tick.  Explodes into a bang when blocked; slides off the edge silently.",
	"Read":        "Reads the cell at an *x*, *y* offset and writes it *south*.",
	"Push":        "Writes its *east* operand into a *len*-wide row, at the slot selected by *key* modulo *len*.",
	"Query":       "Reads *len* cells at an *x*, *y* offset and writes them left of its own row's end.",
	"Random":      "Writes a random value between *min* and *max* *south*.",
	"South":       "Moves one cell south each tick.  Explodes into a bang when blocked; slides off the edge silently.",
	"Track":       "Reads *len* cells east of itself and writes the one selected by *key* modulo *len* *south*.",
	"Euclid":      "Bangs *south* per the Euclidean rhythm of *step* pulses in *max* ticks.",
	"Variable":    "With a *west* operand, stores that name with the *east* value.  Otherwise reads the *east* name and writes its value *south*.",
	"West":        "Moves one cell west each tick.  Explodes into a bang when blocked; slides off the edge silently.",
	"Write":       "Writes its *east* operand at an *x*, *y* offset.",
	"Jymp":        "Copies the value *west* of itself to the cell *east*.",
	"Interpolate": "Moves the value *south* toward *target* by *rate* each tick.",
	"Comment":     "Locks its own row from itself to the next comment glyph (or the row's end).",
	"Midi":        "When a bang is beside it, emits a note event built from its *channel*, *octave*, *note*, *velocity*, and *length* operands.",
}

// RenderOpsHTML writes an HTML table documenting the operators bound
// by the given symbol mapping.
//
// Uppercase operators run every tick; their lowercase forms wait for
// an adjacent bang.
func RenderOpsHTML(symbols map[string]rune, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	f(`<div class="ops"><table>`)
	f(`<tr><th>glyph</th><th>operator</th><th></th></tr>`)
	for _, name := range names {
		glyph := symbols[name]
		f(`<tr class="op"><td><code id="%s" class="opGlyph">%c</code></td><td><span class="opName">%s</span></td><td>`,
			name, glyph, name)
		if doc, have := OpDocs[name]; have {
			f(`<div class="opDoc doc">%s</div>`, md.Run([]byte(doc)))
		}
		f(`</td></tr>`)
	}
	f(`</table></div>`)

	return nil
}

// RenderOpsPage writes a complete HTML page for the given symbol
// mapping.
func RenderOpsPage(symbols map[string]rune, out io.Writer, cssFiles []string) error {
	if cssFiles == nil {
		cssFiles = []string{"/static/ops-html.css"}
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>operators</title>
`)

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>operators</h1>
`)

	if err := RenderOpsHTML(symbols, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

// ReadAndRenderOpsPage renders the page for the symbol mapping in the
// given file (falling back to the default mapping).
func ReadAndRenderOpsPage(symbolsFile string, cssFiles []string, out io.Writer) error {
	return RenderOpsPage(core.ReadSymbols(symbolsFile), out, cssFiles)
}
