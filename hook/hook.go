// Package hook runs user-supplied JavaScript over note events.
//
// A hook is a small program that sees each note on its way out of the
// engine and can rewrite it, drop it, or emit extra notes.  Transpose
// everything up a fifth, thin out a dense channel, that sort of
// thing.
//
// The implementation uses Goja, a Go implementation of ECMAScript
// 5.1+.  See https://github.com/dop251/goja.
package hook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Comcast/gridbeat/core"

	"github.com/dop251/goja"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by Run if the execution is
	// interrupted.
	Interrupted = errors.New(InterruptedMessage)
)

// A Hook is a compiled note-rewriting program.
//
// The program is invoked once per note.  Its environment is bound to
// _, which provides
//
//    note: the current note event.
//    out(obj): emit an additional note.
//    log(x): log x as JSON.
//
// The program's value is the (possibly modified) note to emit.
// Returning null or undefined drops the note.
type Hook struct {
	// Testing exposes sleep() to the program.
	Testing bool

	name    string
	program *goja.Program
}

func wrapSrc(src string) string {
	return fmt.Sprintf("(function() {\n%s\n}());\n", src)
}

// Compile parses and compiles the given program source.
//
// The source is wrapped in a function, so use an explicit return to
// produce the outbound note.
func Compile(name, src string) (*Hook, error) {
	p, err := goja.Compile(name, wrapSrc(src), true)
	if err != nil {
		return nil, err
	}
	return &Hook{name: name, program: p}, nil
}

func toMap(n core.NoteEvent) (map[string]interface{}, error) {
	js, err := json.Marshal(&n)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err = json.Unmarshal(js, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromMap(x interface{}) (core.NoteEvent, error) {
	var n core.NoteEvent
	js, err := json.Marshal(&x)
	if err != nil {
		return n, err
	}
	err = json.Unmarshal(js, &n)
	return n, err
}

// Run feeds each note through the program and returns what survives.
//
// If the ctx is canceled, the program is interrupted and Run returns
// Interrupted.
func (h *Hook) Run(ctx context.Context, notes []core.NoteEvent) ([]core.NoteEvent, error) {
	acc := make([]core.NoteEvent, 0, len(notes))

	for _, n := range notes {
		m, err := toMap(n)
		if err != nil {
			return nil, err
		}

		var extra []interface{}

		env := map[string]interface{}{
			"note": m,
		}

		o := goja.New()
		o.Set("_", env)

		if h.Testing {
			o.Set("sleep", func(ms int) {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			})
		}

		env["out"] = func(x interface{}) interface{} {
			switch vv := x.(type) {
			case goja.Value:
				x = vv.Export()
			}
			extra = append(extra, x)
			return x
		}

		env["log"] = func(x interface{}) interface{} {
			switch vv := x.(type) {
			case goja.Value:
				x = vv.Export()
			}
			js, err := json.Marshal(&x)
			if err != nil {
				log.Println("hook.log (can't marshal: " + err.Error() + ")")
			} else {
				log.Println(string(js))
			}
			return x
		}

		// We want to make sure that the following goroutine is
		// terminated as soon as possible.
		ictx, cancel := context.WithCancel(ctx)
		go func() {
			<-ictx.Done()
			// If Run calls cancel() after RunProgram
			// returns, then we'll never see this
			// InterruptedMessage, which is actually the
			// behavior we want.  In that case, we weren't
			// actually interrupted.
			o.Interrupt(InterruptedMessage)
		}()

		v, err := o.RunProgram(h.program)
		cancel()

		if err != nil {
			if _, is := err.(*goja.InterruptedError); is {
				return nil, Interrupted
			}
			return nil, err
		}

		x := v.Export()

		switch vv := x.(type) {
		case nil:
			// Dropped.
		case map[string]interface{}:
			out, err := fromMap(vv)
			if err != nil {
				return nil, err
			}
			acc = append(acc, out)
		default:
			return nil, fmt.Errorf("%#v (%T) isn't a note", x, x)
		}

		for _, x := range extra {
			out, err := fromMap(x)
			if err != nil {
				return nil, err
			}
			acc = append(acc, out)
		}
	}

	return acc, nil
}
