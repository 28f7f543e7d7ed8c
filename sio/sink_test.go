/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sio

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Comcast/gridbeat/core"
)

func someNotes() []core.NoteEvent {
	return []core.NoteEvent{
		{Channel: 0, Octave: 4, Pitch: 0, Velocity: 35, Duration: 2, Time: 1000},
		{Channel: 1, Octave: 3, Pitch: 2, Sharp: true, Velocity: 20, Duration: 1, Time: 1000},
	}
}

func TestWriterSink(t *testing.T) {
	ctx := context.Background()
	buf := bytes.NewBuffer(nil)
	s := &WriterSink{Out: buf}
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Emit(ctx, someNotes()); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	var n core.NoteEvent
	if err := json.Unmarshal([]byte(lines[1]), &n); err != nil {
		t.Fatal(err)
	}
	if !n.Sharp || n.Channel != 1 {
		t.Fatalf("got %#v", n)
	}
}

func TestMultiSink(t *testing.T) {
	ctx := context.Background()
	one := bytes.NewBuffer(nil)
	two := bytes.NewBuffer(nil)
	m := Multi{&WriterSink{Out: one}, &WriterSink{Out: two}}
	if err := m.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := m.Emit(ctx, someNotes()); err != nil {
		t.Fatal(err)
	}
	if err := m.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if one.String() != two.String() {
		t.Fatal("sinks disagree")
	}
	if one.Len() == 0 {
		t.Fatal("nothing emitted")
	}
}

func TestGridOpRune(t *testing.T) {
	if r := (GridOp{Op: "bang"}).Rune(); r != core.Bang {
		t.Fatalf("got %q", r)
	}
	if r := (GridOp{Op: "write", Glyph: "z"}).Rune(); r != 'z' {
		t.Fatalf("got %q", r)
	}
	if r := (GridOp{Op: "write", Glyph: "."}).Rune(); r != core.Empty {
		t.Fatalf("got %q", r)
	}
	if r := (GridOp{Op: "write"}).Rune(); r != core.Empty {
		t.Fatalf("got %q", r)
	}
}

func TestGridOpApply(t *testing.T) {
	c, err := core.NewContextFromLines([]string{"...", "..."})
	if err != nil {
		t.Fatal(err)
	}
	var op GridOp
	if err := json.Unmarshal([]byte(`{"op":"write","row":1,"col":2,"glyph":"A"}`), &op); err != nil {
		t.Fatal(err)
	}
	op.Apply(c)
	if c.Read(1, 2) != 'A' {
		t.Fatalf("got %q", c.Read(1, 2))
	}

	// Out-of-range ops are dropped, not fatal.
	GridOp{Op: "bang", Row: 10, Col: 10}.Apply(c)
}
