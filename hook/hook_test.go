package hook

import (
	"context"
	"testing"

	"github.com/Comcast/gridbeat/core"
)

func someNotes() []core.NoteEvent {
	return []core.NoteEvent{
		{Channel: 0, Octave: 4, Pitch: 0, Velocity: 35, Duration: 2, Time: 1000},
		{Channel: 1, Octave: 3, Pitch: 2, Velocity: 20, Duration: 1, Time: 1000},
	}
}

func TestHookIdentity(t *testing.T) {
	h, err := Compile("identity", `return _.note;`)
	if err != nil {
		t.Fatal(err)
	}
	notes, err := h.Run(context.Background(), someNotes())
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes", len(notes))
	}
	if notes[0] != someNotes()[0] {
		t.Fatalf("got %#v", notes[0])
	}
}

func TestHookTranspose(t *testing.T) {
	h, err := Compile("up", `
var n = _.note;
n.octave++;
return n;
`)
	if err != nil {
		t.Fatal(err)
	}
	notes, err := h.Run(context.Background(), someNotes())
	if err != nil {
		t.Fatal(err)
	}
	if notes[0].Octave != 5 || notes[1].Octave != 4 {
		t.Fatalf("got %#v", notes)
	}
}

func TestHookDrop(t *testing.T) {
	h, err := Compile("quiet", `
if (_.note.channel == 1) {
    return null;
}
return _.note;
`)
	if err != nil {
		t.Fatal(err)
	}
	notes, err := h.Run(context.Background(), someNotes())
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 || notes[0].Channel != 0 {
		t.Fatalf("got %#v", notes)
	}
}

func TestHookOut(t *testing.T) {
	h, err := Compile("double", `
_.out({channel: _.note.channel, octave: _.note.octave + 1,
       pitch: _.note.pitch, velocity: _.note.velocity,
       duration: _.note.duration, time: _.note.time});
return _.note;
`)
	if err != nil {
		t.Fatal(err)
	}
	notes, err := h.Run(context.Background(), someNotes())
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 4 {
		t.Fatalf("got %d notes", len(notes))
	}
	if notes[1].Octave != 5 {
		t.Fatalf("got %#v", notes[1])
	}
}

func TestHookBadSource(t *testing.T) {
	if _, err := Compile("broken", `return (;`); err == nil {
		t.Fatal("expected an error")
	}
}

func TestHookBadValue(t *testing.T) {
	h, err := Compile("numeric", `return 42;`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = h.Run(context.Background(), someNotes()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestHookInterrupt(t *testing.T) {
	h, err := Compile("spin", `for (;;) {}`)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err = h.Run(ctx, someNotes()); err != Interrupted {
		t.Fatalf("got %v", err)
	}
}
