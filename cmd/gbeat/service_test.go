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

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/Comcast/gridbeat/core"
	"github.com/Comcast/gridbeat/hook"
	"github.com/Comcast/gridbeat/sio"
	. "github.com/Comcast/gridbeat/util/testutil"
)

func testService(t *testing.T, lines ...string) *Service {
	grid, err := core.NewContextFromLines(lines)
	if err != nil {
		t.Fatal(err)
	}
	return NewService(grid, core.ParseSymbols(core.DefaultSymbols), nil)
}

func TestServiceStep(t *testing.T) {
	ctx := context.Background()

	s := testService(t,
		"1D1....",
		".......",
		".:04az2")

	buf := bytes.NewBuffer(nil)
	s.Sinks = &sio.WriterSink{Out: buf}

	for i := 0; i < 2; i++ {
		f, err := s.Step(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if f.Tick != i+1 {
			t.Fatalf("got tick %d", f.Tick)
		}
	}

	if buf.Len() == 0 {
		t.Fatal("no notes emitted")
	}
}

func TestServiceOps(t *testing.T) {
	ctx := context.Background()

	s := testService(t,
		"...",
		"...")

	if err := s.Do(ctx, sio.GridOp{Op: "write", Row: 0, Col: 1, Glyph: "A"}); err != nil {
		t.Fatal(err)
	}

	// The edit lands at the start of the next step.
	if _, err := s.Step(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Snapshot()[0] != ".A." {
		t.Fatalf("got %q", s.Snapshot()[0])
	}
}

func TestServiceHook(t *testing.T) {
	ctx := context.Background()

	s := testService(t,
		"1D1....",
		".......",
		".:04az2")

	h, err := hook.Compile("drop-all", `return null;`)
	if err != nil {
		t.Fatal(err)
	}
	s.Hook = h

	f, err := s.Step(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if 0 < len(f.Notes) {
		t.Fatalf("got %s", JS(f.Notes))
	}
}

func TestStorageRoundTrip(t *testing.T) {
	ctx := context.Background()

	store, err := NewStorage(t.TempDir() + "/frames.db")
	if err != nil {
		t.Fatal(err)
	}
	if err = store.Open(ctx); err != nil {
		t.Fatal(err)
	}
	defer store.Close(ctx)

	sid := "test-session"
	if err = store.EnsureSession(ctx, sid); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 3; i++ {
		f := &Frame{Tick: i, Grid: []string{"..."}}
		if err = store.RecordFrame(ctx, sid, f); err != nil {
			t.Fatal(err)
		}
	}

	fs, err := store.GetFrames(ctx, sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 3 || fs[0].Tick != 1 || fs[2].Tick != 3 {
		t.Fatalf("got %s", JS(fs))
	}

	sids, err := store.Sessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sids) != 1 || sids[0] != sid {
		t.Fatalf("got %#v", sids)
	}

	if err = store.RemSession(ctx, sid); err != nil {
		t.Fatal(err)
	}
	if fs, err = store.GetFrames(ctx, sid); err != nil || fs != nil {
		t.Fatalf("got %#v, %v", fs, err)
	}
}

func TestStorageNil(t *testing.T) {
	ctx := context.Background()

	var store *Storage
	if err := store.RecordFrame(ctx, "x", &Frame{Tick: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(ctx); err != nil {
		t.Fatal(err)
	}
}
