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

// Package sio couples a grid simulation to the outside world: grid
// files in, note events out, and cell edits back in from remote
// sources.
package sio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Comcast/gridbeat/core"
)

// A NoteSink receives the notes a tick emitted.
//
// For example, an implementation could forward notes to an MQTT
// broker or POST them to some HTTP service.  The driver drains the
// engine's note queue into its sinks after every tick.
type NoteSink interface {
	// Start initializes the sink.
	Start(ctx context.Context) error

	// Emit forwards one tick's notes.  Emit is never called
	// concurrently; ticks are serialized.
	Emit(ctx context.Context, notes []core.NoteEvent) error

	// Stop shuts the sink down.
	Stop(ctx context.Context) error
}

// WriterSink writes notes as JSON lines.
//
// With an os.Stdout target, the output works as crude piped input
// for whatever sound-making process is downstream.
type WriterSink struct {
	Out io.Writer

	// Timestamps prepends the wall-clock time to each line.
	Timestamps bool
}

func (s *WriterSink) Start(ctx context.Context) error {
	return nil
}

func (s *WriterSink) Emit(ctx context.Context, notes []core.NoteEvent) error {
	for _, n := range notes {
		js, err := json.Marshal(&n)
		if err != nil {
			return err
		}
		if s.Timestamps {
			if _, err = fmt.Fprintf(s.Out, "%s %s\n", time.Now().UTC().Format(time.RFC3339Nano), js); err != nil {
				return err
			}
			continue
		}
		if _, err = fmt.Fprintf(s.Out, "%s\n", js); err != nil {
			return err
		}
	}
	return nil
}

func (s *WriterSink) Stop(ctx context.Context) error {
	return nil
}

// Multi fans notes out to several sinks in order.
type Multi []NoteSink

func (m Multi) Start(ctx context.Context) error {
	for _, s := range m {
		if err := s.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Emit(ctx context.Context, notes []core.NoteEvent) error {
	for _, s := range m {
		if err := s.Emit(ctx, notes); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Stop(ctx context.Context) error {
	var lastErr error
	for _, s := range m {
		if err := s.Stop(ctx); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// A GridOp is a remote edit aimed at the grid: write a glyph (or a
// bang) at a cell.  Ops arrive from MQTT command topics, websocket
// clients, or cron injections, and the driver applies them between
// ticks.
type GridOp struct {
	// Op is "write" or "bang".
	Op string `json:"op"`

	Row int `json:"row"`
	Col int `json:"col"`

	// Glyph is the single character to write (for "write").
	Glyph string `json:"glyph,omitempty"`
}

// Rune returns the glyph to store: '.' and "" count as empty, and a
// "bang" op is always a bang.
func (o GridOp) Rune() rune {
	if o.Op == "bang" {
		return core.Bang
	}
	rs := []rune(o.Glyph)
	if len(rs) == 0 || rs[0] == core.Filler {
		return core.Empty
	}
	return rs[0]
}

// Apply writes the op into the grid.
func (o GridOp) Apply(c *core.Context) {
	c.Write(o.Row, o.Col, o.Rune())
}
