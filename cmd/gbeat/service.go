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
	"context"
	"sync"
	"time"

	"github.com/Comcast/gridbeat/core"
	"github.com/Comcast/gridbeat/hook"
	"github.com/Comcast/gridbeat/sio"
	"github.com/Comcast/gridbeat/util"

	"github.com/google/uuid"
)

// A Frame is what one tick produced: the grid afterwards and the
// notes it emitted.  Frames go to WebSocket clients and into the
// session recording.
type Frame struct {
	Tick  int              `json:"tick"`
	Time  int64            `json:"time"`
	Grid  []string         `json:"grid"`
	Notes []core.NoteEvent `json:"notes,omitempty"`
}

// Service couples a grid to its inputs and outputs.
//
// Grid edits arrive on a channel from stdin, MQTT, WebSockets, or
// injections, and the service applies them between ticks.
type Service struct {
	sync.Mutex

	// Session identifies this run in the recording.
	Session string

	// Sinks gets each tick's notes.
	Sinks sio.NoteSink

	// Hook, if not nil, rewrites notes before they reach the
	// sinks.
	Hook *hook.Hook

	// Errors gets asynchronous trouble (if not nil).
	Errors chan interface{}

	grid    *core.Context
	tickOps map[rune]core.Operator
	bangOps map[rune]core.Operator

	ops chan sio.GridOp

	// frames is the broadcast channel the WebSocket service
	// drains (when running).
	frames chan interface{}

	store *Storage
}

func NewService(grid *core.Context, symbols map[string]rune, store *Storage) *Service {
	return &Service{
		Session: uuid.New().String(),
		grid:    grid,
		tickOps: core.TickOperators(symbols),
		bangOps: core.BangOperators(symbols),
		ops:     make(chan sio.GridOp, 1024),
		store:   store,
	}
}

// Do queues a grid edit for the next tick.
func (s *Service) Do(ctx context.Context, op sio.GridOp) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.ops <- op:
		return nil
	}
}

// Ops exposes the edit queue (for the MQTT command subscription).
func (s *Service) Ops() chan<- sio.GridOp {
	return s.ops
}

func (s *Service) err(x interface{}) {
	if s.Errors != nil {
		select {
		case s.Errors <- x:
		default:
		}
		return
	}
	util.Logf("Service error %v", x)
}

// Step applies pending edits, runs one tick, and routes the notes.
func (s *Service) Step(ctx context.Context) (*Frame, error) {
	s.Lock()
	defer s.Unlock()

	for {
		select {
		case op := <-s.ops:
			op.Apply(s.grid)
			continue
		default:
		}
		break
	}

	s.grid.TickTime = util.Timestamp()
	notes := core.Tick(s.grid, s.tickOps, s.bangOps)

	if s.Hook != nil {
		var err error
		if notes, err = s.Hook.Run(ctx, notes); err != nil {
			return nil, err
		}
	}

	if s.Sinks != nil && 0 < len(notes) {
		if err := s.Sinks.Emit(ctx, notes); err != nil {
			s.err(err)
		}
	}

	f := &Frame{
		Tick:  s.grid.Ticks,
		Time:  s.grid.TickTime,
		Grid:  s.grid.Lines(),
		Notes: notes,
	}

	if err := s.store.RecordFrame(ctx, s.Session, f); err != nil {
		s.err(err)
	}

	if s.frames != nil {
		select {
		case s.frames <- f:
		default:
			util.Logf("Service frames blocked at tick %d", f.Tick)
		}
	}

	return f, nil
}

// Play ticks at four per beat until the ctx is done or maxTicks (if
// positive) have run.
func (s *Service) Play(ctx context.Context, bpm int, maxTicks int) error {
	period := time.Minute / time.Duration(4*bpm)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for n := 0; maxTicks <= 0 || n < maxTicks; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Step(ctx); err != nil {
				return err
			}
		}
	}

	return nil
}

// Snapshot returns the current grid rendering without ticking.
func (s *Service) Snapshot() []string {
	s.Lock()
	defer s.Unlock()
	return s.grid.Lines()
}
