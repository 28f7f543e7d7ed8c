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
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Comcast/gridbeat/util"

	"github.com/gorhill/cronexpr"
)

// An OpEmitter is what an Injection calls when its schedule fires.
type OpEmitter func(ctx context.Context, op GridOp) error

var (
	Exists   = errors.New("id exists")
	NotFound = errors.New("not found")
)

// An Injection writes a grid op on a cron schedule.
//
// Live coding by crontab.  Somebody had to.
type Injection struct {
	Id       string `json:"id"`
	Schedule string `json:"schedule"`
	Op       GridOp `json:"op"`

	expr *cronexpr.Expression
	ctl  chan bool
}

// Injections is a set of cron-driven grid ops.
type Injections struct {
	Errors chan interface{} `json:"-" yaml:"-"`

	sync.Mutex

	injections map[string]*Injection
	ctl        chan bool
	emit       OpEmitter
}

func NewInjections(emitter OpEmitter) *Injections {
	return &Injections{
		injections: make(map[string]*Injection, 32),
		emit:       emitter,
		ctl:        make(chan bool),
	}
}

// Add schedules op according to the given cron expression.
//
// The schedule uses github.com/gorhill/cronexpr syntax, which allows
// a seconds field, so "*/2 * * * * * *" fires every two seconds.
func (is *Injections) Add(ctx context.Context, id string, schedule string, op GridOp) error {
	is.Lock()
	defer is.Unlock()

	if _, have := is.injections[id]; have {
		return Exists
	}

	expr, err := cronexpr.Parse(schedule)
	if err != nil {
		return err
	}

	in := &Injection{
		Id:       id,
		Schedule: schedule,
		Op:       op,
		expr:     expr,
		ctl:      make(chan bool),
	}

	is.injections[id] = in

	stop := func() {
		if err := is.Rem(ctx, id); err != nil && err != NotFound {
			is.err(fmt.Errorf("Injections rem error %v id=%s", err, id))
		}
	}

	go func() {
		for {
			next := in.expr.Next(time.Now())
			if next.IsZero() {
				stop()
				return
			}
			timer := time.NewTimer(next.Sub(time.Now()))
			select {
			case <-ctx.Done():
				timer.Stop()
				stop()
				return
			case <-in.ctl:
				timer.Stop()
				// We only get here via a Rem() call.
				return
			case <-is.ctl:
				timer.Stop()
				stop()
				return
			case <-timer.C:
				util.Logf("Injections firing %s", id)
				if err := is.emit(ctx, in.Op); err != nil {
					is.err(fmt.Errorf("Injections emit error %v id=%s", err, id))
				}
			}
		}
	}()

	return nil
}

func (is *Injections) Rem(ctx context.Context, id string) error {
	is.Lock()
	defer is.Unlock()

	in, have := is.injections[id]
	if !have {
		return NotFound
	}

	delete(is.injections, id)

	close(in.ctl)

	return nil
}

// Ids returns the ids of the current injections.
func (is *Injections) Ids() []string {
	is.Lock()
	defer is.Unlock()
	acc := make([]string, 0, len(is.injections))
	for id := range is.injections {
		acc = append(acc, id)
	}
	return acc
}

func (is *Injections) Shutdown() error {
	close(is.ctl)
	return nil
}

func (is *Injections) err(err error) {
	if is.Errors != nil {
		is.Errors <- err
	} else {
		log.Println(err)
	}
}
