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
	"encoding/json"
	"fmt"
	"time"

	"github.com/Comcast/gridbeat/core"
	"github.com/Comcast/gridbeat/util"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQSink publishes notes to an MQTT broker, one JSON message per
// note.
//
// If CmdTopic is set, the sink also subscribes there and forwards
// decoded GridOps to Ops, which gives remote processes a way to poke
// cells in a running grid.
type MQSink struct {
	// Broker is the broker address (e.g. "tcp://localhost:1883").
	Broker   string
	ClientID string
	Username string
	Password string

	// Topic receives the notes.
	Topic string
	QoS   byte

	// CmdTopic, if not zero, is subscribed for GridOps.
	CmdTopic string

	// Ops receives decoded commands from CmdTopic.
	Ops chan<- GridOp

	// OpTimeout bounds in-bound op queuing (default one second).
	OpTimeout time.Duration

	// Quiesce is the disconnection quiescence in milliseconds.
	Quiesce uint

	client mqtt.Client
}

func (s *MQSink) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.Broker)
	opts.SetClientID(s.ClientID)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.Username = s.Username
	opts.Password = s.Password
	opts.AutoReconnect = true

	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		util.Logf("MQSink connection lost: %v", err)
	}

	s.client = mqtt.NewClient(opts)
	if t := s.client.Connect(); t.Wait() && t.Error() != nil {
		return t.Error()
	}

	if s.CmdTopic == "" {
		return nil
	}
	t := s.client.Subscribe(s.CmdTopic, s.QoS, func(client mqtt.Client, msg mqtt.Message) {
		s.inHandler(ctx, msg)
	})
	if t.Wait() && t.Error() != nil {
		return t.Error()
	}
	return nil
}

func (s *MQSink) inHandler(ctx context.Context, msg mqtt.Message) {
	var op GridOp
	if err := json.Unmarshal(msg.Payload(), &op); err != nil {
		util.Logf("MQSink dropping bad op: %v", err)
		return
	}
	if s.Ops == nil {
		return
	}
	timeout := s.OpTimeout
	if timeout == 0 {
		timeout = time.Second
	}
	select {
	case <-ctx.Done():
	case s.Ops <- op:
	case <-time.After(timeout):
		util.Logf("MQSink op queue blocked")
	}
}

func (s *MQSink) Emit(ctx context.Context, notes []core.NoteEvent) error {
	for _, n := range notes {
		js, err := json.Marshal(&n)
		if err != nil {
			return err
		}
		if t := s.client.Publish(s.Topic, s.QoS, false, js); t.Wait() && t.Error() != nil {
			return t.Error()
		}
	}
	return nil
}

func (s *MQSink) Stop(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("MQSink not started")
	}
	s.client.Disconnect(s.Quiesce)
	return nil
}
