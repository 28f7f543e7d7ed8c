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
	"io/ioutil"

	"github.com/Comcast/gridbeat/sio"

	"gopkg.in/yaml.v2"
)

// Config is the optional YAML configuration.
//
// Command-line flags override whatever's here.
type Config struct {
	// Grid is the filename of the initial grid.
	Grid string `yaml:"grid"`

	// Symbols is an optional operator-symbol mapping file.
	Symbols string `yaml:"symbols"`

	// BPM is the tempo (ticks run at four per beat).
	BPM int `yaml:"bpm"`

	// Ticks limits the run (0 means run forever).
	Ticks int `yaml:"ticks"`

	// DB is the bbolt filename for session recording ("" for no
	// recording).
	DB string `yaml:"db"`

	// Hook is a filename of a JavaScript note hook.
	Hook string `yaml:"hook"`

	// HTTPPort is the port for the HTTP (and WebSocket) service.
	HTTPPort string `yaml:"httpPort"`

	// HTTPSink is a URL to POST notes to.
	HTTPSink string `yaml:"httpSink"`

	MQTT *MQTTConfig `yaml:"mqtt"`

	// Injections are cron-scheduled grid edits.
	Injections []InjectionConfig `yaml:"injections"`
}

// MQTTConfig says where (and what) to publish via MQTT.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"clientId"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Topic gets the notes.
	Topic string `yaml:"topic"`
	QoS   byte   `yaml:"qos"`

	// CmdTopic, if given, is subscribed for grid ops.
	CmdTopic string `yaml:"cmdTopic"`
}

// InjectionConfig is one scheduled grid edit.
type InjectionConfig struct {
	Id       string     `yaml:"id"`
	Schedule string     `yaml:"schedule"`
	Op       sio.GridOp `yaml:"op"`
}

// LoadConfig reads a YAML Config from the given file.
func LoadConfig(filename string) (*Config, error) {
	bs, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var c Config
	if err = yaml.Unmarshal(bs, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
