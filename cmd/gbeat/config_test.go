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
	"testing"
)

func TestLoadConfig(t *testing.T) {
	src := `
grid: demo.grid
bpm: 90
db: frames.db
mqtt:
  broker: tcp://localhost:1883
  topic: notes
  cmdTopic: ops
injections:
  - id: kick
    schedule: "*/2 * * * * * *"
    op:
      op: bang
      row: 3
      col: 4
`
	filename := t.TempDir() + "/config.yaml"
	if err := ioutil.WriteFile(filename, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(filename)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.BPM != 90 || cfg.Grid != "demo.grid" {
		t.Fatalf("got %#v", cfg)
	}
	if cfg.MQTT == nil || cfg.MQTT.CmdTopic != "ops" {
		t.Fatalf("got %#v", cfg.MQTT)
	}
	if len(cfg.Injections) != 1 || cfg.Injections[0].Op.Row != 3 {
		t.Fatalf("got %#v", cfg.Injections)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfig("no-such-file.yaml"); err == nil {
		t.Fatal("expected an error")
	}
}
