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

// gbeat runs a grid: it loads a grid file, ticks it at a tempo, and
// routes the notes to stdout, MQTT, or HTTP, with optional WebSocket
// viewing, bbolt session recording, and JavaScript note hooks.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/Comcast/gridbeat/core"
	"github.com/Comcast/gridbeat/hook"
	"github.com/Comcast/gridbeat/sio"
	"github.com/Comcast/gridbeat/tools"
	"github.com/Comcast/gridbeat/util"

	"github.com/jsccast/yaml"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {

	var (
		configFile = flag.String("c", "", "YAML config filename")

		gridFile    = flag.String("g", "", "grid filename")
		symbolsFile = flag.String("y", "", "operator symbols filename")
		height      = flag.Int("H", 16, "height for a blank grid (no -g)")
		width       = flag.Int("W", 32, "width for a blank grid (no -g)")

		bpm      = flag.Int("b", 0, "tempo (ticks run at four per beat)")
		maxTicks = flag.Int("n", 0, "stop after this many ticks (0 to run forever)")
		seed     = flag.Int64("seed", 0, "seed the random operator (0 for wall clock)")

		dbFile   = flag.String("d", "", "bbolt filename for session recording")
		hookFile = flag.String("j", "", "JavaScript note hook filename")

		httpPort  = flag.String("h", "", "HTTP port for our service")
		wsService = flag.Bool("w", true, "WebSockets service")
		httpDir   = flag.String("f", "", "directory to serve via HTTP")

		broker   = flag.String("mb", "", "MQTT broker (e.g. tcp://localhost:1883)")
		topic    = flag.String("mt", "notes", "MQTT topic for notes")
		cmdTopic = flag.String("mc", "", "MQTT topic to subscribe for grid ops")
		clientID = flag.String("mi", "gbeat", "MQTT client id")

		httpSink = flag.String("u", "", "URL to POST notes to")

		listenOnStdin = flag.Bool("I", false, "listen for ops on stdin")
		emitToStdout  = flag.Bool("O", false, "emit notes to stdout")

		dumpState = flag.Bool("dump-state", false, "print final state as YAML on exit")
	)

	flag.BoolVar(&util.Logging, "v", false, "log lots of wonderful things")

	flag.Parse()

	cfg := &Config{}
	if *configFile != "" {
		var err error
		if cfg, err = LoadConfig(*configFile); err != nil {
			return err
		}
	}

	// Flags win over config.
	if *gridFile != "" {
		cfg.Grid = *gridFile
	}
	if *symbolsFile != "" {
		cfg.Symbols = *symbolsFile
	}
	if *bpm != 0 {
		cfg.BPM = *bpm
	}
	if cfg.BPM == 0 {
		cfg.BPM = 120
	}
	if *maxTicks != 0 {
		cfg.Ticks = *maxTicks
	}
	if *dbFile != "" {
		cfg.DB = *dbFile
	}
	if *hookFile != "" {
		cfg.Hook = *hookFile
	}
	if *httpPort != "" {
		cfg.HTTPPort = *httpPort
	}
	if *httpSink != "" {
		cfg.HTTPSink = *httpSink
	}
	if *broker != "" {
		cfg.MQTT = &MQTTConfig{
			Broker:   *broker,
			ClientID: *clientID,
			Topic:    *topic,
			CmdTopic: *cmdTopic,
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	var (
		grid *core.Context
		err  error
	)
	if cfg.Grid != "" {
		if grid, err = sio.LoadGrid(cfg.Grid); err != nil {
			return err
		}
	} else {
		if grid, err = core.NewContext(*height, *width); err != nil {
			return err
		}
	}

	if *seed != 0 {
		grid.SetRandom(rand.New(rand.NewSource(*seed)))
	}

	symbols := core.ReadSymbols(cfg.Symbols)

	var store *Storage
	if cfg.DB != "" {
		if store, err = NewStorage(cfg.DB); err != nil {
			return err
		}
		if err = store.Open(ctx); err != nil {
			return err
		}
		defer store.Close(ctx) // ToDo: Check error.
	}

	s := NewService(grid, symbols, store)
	s.Errors = make(chan interface{}, 8)
	monitor(ctx, s.Errors, "errors")

	if err = store.EnsureSession(ctx, s.Session); err != nil {
		return err
	}

	sinks := sio.Multi{}
	if *emitToStdout {
		sinks = append(sinks, &sio.WriterSink{Out: os.Stdout})
	}
	if cfg.MQTT != nil {
		sinks = append(sinks, &sio.MQSink{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			Topic:    cfg.MQTT.Topic,
			QoS:      cfg.MQTT.QoS,
			CmdTopic: cfg.MQTT.CmdTopic,
			Ops:      s.Ops(),
		})
	}
	if cfg.HTTPSink != "" {
		sinks = append(sinks, &sio.HTTPSink{URL: cfg.HTTPSink})
	}
	if err = sinks.Start(ctx); err != nil {
		return err
	}
	defer sinks.Stop(ctx)
	s.Sinks = sinks

	if cfg.Hook != "" {
		src, err := ioutil.ReadFile(cfg.Hook)
		if err != nil {
			return err
		}
		if s.Hook, err = hook.Compile(cfg.Hook, string(src)); err != nil {
			return err
		}
	}

	if 0 < len(cfg.Injections) {
		is := sio.NewInjections(s.Do)
		defer is.Shutdown()
		for _, in := range cfg.Injections {
			if err = is.Add(ctx, in.Id, in.Schedule, in.Op); err != nil {
				return err
			}
		}
	}

	if *listenOnStdin {
		go func() {
			if err := listen(ctx, s); err != nil {
				log.Printf("stdin listener error %s", err)
			}
			util.Logf("stdin listener done")
			cancel()
		}()
	}

	if cfg.HTTPPort != "" {
		go func() {
			if *wsService {
				log.Printf("WebSockets service starting")
				if err := s.WebSocketService(ctx); err != nil {
					panic(err)
				}
			}

			if *httpDir != "" {
				log.Printf("HTTP serving files in %s", *httpDir)
				fs := http.FileServer(http.Dir(*httpDir))
				http.Handle("/static/", http.StripPrefix("/static", fs))
			}

			log.Printf("HTTP service on %s", cfg.HTTPPort)
			if err := s.HTTPServer(ctx, cfg.HTTPPort, cfg.Symbols); err != nil {
				panic(err)
			}
		}()
	}

	err = s.Play(ctx, cfg.BPM, cfg.Ticks)
	if err == context.Canceled {
		err = nil
	}

	if *dumpState {
		state := map[string]interface{}{
			"session": s.Session,
			"ticks":   grid.Ticks,
			"grid":    s.Snapshot(),
		}
		bs, yerr := yaml.Marshal(&state)
		if yerr != nil {
			return yerr
		}
		fmt.Printf("%s", bs)
	}

	return err
}

// listen reads grid ops, one JSON object per line, from stdin.
func listen(ctx context.Context, s *Service) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var op sio.GridOp
		if err := json.Unmarshal(line, &op); err != nil {
			log.Printf("can't parse op: %v", err)
			continue
		}
		if err := s.Do(ctx, op); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func monitor(ctx context.Context, c chan interface{}, tag string) {
	go func() {
		util.Logf("monitoring %s", tag)
	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			case x := <-c:
				log.Printf("%s %v", tag, x)
			}
		}
		util.Logf("halting monitoring of %s", tag)
	}()
}

// HTTPServer serves the REST-ish API: POST ops, read the grid,
// replay sessions, and view the operator reference.
func (s *Service) HTTPServer(ctx context.Context, port string, symbolsFile string) error {
	complain := func(w http.ResponseWriter, x interface{}, status int) {
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"error":"%s"}`+"\n", x)
	}

	http.Handle("/goroutines", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pprof.Lookup("goroutine").WriteTo(w, 1)
	}))

	http.Handle("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		js, err := ioutil.ReadAll(r.Body)
		if err != nil {
			complain(w, err, http.StatusBadRequest)
			return
		}
		if err := r.Body.Close(); err != nil {
			log.Printf("Service.HTTPServer warning on Body.Close(): %v", err)
		}

		var op sio.GridOp
		if err := json.Unmarshal(js, &op); err != nil {
			complain(w, err, http.StatusBadRequest)
			return
		}
		if err = s.Do(ctx, op); err != nil {
			complain(w, err, http.StatusInternalServerError)
			return
		}
		if _, err = w.Write([]byte(`{"queued":true}`+"\n")); err != nil {
			log.Printf("Service.HTTPServer warning on Write(): %v", err)
		}
	}))

	http.Handle("/grid", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		js, err := json.Marshal(s.Snapshot())
		if err != nil {
			complain(w, err, http.StatusInternalServerError)
			return
		}
		w.Write(js)
	}))

	http.Handle("/sessions", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sids, err := s.store.Sessions(ctx)
		if err != nil {
			complain(w, err, http.StatusInternalServerError)
			return
		}
		js, err := json.Marshal(sids)
		if err != nil {
			complain(w, err, http.StatusInternalServerError)
			return
		}
		w.Write(js)
	}))

	http.Handle("/sessions/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := r.URL.Path[len("/sessions/"):]
		fs, err := s.store.GetFrames(ctx, sid)
		if err != nil {
			complain(w, err, http.StatusInternalServerError)
			return
		}
		if fs == nil {
			complain(w, "not found", http.StatusNotFound)
			return
		}
		js, err := json.Marshal(fs)
		if err != nil {
			complain(w, err, http.StatusInternalServerError)
			return
		}
		w.Write(js)
	}))

	http.HandleFunc("/ops.html", func(w http.ResponseWriter, r *http.Request) {
		if err := tools.ReadAndRenderOpsPage(symbolsFile, nil, w); err != nil {
			fmt.Fprintf(w, "ReadAndRenderOpsPage error: %s", err)
		}
	})

	return http.ListenAndServe(port, nil)
}
