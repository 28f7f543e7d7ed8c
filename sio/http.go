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
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/cookiejar"

	"github.com/Comcast/gridbeat/core"
	"github.com/Comcast/gridbeat/util"

	"golang.org/x/net/publicsuffix"
)

// HTTPSink POSTs batches of notes as JSON arrays.
//
// Some receivers hand out session cookies, so the sink keeps a real
// cookie jar across requests.
type HTTPSink struct {
	// URL is the note receiver.
	URL string

	// Headers are added to every request.
	Headers http.Header

	// Client is constructed by Start.
	client *http.Client
}

func (s *HTTPSink) Start(ctx context.Context) error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return err
	}
	s.client = &http.Client{Jar: jar}
	return nil
}

func (s *HTTPSink) Emit(ctx context.Context, notes []core.NoteEvent) error {
	if len(notes) == 0 {
		return nil
	}
	js, err := json.Marshal(&notes)
	if err != nil {
		return err
	}
	req, err := http.NewRequest("POST", s.URL, bytes.NewReader(js))
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	for name, vals := range s.Headers {
		for _, val := range vals {
			req.Header.Add(name, val)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	if _, err := io.Copy(ioutil.Discard, resp.Body); err != nil {
		util.Logf("HTTPSink drain error: %v", err)
	}
	if 300 <= resp.StatusCode {
		return fmt.Errorf("HTTPSink POST status %s", resp.Status)
	}
	return nil
}

func (s *HTTPSink) Stop(ctx context.Context) error {
	s.client = nil
	return nil
}
