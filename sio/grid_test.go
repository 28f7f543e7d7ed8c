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
	"strings"
	"testing"
)

func TestReadGrid(t *testing.T) {
	c, err := ReadGrid(strings.NewReader("1A.\n...\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Height() != 2 || c.Width() != 3 {
		t.Fatalf("got %dx%d", c.Height(), c.Width())
	}
	if c.Read(0, 1) != 'A' {
		t.Fatalf("got %q", c.Read(0, 1))
	}
}

func TestReadGridCRLF(t *testing.T) {
	c, err := ReadGrid(strings.NewReader("ab\r\ncd\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Width() != 2 {
		t.Fatalf("got width %d", c.Width())
	}
}

func TestReadGridTrailingBlanks(t *testing.T) {
	c, err := ReadGrid(strings.NewReader("..\n..\n\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Height() != 2 {
		t.Fatalf("got height %d", c.Height())
	}
}

func TestReadGridRagged(t *testing.T) {
	if _, err := ReadGrid(strings.NewReader("...\n..\n")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestGridRoundTrip(t *testing.T) {
	text := "1A.\n.z.\n"
	c, err := ReadGrid(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	buf := bytes.NewBuffer(nil)
	if err = WriteGrid(buf, c); err != nil {
		t.Fatal(err)
	}
	if buf.String() != text {
		t.Fatalf("got %q wanted %q", buf.String(), text)
	}
}
