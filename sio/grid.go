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
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/Comcast/gridbeat/core"
)

// ReadGrid parses a grid from its textual form: one row per line,
// one cell per character, '.' standing for an empty cell.
//
// Trailing blank lines are ignored; all other lines must have the
// same length.
func ReadGrid(r io.Reader) (*core.Context, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	for 0 < len(lines) && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return core.NewContextFromLines(lines)
}

// LoadGrid reads a grid from a file.
func LoadGrid(filename string) (*core.Context, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGrid(f)
}

// WriteGrid renders a grid in its textual form.
func WriteGrid(w io.Writer, c *core.Context) error {
	for _, line := range c.Lines() {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// SaveGrid writes a grid to a file.
func SaveGrid(filename string, c *core.Context) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = WriteGrid(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
