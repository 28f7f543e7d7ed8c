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

import "github.com/Comcast/gridbeat/core"

// semitones gives the natural semitone for each pitch-class letter,
// A through G.
var semitones = []int{9, 11, 0, 2, 4, 5, 7}

// MIDINote maps a note event to a MIDI note number.
//
// The engine's pitch classes run past G: every seven classes wrap to
// the next octave, so 'h' sounds an octave above 'a'.  The result is
// not clamped to 0-127; that's the backend's call.
func MIDINote(n core.NoteEvent) int {
	octave := n.Octave + n.Pitch/7
	letter := n.Pitch % 7
	if letter < 0 {
		letter += 7
		octave--
	}
	note := 12 + 12*octave + semitones[letter]
	if n.Sharp {
		note++
	}
	return note
}
