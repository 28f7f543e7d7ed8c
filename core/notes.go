package core

// NoteEvent is what the note-emitting operator produces.
//
// All fields except Time are small unsigned magnitudes straight from
// the grid's digit encoding; mapping them to a real sound backend's
// ranges is the sink's business, not ours.
type NoteEvent struct {
	// Channel is the backend channel (0-35).
	Channel int `json:"channel"`

	// Octave is the octave number (0-35).
	Octave int `json:"octave"`

	// Pitch is the pitch class (0-25).
	Pitch int `json:"pitch"`

	// Sharp reports whether the note is sharpened.
	Sharp bool `json:"sharp,omitempty"`

	// Velocity is the note velocity (0-35).
	Velocity int `json:"velocity"`

	// Duration is the note length (0-35).
	Duration int `json:"duration"`

	// Time is the opaque tick timestamp the driver supplied for
	// the tick that emitted this note.  Used downstream for
	// ordering and playback only.
	Time int64 `json:"time"`
}

// NoteFromBase36 builds a NoteEvent from decoded glyph magnitudes.
//
// The note magnitude includes the letter offset, so the pitch class
// is note-10.
func NoteFromBase36(channel, octave, note int, sharp bool, velocity, duration int, time int64) NoteEvent {
	return NoteEvent{
		Channel:  channel,
		Octave:   octave,
		Pitch:    note - 10,
		Sharp:    sharp,
		Velocity: velocity,
		Duration: duration,
		Time:     time,
	}
}
