// Package gridbeat provides a deterministic, tick-driven simulator
// for a grid of single-character operators that emit note events.
//
// The simulation engine is in package 'core', IO couplings are in
// 'sio', and the real-time driver is in 'cmd/gbeat'.
//
// See https://github.com/Comcast/gridbeat/blob/master/README.md for more.
package gridbeat
