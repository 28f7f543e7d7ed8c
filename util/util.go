package util

import (
	"log"
	"time"
)

// Logging is a clumsy switch that affects what Logf does.
//
// If Logging is true, then Logf calls log.Printf.
var Logging = false

// Logf is a silly utility function that calls log.Printf if Logging
// is true.
func Logf(format string, args ...interface{}) {
	if !Logging {
		return
	}
	log.Printf(format, args...)
}

// Timestamp returns the current UTC time in milliseconds, which is
// what note events carry.
func Timestamp() int64 {
	return time.Now().UTC().UnixNano() / 1000 / 1000
}
