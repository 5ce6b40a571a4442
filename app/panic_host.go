//go:build !(tinygo && baremetal)

package app

// hostClock reports whether log lines can carry a wall-clock timestamp.
const hostClock = true

// haltAfterPanic returns on the host: the executor stops and Run reports the error.
func haltAfterPanic() {}
