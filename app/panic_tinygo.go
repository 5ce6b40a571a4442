//go:build tinygo && baremetal

package app

import "runtime/interrupt"

const hostClock = false

func haltAfterPanic() {
	interrupt.Disable()
	for {
	}
}
