//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type tinyGoDisplay struct {
	fb Framebuffer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return d.fb }

// runTimer raises the timer line hz times per second, forever.
func runTimer(cpu *SoftCPU, hz int) {
	if hz <= 0 {
		hz = 100
	}
	t := time.NewTicker(time.Second / time.Duration(hz))
	defer t.Stop()
	for range t.C {
		cpu.Raise(IRQTimer)
	}
}

// runUARTKeyboard types every byte received on uart into the keyboard controller.
func runUARTKeyboard(uart *machine.UART, ps2 *SoftPS2) {
	for {
		for uart.Buffered() > 0 {
			b, err := uart.ReadByte()
			if err != nil {
				break
			}
			ps2.TypeRune(rune(b))
		}
		time.Sleep(2 * time.Millisecond)
	}
}
