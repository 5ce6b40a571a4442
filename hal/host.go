//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Host is the hosted machine: a stdout logger, an in-memory framebuffer and a
// software interrupt controller with a PS/2 keyboard on line 1.
type Host struct {
	logger *hostLogger
	fb     *hostFramebuffer
	cpu    *SoftCPU
	ps2    *SoftPS2
}

// New returns a host HAL implementation logging to stdout.
func New() HAL {
	return NewHost(os.Stdout)
}

// NewHost returns a host machine whose log lines go to w.
func NewHost(w io.Writer) *Host {
	cpu := NewSoftCPU()
	return &Host{
		logger: &hostLogger{w: w},
		fb:     newHostFramebuffer(320, 320),
		cpu:    cpu,
		ps2:    NewSoftPS2(cpu, IRQKeyboard),
	}
}

func (h *Host) Logger() Logger                  { return h.logger }
func (h *Host) Display() Display                { return hostDisplay{fb: h.fb} }
func (h *Host) CPU() CPU                        { return h.cpu }
func (h *Host) Interrupts() InterruptController { return h.cpu }
func (h *Host) KeyboardPort() Port8             { return h.ps2 }

// Machine exposes the simulated core, for raising interrupts and stopping halts.
func (h *Host) Machine() *SoftCPU { return h.cpu }

// PS2 exposes the keyboard controller, for typing.
func (h *Host) PS2() *SoftPS2 { return h.ps2 }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
