package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// IRQ is a hardware interrupt line number, before any vector offset is applied.
type IRQ uint8

// MaxIRQ is the number of interrupt lines a controller exposes.
const MaxIRQ = 16

// CPU exposes the processor's interrupt flag and halt instruction.
//
// All three operations are only called from the scheduling thread.
type CPU interface {
	DisableInterrupts()
	EnableInterrupts()
	// EnableInterruptsAndHalt re-enables interrupts and halts until the next interrupt
	// has been serviced, as one indivisible step: an interrupt that became pending while
	// interrupts were disabled wakes the processor instead of being lost.
	EnableInterruptsAndHalt()
}

// InterruptController routes interrupt lines to handlers.
type InterruptController interface {
	// SetHandler installs fn as the service routine for irq. Handlers run in interrupt
	// context: they must not block and must not allocate.
	SetHandler(irq IRQ, fn func())
	// EndOfInterrupt acknowledges irq so that further interrupts on the line are
	// delivered. A handler that never acknowledges its line silences it.
	EndOfInterrupt(irq IRQ)
}

// Port8 is an 8-bit hardware data port.
type Port8 interface {
	Read8() uint8
}

// HAL provides the only contact point between the kernel and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	CPU() CPU
	Interrupts() InterruptController
	KeyboardPort() Port8
}
