// Package interrupts installs the kernel's hardware interrupt service routines.
//
// The routines run in interrupt context. They only read the device, hand the byte to
// an event queue and acknowledge the line; all further work happens in tasks.
package interrupts

import (
	"sync/atomic"

	"ember/hal"
	"ember/kernel/event"

	"github.com/rs/zerolog"
)

// Vector offsets of the two chained 8259 controllers.
const (
	PIC1Offset = 32
	PIC2Offset = PIC1Offset + 8
)

// Lines handled by the kernel.
const (
	IRQTimer    = hal.IRQTimer
	IRQKeyboard = hal.IRQKeyboard
)

// Vector returns the interrupt vector irq is remapped to.
func Vector(irq hal.IRQ) uint8 {
	if irq < 8 {
		return PIC1Offset + uint8(irq)
	}
	return PIC2Offset + uint8(irq-8)
}

// Table owns the service routines for the timer and keyboard lines.
//
// The queues may be attached after Install; until then the keyboard routine drops
// what it reads and the timer routine only acknowledges.
type Table struct {
	pic  hal.InterruptController
	port hal.Port8
	log  zerolog.Logger

	scancodes atomic.Pointer[event.Queue]
	ticks     atomic.Pointer[event.Queue]
}

// New returns a table reading scan codes from port and acknowledging on pic.
func New(pic hal.InterruptController, port hal.Port8, log zerolog.Logger) *Table {
	return &Table{pic: pic, port: port, log: log}
}

// SetScancodeQueue attaches the queue fed by the keyboard routine.
func (t *Table) SetScancodeQueue(q *event.Queue) { t.scancodes.Store(q) }

// SetTickQueue attaches the queue fed by the timer routine.
func (t *Table) SetTickQueue(q *event.Queue) { t.ticks.Store(q) }

// Install registers both routines with the interrupt controller.
func (t *Table) Install() {
	t.pic.SetHandler(IRQTimer, t.Timer)
	t.pic.SetHandler(IRQKeyboard, t.Keyboard)
	t.log.Debug().
		Uint8("timer", Vector(IRQTimer)).
		Uint8("keyboard", Vector(IRQKeyboard)).
		Msg("interrupt handlers installed")
}

// Keyboard reads one scan code from the controller, publishes it and acknowledges
// the line. The port is read even when no queue is attached, or the controller
// would never raise the line again.
func (t *Table) Keyboard() {
	b := t.port.Read8()
	if q := t.scancodes.Load(); q != nil {
		_ = q.Publish(b)
	} else {
		t.log.Warn().Uint8("scancode", b).Msg("scancode queue uninitialized")
	}
	t.pic.EndOfInterrupt(IRQKeyboard)
}

// Timer publishes a tick and acknowledges the line.
func (t *Table) Timer() {
	if q := t.ticks.Load(); q != nil {
		_ = q.Publish(0)
	}
	t.pic.EndOfInterrupt(IRQTimer)
}
