package hal

import (
	"math/bits"
	"sync"
)

// SoftCPU simulates a single core with a maskable interrupt line and an interrupt
// controller.
//
// Interrupts raised while masked, or while the same line is still in service, stay
// pending. Pending interrupts are delivered on the goroutine that unmasks them, the way
// a real core takes a pending interrupt right after sti. Raise delivers on the caller's
// goroutine when the core is unmasked, which stands in for asynchronous preemption.
type SoftCPU struct {
	mu   sync.Mutex
	cond *sync.Cond

	masked    bool
	inISR     bool
	stopped   bool
	pending   uint32
	inService uint32
	delivered uint64
	halts     uint64

	handlers [MaxIRQ]func()
}

// NewSoftCPU returns a core with interrupts enabled and no handlers installed.
func NewSoftCPU() *SoftCPU {
	c := &SoftCPU{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// SetHandler implements InterruptController.
func (c *SoftCPU) SetHandler(irq IRQ, fn func()) {
	if irq >= MaxIRQ {
		return
	}
	c.mu.Lock()
	c.handlers[irq] = fn
	c.mu.Unlock()
}

// EndOfInterrupt implements InterruptController.
func (c *SoftCPU) EndOfInterrupt(irq IRQ) {
	if irq >= MaxIRQ {
		return
	}
	c.mu.Lock()
	c.inService &^= 1 << irq
	c.deliverLocked()
	c.mu.Unlock()
}

// Raise asserts irq.
func (c *SoftCPU) Raise(irq IRQ) {
	if irq >= MaxIRQ {
		return
	}
	c.mu.Lock()
	c.pending |= 1 << irq
	c.deliverLocked()
	c.mu.Unlock()
}

// DisableInterrupts implements CPU. It waits for a handler running on another
// goroutine to return, since on a single core nothing else runs while a handler does.
func (c *SoftCPU) DisableInterrupts() {
	c.mu.Lock()
	for c.inISR {
		c.cond.Wait()
	}
	c.masked = true
	c.mu.Unlock()
}

// EnableInterrupts implements CPU.
func (c *SoftCPU) EnableInterrupts() {
	c.mu.Lock()
	c.masked = false
	c.deliverLocked()
	c.mu.Unlock()
}

// EnableInterruptsAndHalt implements CPU.
func (c *SoftCPU) EnableInterruptsAndHalt() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.halts++
	seq := c.delivered
	c.masked = false
	c.deliverLocked()
	for c.delivered == seq && !c.stopped {
		c.cond.Wait()
	}
}

// Stop makes every current and future halt return immediately.
func (c *SoftCPU) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.cond.Broadcast()
	c.mu.Unlock()
}

// Halts returns how many times the core has executed a halt.
func (c *SoftCPU) Halts() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.halts
}

// Delivered returns how many interrupts have been serviced.
func (c *SoftCPU) Delivered() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delivered
}

// Masked reports whether interrupts are currently disabled.
func (c *SoftCPU) Masked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.masked
}

// deliverLocked services deliverable interrupts, lowest line first. c.mu is held on
// entry and on return but released while a handler runs.
func (c *SoftCPU) deliverLocked() {
	for !c.masked && !c.inISR {
		ready := c.pending &^ c.inService
		if ready == 0 {
			return
		}
		irq := IRQ(bits.TrailingZeros32(ready))
		c.pending &^= 1 << irq
		c.inService |= 1 << irq
		fn := c.handlers[irq]

		c.inISR = true
		c.mu.Unlock()
		if fn != nil {
			fn()
		} else {
			c.mu.Lock()
			c.inService &^= 1 << irq
			c.mu.Unlock()
		}
		c.mu.Lock()
		c.inISR = false
		c.delivered++
		c.cond.Broadcast()
	}
}
