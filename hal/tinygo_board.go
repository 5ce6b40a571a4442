//go:build tinygo && baremetal

package hal

import "machine"

// Board is a Pico (RP2040/RP2350) running the kernel with a UART console.
//
// The interrupt controller is the same soft controller the host uses. Device
// goroutines raise its lines; when every goroutine is parked the TinyGo scheduler
// sleeps the core until the next hardware interrupt.
type Board struct {
	uart   *machine.UART
	logger *uartLogger
	fb     Framebuffer
	cpu    *SoftCPU
	ps2    *SoftPS2
}

// New returns the board HAL.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() *Board {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	cpu := NewSoftCPU()
	return &Board{
		uart:   uart,
		logger: &uartLogger{uart: uart},
		fb:     &stubFramebuffer{w: 320, h: 320},
		cpu:    cpu,
		ps2:    NewSoftPS2(cpu, IRQKeyboard),
	}
}

// Start launches the timer at hz and the UART keyboard.
func (b *Board) Start(hz int) {
	go runTimer(b.cpu, hz)
	go runUARTKeyboard(b.uart, b.ps2)
}

func (b *Board) Logger() Logger                  { return b.logger }
func (b *Board) Display() Display                { return tinyGoDisplay{fb: b.fb} }
func (b *Board) CPU() CPU                        { return b.cpu }
func (b *Board) Interrupts() InterruptController { return b.cpu }
func (b *Board) KeyboardPort() Port8             { return b.ps2 }
