package hal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskedInterruptStaysPending(t *testing.T) {
	cpu := NewSoftCPU()
	calls := 0
	cpu.SetHandler(1, func() {
		calls++
		cpu.EndOfInterrupt(1)
	})

	cpu.DisableInterrupts()
	cpu.Raise(1)
	require.Zero(t, calls)
	require.True(t, cpu.Masked())

	cpu.EnableInterrupts()
	require.Equal(t, 1, calls)
	require.Equal(t, uint64(1), cpu.Delivered())
}

func TestMissingEndOfInterruptSilencesLine(t *testing.T) {
	cpu := NewSoftCPU()
	calls := 0
	cpu.SetHandler(1, func() { calls++ })

	cpu.Raise(1)
	cpu.Raise(1)
	cpu.Raise(1)
	require.Equal(t, 1, calls)

	cpu.EndOfInterrupt(1)
	require.Equal(t, 2, calls)
}

func TestLowerLineServicedFirst(t *testing.T) {
	cpu := NewSoftCPU()
	var order []IRQ
	for _, irq := range []IRQ{0, 1} {
		irq := irq
		cpu.SetHandler(irq, func() {
			order = append(order, irq)
			cpu.EndOfInterrupt(irq)
		})
	}

	cpu.DisableInterrupts()
	cpu.Raise(1)
	cpu.Raise(0)
	cpu.EnableInterrupts()

	require.Equal(t, []IRQ{0, 1}, order)
}

func TestHaltReturnsOnPendingInterrupt(t *testing.T) {
	cpu := NewSoftCPU()
	cpu.SetHandler(0, func() { cpu.EndOfInterrupt(0) })

	cpu.DisableInterrupts()
	cpu.Raise(0)
	cpu.EnableInterruptsAndHalt()

	require.Equal(t, uint64(1), cpu.Halts())
	require.Equal(t, uint64(1), cpu.Delivered())
}

func TestHaltReturnsAfterStop(t *testing.T) {
	cpu := NewSoftCPU()
	cpu.Stop()
	cpu.DisableInterrupts()
	cpu.EnableInterruptsAndHalt()
	require.Equal(t, uint64(1), cpu.Halts())
}

func TestPS2TypeRune(t *testing.T) {
	cpu := NewSoftCPU()
	ps2 := NewSoftPS2(cpu, 1)
	var got []uint8
	cpu.SetHandler(1, func() {
		got = append(got, ps2.Read8())
		cpu.EndOfInterrupt(1)
	})

	require.True(t, ps2.TypeRune('a'))
	require.True(t, ps2.TypeRune('A'))
	require.True(t, ps2.TypeRune('\r'))
	require.False(t, ps2.TypeRune('é'))

	require.Equal(t, []uint8{0x1E, 0x9E, 0x2A, 0x1E, 0x9E, 0xAA, 0x1C, 0x9C}, got)
}
