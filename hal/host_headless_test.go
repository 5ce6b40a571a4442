//go:build !tinygo

package hal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isrRunner counts timer interrupts and records keyboard bytes, halting in between.
type isrRunner struct {
	cpu   *SoftCPU
	ticks atomic.Uint64
	fail  error

	mu   sync.Mutex
	keys []uint8
}

func newISRRunner(h HAL, fail error) *isrRunner {
	host := h.(*Host)
	r := &isrRunner{cpu: host.Machine(), fail: fail}
	r.cpu.SetHandler(IRQTimer, func() {
		r.ticks.Add(1)
		r.cpu.EndOfInterrupt(IRQTimer)
	})
	r.cpu.SetHandler(IRQKeyboard, func() {
		if b := host.PS2().Read8(); b != 0 {
			r.mu.Lock()
			r.keys = append(r.keys, b)
			r.mu.Unlock()
		}
		r.cpu.EndOfInterrupt(IRQKeyboard)
	})
	return r
}

func (r *isrRunner) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		if r.fail != nil && r.ticks.Load() > 0 {
			return r.fail
		}
		r.cpu.DisableInterrupts()
		r.cpu.EnableInterruptsAndHalt()
	}
	return ctx.Err()
}

func TestRunHeadlessStopsAfterTicks(t *testing.T) {
	var r *isrRunner
	err := RunHeadless(context.Background(), func(h HAL) (Runner, error) {
		r = newISRRunner(h, nil)
		return r, nil
	}, HeadlessConfig{Hz: 1000, Ticks: 5, Log: &bytes.Buffer{}})

	require.NoError(t, err)
	require.Greater(t, r.ticks.Load(), uint64(0))
	require.LessOrEqual(t, r.ticks.Load(), uint64(5))
}

func TestRunHeadlessTypesInput(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var r *isrRunner
	err := RunHeadless(ctx, func(h HAL) (Runner, error) {
		r = newISRRunner(h, nil)
		return r, nil
	}, HeadlessConfig{Hz: 100, Input: strings.NewReader("ab"), Log: &bytes.Buffer{}})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Equal(t, []uint8{0x1E, 0x9E, 0x30, 0xB0}, r.keys)
}

func TestRunHeadlessReturnsRunnerError(t *testing.T) {
	boom := errors.New("boom")
	err := RunHeadless(context.Background(), func(h HAL) (Runner, error) {
		return newISRRunner(h, boom), nil
	}, HeadlessConfig{Hz: 1000, Log: &bytes.Buffer{}})

	require.ErrorIs(t, err, boom)
}

func TestRunHeadlessBootError(t *testing.T) {
	boom := errors.New("boot")
	err := RunHeadless(context.Background(), func(HAL) (Runner, error) {
		return nil, boom
	}, HeadlessConfig{Log: &bytes.Buffer{}})
	require.ErrorIs(t, err, boom)
}
