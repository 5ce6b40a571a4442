//go:build !tinygo

package hal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

// Runner is a booted system that runs until ctx is done or it fails.
type Runner interface {
	Run(ctx context.Context) error
}

// BootFunc brings a system up on a freshly built HAL.
type BootFunc func(HAL) (Runner, error)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	// Hz is the timer interrupt rate.
	Hz int
	// Ticks stops the run after that many timer interrupts. 0 runs until ctx is done.
	Ticks uint64
	// Input, if set, is typed into the keyboard controller rune by rune.
	Input io.Reader
	// Log receives log lines. Nil means stdout.
	Log io.Writer
}

var errTickLimit = errors.New("tick limit reached")

// RunHeadless runs the OS without opening a window: the executor on one goroutine,
// the timer interrupt source on another.
func RunHeadless(ctx context.Context, boot BootFunc, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	w := cfg.Log
	if w == nil {
		w = os.Stdout
	}
	h := NewHost(w)
	sys, err := boot(h)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sys.Run(gctx)
	})
	g.Go(func() error {
		defer h.cpu.Stop()
		return runTimer(gctx, h.cpu, d, cfg.Ticks)
	})
	if cfg.Input != nil {
		// Not part of the group: a blocked read cannot be interrupted.
		go typeInput(gctx, cfg.Input, h.ps2)
	}

	err = g.Wait()
	if errors.Is(err, errTickLimit) {
		return nil
	}
	return err
}

func runTimer(ctx context.Context, cpu *SoftCPU, d time.Duration, limit uint64) error {
	t := time.NewTicker(d)
	defer t.Stop()

	var ticks uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			cpu.Raise(IRQTimer)
			ticks++
			if limit > 0 && ticks >= limit {
				return errTickLimit
			}
		}
	}
}

func typeInput(ctx context.Context, r io.Reader, ps2 *SoftPS2) {
	br := bufio.NewReader(r)
	for ctx.Err() == nil {
		c, _, err := br.ReadRune()
		if err != nil {
			return
		}
		ps2.TypeRune(c)
	}
}
