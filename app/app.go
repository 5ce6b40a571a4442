// Package app boots the kernel: it wires interrupt handlers to event queues, spawns
// the tasks that consume them and hands control to the executor.
package app

import (
	"context"
	"fmt"
	"io"

	"ember/driver/console"
	"ember/driver/keyboard"
	"ember/driver/ticker"
	"ember/hal"
	"ember/internal/buildinfo"
	"ember/internal/config"
	"ember/internal/klog"
	"ember/interrupts"
	"ember/kernel"
	"ember/kernel/event"

	"github.com/rs/zerolog"
)

// System is a booted kernel.
type System struct {
	h    hal.HAL
	log  zerolog.Logger
	exec *kernel.Executor
	cons *console.Console
	irqs *interrupts.Table

	scancodes *event.Queue
	ticks     *event.Queue
	ticker    *ticker.Task
}

// Boot brings the kernel up on h. opts are applied to the executor after the
// configured ones.
func Boot(h hal.HAL, cfg config.Config, opts ...kernel.Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout, err := keyboard.LayoutByName(cfg.Keyboard.Layout)
	if err != nil {
		return nil, err
	}

	log := klog.New(klog.NewLineWriter(h.Logger()), klog.Options{
		Level:     cfg.Log.Level,
		Console:   cfg.Log.Console,
		Timestamp: hostClock,
	})
	installPanicHandler(h, log)

	s := &System{h: h, log: log}
	s.cons = console.New(h.Display(), h.Logger())

	// Nothing here waits on an interrupt, so it runs to completion on the
	// polling executor before any handler is installed.
	early := kernel.NewSimpleExecutor()
	early.Spawn(kernel.NewTask(kernel.FutureFunc(func(*kernel.Context) kernel.Status {
		s.cons.Clear()
		fmt.Fprintf(s.cons, "Hello ember %s!\n", buildinfo.Short())
		return kernel.Completed
	})))
	early.Run()

	// Handlers go in first: until the queues are attached the keyboard line is
	// drained and acknowledged, so a key pressed during boot cannot wedge it.
	s.irqs = interrupts.New(h.Interrupts(), h.KeyboardPort(), log)
	s.irqs.Install()

	s.scancodes = event.NewQueue(cfg.Keyboard.QueueCapacity,
		event.WithName("scancode"),
		event.WithLogger(log),
		event.WithOverflowRate(cfg.Log.OverflowPerSec),
	)
	s.ticks = event.NewQueue(cfg.Timer.QueueCapacity,
		event.WithName("tick"),
		event.WithLogger(log),
		event.WithOverflowRate(cfg.Log.OverflowPerSec),
	)
	keys, err := s.scancodes.Stream()
	if err != nil {
		return nil, err
	}
	ticks, err := s.ticks.Stream()
	if err != nil {
		return nil, err
	}

	execOpts := []kernel.Option{
		kernel.WithReadyCapacity(cfg.Scheduler.ReadyCapacity),
		kernel.WithLogger(log),
	}
	s.exec = kernel.NewExecutor(h.CPU(), append(execOpts, opts...)...)

	var marks io.Writer
	if cfg.Timer.TickMarks {
		marks = s.cons
	}
	s.ticker = ticker.NewTask(ticks, marks)
	s.exec.Spawn(kernel.NewTask(keyboard.NewTask(keys, keyboard.New(layout), s.cons)))
	s.exec.Spawn(kernel.NewTask(s.ticker))

	s.irqs.SetScancodeQueue(s.scancodes)
	s.irqs.SetTickQueue(s.ticks)

	log.Info().
		Str("version", buildinfo.Short()).
		Str("layout", layout.Name()).
		Int("ready_capacity", cfg.Scheduler.ReadyCapacity).
		Int("queue_capacity", cfg.Keyboard.QueueCapacity).
		Int("tick_queue_capacity", cfg.Timer.QueueCapacity).
		Msg("kernel booted")
	return s, nil
}

// Run hands the CPU to the executor. It returns on a fatal condition or, on the
// host, when ctx is done.
func (s *System) Run(ctx context.Context) error {
	err := s.exec.Run(ctx)
	s.cons.Flush()
	st := s.exec.Stats()
	s.log.Info().
		Uint64("polls", st.Polls).
		Uint64("completed", st.Completed).
		Uint64("stale", st.Stale).
		Uint64("halts", st.Halts).
		Uint64("ticks", s.ticker.Ticks()).
		Uint64("dropped", s.scancodes.Dropped()).
		Msg("executor stopped")
	return err
}

// Step polls every ready task once without halting.
func (s *System) Step() error {
	s.exec.RunReady()
	return s.exec.Err()
}

func (s *System) Executor() *kernel.Executor { return s.exec }
func (s *System) Console() *console.Console  { return s.cons }
func (s *System) Scancodes() *event.Queue    { return s.scancodes }

// Ticks returns how many timer ticks the tick task has consumed.
func (s *System) Ticks() uint64 { return s.ticker.Ticks() }
