package kernel

import (
	"context"
	"sync/atomic"

	"ember/hal"
	"ember/internal/ring"

	"github.com/rs/zerolog"
)

// DefaultReadyCapacity is the ready queue size used when none is configured.
const DefaultReadyCapacity = 100

// Stats counts executor activity. Read it only from the scheduling goroutine or
// after Run has returned.
type Stats struct {
	Polls     uint64
	Completed uint64
	Stale     uint64
	Halts     uint64
}

// Option configures an Executor.
type Option func(*Executor)

// WithReadyCapacity sets the ready queue size.
func WithReadyCapacity(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.readyCap = n
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Executor) { e.log = l }
}

// WithFatalHandler replaces the default fatal path (Fatal) for this executor.
func WithFatalHandler(fn func(PanicInfo)) Option {
	return func(e *Executor) {
		if fn != nil {
			e.onFatal = fn
		}
	}
}

type idleHooks struct {
	// masked runs after interrupts are disabled and before the ready queue is
	// re-checked.
	masked func()
}

// Executor is a single-threaded cooperative scheduler.
//
// The task table and waker cache belong to the goroutine that calls Spawn, RunReady
// and Run. The ready queue is the only state shared with interrupt handlers; it is
// filled by Wakers and drained by the executor.
type Executor struct {
	cpu hal.CPU
	log zerolog.Logger

	readyCap int
	ready    *ring.Ring[TaskID]
	tasks    map[TaskID]*Task
	wakers   map[TaskID]*Waker

	onFatal func(PanicInfo)
	failure atomic.Pointer[PanicInfo]

	hooks *idleHooks
	stats Stats
}

// NewExecutor returns an executor that idles on cpu.
func NewExecutor(cpu hal.CPU, opts ...Option) *Executor {
	e := &Executor{
		cpu:      cpu,
		log:      zerolog.Nop(),
		readyCap: DefaultReadyCapacity,
		tasks:    make(map[TaskID]*Task),
		wakers:   make(map[TaskID]*Waker),
		onFatal:  Fatal,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ready = ring.New[TaskID](e.readyCap)
	return e
}

// Spawn adds t to the task table and marks it ready. Spawning an ID that is
// already live is fatal.
func (e *Executor) Spawn(t *Task) {
	if t == nil {
		return
	}
	id := t.ID()
	if _, ok := e.tasks[id]; ok {
		e.fail(PanicInfo{TaskID: id, Value: ErrDuplicateTask})
		return
	}
	e.tasks[id] = t
	if !e.ready.Push(id) {
		e.fail(PanicInfo{TaskID: id, Value: ErrReadyQueueFull})
		return
	}
	e.log.Debug().Uint64("task", uint64(id)).Msg("spawned")
}

// Len returns the number of live tasks.
func (e *Executor) Len() int { return len(e.tasks) }

// Stats returns a copy of the activity counters.
func (e *Executor) Stats() Stats { return e.stats }

// Err returns the fatal condition that stopped the executor, if any.
func (e *Executor) Err() error {
	if info := e.failure.Load(); info != nil {
		return &FatalError{Info: *info}
	}
	return nil
}

// RunReady polls ready tasks until the ready queue is empty. IDs without a live
// task are skipped.
func (e *Executor) RunReady() {
	for e.failure.Load() == nil {
		id, ok := e.ready.Pop()
		if !ok {
			return
		}
		t, ok := e.tasks[id]
		if !ok {
			e.stats.Stale++
			continue
		}

		w, ok := e.wakers[id]
		if !ok {
			w = e.newWaker(id)
			e.wakers[id] = w
		}

		st, ok := e.poll(t, w)
		if !ok {
			return
		}
		if st == Completed {
			delete(e.tasks, id)
			delete(e.wakers, id)
			e.stats.Completed++
			e.log.Debug().Uint64("task", uint64(id)).Msg("completed")
		}
	}
}

// Run alternates between draining ready tasks and halting the CPU until an
// interrupt arrives. On hardware it only returns on a fatal condition; on the host
// it also returns once ctx is done.
func (e *Executor) Run(ctx context.Context) error {
	for {
		e.RunReady()
		if err := e.Err(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		e.sleepIfIdle()
	}
}

// sleepIfIdle halts the CPU when nothing is ready. Interrupts are masked across the
// emptiness check so that a wake landing after the check is either seen by it or
// left pending, and the pending interrupt ends the halt.
func (e *Executor) sleepIfIdle() {
	e.cpu.DisableInterrupts()
	if e.hooks != nil && e.hooks.masked != nil {
		e.hooks.masked()
	}
	if e.ready.Empty() {
		e.stats.Halts++
		e.cpu.EnableInterruptsAndHalt()
		return
	}
	e.cpu.EnableInterrupts()
}

func (e *Executor) newWaker(id TaskID) *Waker {
	ready, fail := e.ready, e.fail
	return NewWaker(id, func() {
		if !ready.Push(id) {
			fail(PanicInfo{TaskID: id, Value: ErrReadyQueueFull})
		}
	})
}

func (e *Executor) poll(t *Task, w *Waker) (st Status, ok bool) {
	defer func() {
		if v := recover(); v != nil {
			e.fail(PanicInfo{TaskID: t.ID(), Value: v, Stack: captureStack()})
			ok = false
		}
	}()
	e.stats.Polls++
	return t.Poll(NewContext(w)), true
}

func (e *Executor) fail(info PanicInfo) {
	if !e.failure.CompareAndSwap(nil, &info) {
		return
	}
	e.log.Error().Uint64("task", uint64(info.TaskID)).Interface("value", info.Value).Msg("fatal")
	e.onFatal(info)
}
