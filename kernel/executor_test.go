package kernel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ember/hal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T, cpu hal.CPU, opts ...Option) (*Executor, *[]PanicInfo) {
	t.Helper()
	var fatals []PanicInfo
	opts = append(opts, WithFatalHandler(func(info PanicInfo) {
		fatals = append(fatals, info)
	}))
	return NewExecutor(cpu, opts...), &fatals
}

// countingFuture suspends until it has been polled n times.
type countingFuture struct {
	n     int
	polls int
	waker *Waker
}

func (f *countingFuture) Poll(cx *Context) Status {
	f.polls++
	f.waker = cx.Waker()
	if f.polls >= f.n {
		return Completed
	}
	return Suspended
}

func TestExecutorWakeBeforeFirstPoll(t *testing.T) {
	e, fatals := newTestExecutor(t, hal.NewSoftCPU())

	f := &countingFuture{n: 1}
	task := NewTask(f)
	e.Spawn(task)
	e.newWaker(task.ID()).Wake()

	e.RunReady()

	require.Equal(t, 1, f.polls)
	require.Equal(t, uint64(1), e.Stats().Stale)
	require.Zero(t, e.Len())
	require.Empty(t, *fatals)
}

func TestExecutorSuspendedTaskWaitsForWake(t *testing.T) {
	e, _ := newTestExecutor(t, hal.NewSoftCPU())

	f := &countingFuture{n: 3}
	e.Spawn(NewTask(f))

	e.RunReady()
	require.Equal(t, 1, f.polls)

	e.RunReady()
	require.Equal(t, 1, f.polls, "suspended task polled without a wake")

	w := f.waker
	w.Wake()
	e.RunReady()
	require.Equal(t, 2, f.polls)
	require.Same(t, w, f.waker, "waker not reused across suspensions")

	f.waker.Wake()
	e.RunReady()
	require.Equal(t, 3, f.polls)
	require.Zero(t, e.Len())
}

func TestExecutorCompletionCleanup(t *testing.T) {
	e, fatals := newTestExecutor(t, hal.NewSoftCPU())

	f := &countingFuture{n: 1}
	task := NewTask(f)
	e.Spawn(task)
	e.RunReady()

	require.NotContains(t, e.tasks, task.ID())
	require.NotContains(t, e.wakers, task.ID())

	f.waker.Wake()
	f.waker.Wake()
	require.NotPanics(t, e.RunReady)

	require.Equal(t, 1, f.polls)
	require.Equal(t, uint64(2), e.Stats().Stale)
	require.Equal(t, uint64(1), e.Stats().Completed)
	require.NotContains(t, e.wakers, task.ID())
	require.Empty(t, *fatals)
}

func TestExecutorFIFOOrder(t *testing.T) {
	e, _ := newTestExecutor(t, hal.NewSoftCPU())

	var order []int
	for i := 0; i < 4; i++ {
		i := i
		e.Spawn(NewTask(FutureFunc(func(cx *Context) Status {
			order = append(order, i)
			return Completed
		})))
	}
	e.RunReady()

	require.Equal(t, []int{0, 1, 2, 3}, order)
}

func TestExecutorDuplicateSpawnIsFatal(t *testing.T) {
	e, fatals := newTestExecutor(t, hal.NewSoftCPU())

	task := NewTask(&countingFuture{n: 1})
	e.Spawn(task)
	e.Spawn(task)

	require.Len(t, *fatals, 1)
	require.Equal(t, task.ID(), (*fatals)[0].TaskID)

	err := e.Err()
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	require.ErrorIs(t, err, ErrDuplicateTask)
}

func TestExecutorReadyQueueOverflowIsFatal(t *testing.T) {
	e, fatals := newTestExecutor(t, hal.NewSoftCPU(), WithReadyCapacity(1))

	e.Spawn(NewTask(&countingFuture{n: 1}))
	e.Spawn(NewTask(&countingFuture{n: 1}))

	require.Len(t, *fatals, 1)
	require.ErrorIs(t, e.Err(), ErrReadyQueueFull)
}

func TestExecutorWakeOverflowIsFatal(t *testing.T) {
	e, fatals := newTestExecutor(t, hal.NewSoftCPU(), WithReadyCapacity(1))

	f := &countingFuture{n: 10}
	e.Spawn(NewTask(f))
	e.RunReady()

	f.waker.Wake()
	f.waker.Wake()

	require.Len(t, *fatals, 1)
	require.ErrorIs(t, e.Err(), ErrReadyQueueFull)
}

func TestExecutorTaskPanicIsFatal(t *testing.T) {
	e, fatals := newTestExecutor(t, hal.NewSoftCPU())

	boom := NewTask(FutureFunc(func(cx *Context) Status { panic("boom") }))
	after := &countingFuture{n: 1}
	e.Spawn(boom)
	e.Spawn(NewTask(after))

	err := e.Run(context.Background())

	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "boom", fe.Info.Value)
	require.Equal(t, boom.ID(), fe.Info.TaskID)
	require.NotEmpty(t, fe.Info.Stack)
	require.Len(t, *fatals, 1)
	require.Zero(t, after.polls, "executor kept running after a fatal condition")
}

func TestExecutorIdleHaltsWhenEmpty(t *testing.T) {
	cpu := hal.NewSoftCPU()
	cpu.Stop()
	e, _ := newTestExecutor(t, cpu)

	e.sleepIfIdle()

	require.Equal(t, uint64(1), cpu.Halts())
	require.Equal(t, uint64(1), e.Stats().Halts)
	require.False(t, cpu.Masked())
}

func TestExecutorIdleSkipsHaltWhenReady(t *testing.T) {
	cpu := hal.NewSoftCPU()
	e, _ := newTestExecutor(t, cpu)

	f := &countingFuture{n: 2}
	e.Spawn(NewTask(f))
	e.RunReady()

	e.hooks = &idleHooks{masked: f.waker.Wake}
	e.sleepIfIdle()

	require.Zero(t, cpu.Halts())
	require.False(t, cpu.Masked())

	e.RunReady()
	require.Equal(t, 2, f.polls)
}

func TestExecutorInterruptDuringMaskedCheckEndsHalt(t *testing.T) {
	const irq hal.IRQ = 3
	cpu := hal.NewSoftCPU()
	e, _ := newTestExecutor(t, cpu)

	f := &countingFuture{n: 2}
	e.Spawn(NewTask(f))
	e.RunReady()
	require.Equal(t, 1, f.polls)

	cpu.SetHandler(irq, func() {
		f.waker.Wake()
		cpu.EndOfInterrupt(irq)
	})
	e.hooks = &idleHooks{masked: func() {
		assert.True(t, cpu.Masked())
		cpu.Raise(irq)
		assert.Zero(t, cpu.Delivered(), "interrupt delivered while masked")
	}}

	done := make(chan struct{})
	go func() {
		defer close(done)
		e.sleepIfIdle()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		cpu.Stop()
		t.Fatal("halt missed an interrupt raised during the masked check")
	}

	require.Equal(t, uint64(1), cpu.Halts())
	require.Equal(t, uint64(1), cpu.Delivered())

	e.RunReady()
	require.Equal(t, 2, f.polls)
	require.Zero(t, e.Len())
}

func TestExecutorRunWakesFromAsyncInterrupt(t *testing.T) {
	const irq hal.IRQ = 1
	cpu := hal.NewSoftCPU()
	e, _ := newTestExecutor(t, cpu)

	var (
		waker atomic.Pointer[Waker]
		polls atomic.Int32
	)
	e.Spawn(NewTask(FutureFunc(func(cx *Context) Status {
		if polls.Add(1) >= 2 {
			return Completed
		}
		waker.Store(cx.Waker())
		return Suspended
	})))
	cpu.SetHandler(irq, func() {
		waker.Load().Wake()
		cpu.EndOfInterrupt(irq)
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- e.Run(ctx) }()

	require.Eventually(t, func() bool { return cpu.Halts() >= 1 }, 2*time.Second, time.Millisecond)
	require.Equal(t, int32(1), polls.Load())

	cpu.Raise(irq)
	require.Eventually(t, func() bool { return polls.Load() == 2 }, 2*time.Second, time.Millisecond)

	cancel()
	cpu.Stop()
	select {
	case err := <-errCh:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after stop")
	}
}
