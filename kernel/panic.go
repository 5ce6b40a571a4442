package kernel

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrDuplicateTask is reported when a task ID is spawned twice.
	ErrDuplicateTask = errors.New("kernel: task already spawned")
	// ErrReadyQueueFull is reported when a wake finds no room in the ready queue.
	ErrReadyQueueFull = errors.New("kernel: ready queue full")
)

// PanicInfo describes a fatal kernel condition.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

// FatalError is returned by Executor.Run after a fatal condition.
type FatalError struct {
	Info PanicInfo
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("kernel: fatal in task %d: %v", e.Info.TaskID, e.Info.Value)
}

// Unwrap exposes the fatal value when it is an error.
func (e *FatalError) Unwrap() error {
	err, _ := e.Info.Value.(error)
	return err
}

var (
	panicActive atomic.Bool
	panicOnce   sync.Once

	panicHandler atomic.Value // func(PanicInfo)
)

// InPanicMode reports whether the kernel is in panic mode.
func InPanicMode() bool {
	return panicActive.Load()
}

// SetPanicHandler installs a process-wide panic handler.
//
// The handler is invoked at most once (on the first panic). It must not panic.
func SetPanicHandler(fn func(PanicInfo)) {
	panicHandler.Store(fn)
}

// Fatal enters panic mode and runs the panic handler. Only the first call has any
// effect.
func Fatal(info PanicInfo) {
	panicOnce.Do(func() {
		panicActive.Store(true)
		if info.Stack == nil {
			info.Stack = captureStack()
		}
		if v := panicHandler.Load(); v != nil {
			if fn, ok := v.(func(PanicInfo)); ok && fn != nil {
				fn(info)
			}
		}
	})
}
