package kernel

import "sync/atomic"

// TaskID identifies a task. IDs are never reused within a process.
type TaskID uint64

var nextID atomic.Uint64

// NextTaskID returns an ID that has not been returned before. It is safe to call from
// any context, including interrupt handlers.
func NextTaskID() TaskID {
	return TaskID(nextID.Add(1) - 1)
}

// Status is the outcome of advancing a task.
type Status uint8

const (
	// Suspended means the computation yielded and arranged to be woken later.
	Suspended Status = iota
	// Completed means the computation finished and must not be polled again.
	Completed
)

func (s Status) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Future is a resumable computation that produces no result.
//
// Poll advances the computation as far as it can without blocking. Before returning
// Suspended it must have handed cx.Waker() to whatever will make progress possible
// again; otherwise the task is never polled again.
type Future interface {
	Poll(cx *Context) Status
}

// FutureFunc adapts a function to Future.
type FutureFunc func(cx *Context) Status

// Poll implements Future.
func (f FutureFunc) Poll(cx *Context) Status { return f(cx) }

// Task owns a computation and its ID.
//
// Tasks are always handled through a pointer so that the computation, and any
// state it keeps pointers into, stays at one address for its whole life.
type Task struct {
	id  TaskID
	fut Future
}

// NewTask wraps fut with a fresh ID.
func NewTask(fut Future) *Task {
	return &Task{id: NextTaskID(), fut: fut}
}

// ID returns the task's identifier.
func (t *Task) ID() TaskID { return t.id }

// Poll advances the computation once.
func (t *Task) Poll(cx *Context) Status {
	return t.fut.Poll(cx)
}
