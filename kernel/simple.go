package kernel

// SimpleExecutor polls every task in turn with a no-op waker until all of them
// complete. It needs neither interrupts nor a ready queue, which makes it usable
// before the interrupt controller is up. A task that waits for an interrupt keeps
// it spinning.
type SimpleExecutor struct {
	queue []*Task
}

// NewSimpleExecutor returns an empty executor.
func NewSimpleExecutor() *SimpleExecutor {
	return &SimpleExecutor{}
}

// Spawn appends t to the run queue.
func (e *SimpleExecutor) Spawn(t *Task) {
	if t == nil {
		return
	}
	e.queue = append(e.queue, t)
}

// Run polls tasks round-robin until none remain.
func (e *SimpleExecutor) Run() {
	cx := NewContext(NoopWaker())
	for len(e.queue) > 0 {
		t := e.queue[0]
		e.queue[0] = nil
		e.queue = e.queue[1:]
		if t.Poll(cx) == Suspended {
			e.queue = append(e.queue, t)
		}
	}
}
