package kernel

// Waker reschedules one task. The executor hands out one Waker per live task and
// reuses it across every suspension of that task.
//
// Wake may be called from interrupt context, any number of times; extra wakes only
// cause extra polls.
type Waker struct {
	id   TaskID
	wake func()
}

// NewWaker returns a waker for task id that runs fn on every wake.
func NewWaker(id TaskID, fn func()) *Waker {
	return &Waker{id: id, wake: fn}
}

var noopWaker = &Waker{}

// NoopWaker returns a waker that does nothing.
func NoopWaker() *Waker { return noopWaker }

// TaskID returns the ID of the task this waker reschedules.
func (w *Waker) TaskID() TaskID {
	if w == nil {
		return 0
	}
	return w.id
}

// Wake reschedules the task.
func (w *Waker) Wake() {
	if w == nil || w.wake == nil {
		return
	}
	w.wake()
}

// Context is passed to Future.Poll.
type Context struct {
	waker *Waker
}

// NewContext returns a poll context carrying w.
func NewContext(w *Waker) *Context {
	return &Context{waker: w}
}

// Waker returns the waker of the task being polled.
func (c *Context) Waker() *Waker {
	if c == nil || c.waker == nil {
		return noopWaker
	}
	return c.waker
}

// TaskID returns the ID of the task being polled.
func (c *Context) TaskID() TaskID { return c.Waker().TaskID() }
