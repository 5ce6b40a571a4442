package keyboard

import (
	"io"

	"ember/kernel"
	"ember/kernel/event"
)

// Task consumes scan codes from an event stream and writes each decoded key press
// to out. It never completes.
type Task struct {
	stream *event.Stream
	kbd    *Keyboard
	out    io.Writer
}

// NewTask returns the keyboard consumer task.
func NewTask(stream *event.Stream, kbd *Keyboard, out io.Writer) *Task {
	return &Task{stream: stream, kbd: kbd, out: out}
}

// Poll implements kernel.Future.
func (t *Task) Poll(cx *kernel.Context) kernel.Status {
	return t.stream.ForEach(cx, func(b byte) bool {
		if key, ok := t.kbd.Feed(b); ok {
			_, _ = io.WriteString(t.out, key.String())
		}
		return true
	})
}
