// Package ticker consumes timer ticks published by the timer interrupt.
package ticker

import (
	"io"

	"ember/kernel"
	"ember/kernel/event"
)

// Mark is written once per tick when marks are enabled.
const Mark = "."

// Task counts ticks and optionally writes a Mark for each one. It never completes.
type Task struct {
	stream *event.Stream
	out    io.Writer
	ticks  uint64
}

// NewTask returns the tick consumer. A nil out counts ticks silently.
func NewTask(stream *event.Stream, out io.Writer) *Task {
	return &Task{stream: stream, out: out}
}

// Ticks returns the number of ticks consumed so far.
func (t *Task) Ticks() uint64 { return t.ticks }

// Poll implements kernel.Future.
func (t *Task) Poll(cx *kernel.Context) kernel.Status {
	return t.stream.ForEach(cx, func(byte) bool {
		t.ticks++
		if t.out != nil {
			_, _ = io.WriteString(t.out, Mark)
		}
		return true
	})
}
