package event

import "ember/kernel"

// Stream is the consuming side of a Queue. It is used only from task context.
type Stream struct {
	q *Queue

	// registered runs between registering the waker and the second pop.
	registered func()
}

// PollNext returns the next byte, or ok == false after arranging for cx's waker to
// be woken by the next Publish.
//
// The queue is checked again after registering: a byte published between the first
// check and the registration found no waker to wake, so it must be picked up here.
func (s *Stream) PollNext(cx *kernel.Context) (b byte, ok bool) {
	if b, ok := s.q.buf.Pop(); ok {
		return b, true
	}

	s.q.waker.Register(cx.Waker())
	if s.registered != nil {
		s.registered()
	}

	if b, ok := s.q.buf.Pop(); ok {
		s.q.waker.Take()
		return b, true
	}
	return 0, false
}

// ForEach adapts the stream to a Future-style poll: it calls fn for every available
// byte and returns Suspended once the queue is drained. fn returning false stops
// early and yields Completed.
func (s *Stream) ForEach(cx *kernel.Context, fn func(b byte) bool) kernel.Status {
	for {
		b, ok := s.PollNext(cx)
		if !ok {
			return kernel.Suspended
		}
		if !fn(b) {
			return kernel.Completed
		}
	}
}

// TryNext pops the next byte without registering for a wake.
func (s *Stream) TryNext() (byte, bool) {
	return s.q.buf.Pop()
}
