// Package event carries bytes produced by interrupt handlers to a task.
//
// Publish is the only entry point for interrupt context: it never blocks and never
// allocates. The consuming task reads through a Stream, which registers its waker
// before it suspends so that no published byte is left waiting.
package event

import (
	"errors"
	"sync/atomic"
	"time"

	"ember/internal/ring"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultCapacity is the queue size used when none is configured.
const DefaultCapacity = 100

var (
	// ErrQueueFull is returned by Publish when the byte was dropped.
	ErrQueueFull = errors.New("event: queue full")
	// ErrStreamTaken is returned when a queue already has a consumer.
	ErrStreamTaken = errors.New("event: stream already taken")
)

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithName labels the queue in diagnostics.
func WithName(name string) QueueOption {
	return func(q *Queue) { q.name = name }
}

// WithLogger sets the logger for overflow diagnostics.
func WithLogger(l zerolog.Logger) QueueOption {
	return func(q *Queue) { q.log = l }
}

// WithOverflowRate limits overflow diagnostics to perSec per second. Drops beyond
// the limit are counted and reported with the next diagnostic. perSec <= 0 logs
// every drop.
func WithOverflowRate(perSec int) QueueOption {
	return func(q *Queue) {
		if perSec <= 0 {
			q.limiter = nil
			return
		}
		q.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
	}
}

// Queue is a bounded byte queue fed from interrupt context, plus the wake slot of
// its consumer.
type Queue struct {
	name  string
	buf   *ring.Ring[byte]
	waker AtomicWaker
	taken atomic.Bool

	log        zerolog.Logger
	limiter    *rate.Limiter
	dropped    atomic.Uint64
	suppressed atomic.Uint64
}

// NewQueue returns a queue holding at most capacity bytes.
func NewQueue(capacity int, opts ...QueueOption) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	q := &Queue{
		name:    "event",
		buf:     ring.New[byte](capacity),
		log:     zerolog.Nop(),
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Publish enqueues b and wakes the consumer. When the queue is full b is dropped,
// a diagnostic is logged and ErrQueueFull is returned; nothing else changes.
func (q *Queue) Publish(b byte) error {
	if !q.buf.Push(b) {
		q.dropped.Add(1)
		q.reportDrop(b)
		return ErrQueueFull
	}
	q.waker.Wake()
	return nil
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int { return q.buf.Cap() }

// Len returns an advisory count of queued bytes.
func (q *Queue) Len() int { return q.buf.Len() }

// Dropped returns how many bytes have been dropped on overflow.
func (q *Queue) Dropped() uint64 { return q.dropped.Load() }

// Stream returns the queue's consumer. A queue has at most one.
func (q *Queue) Stream() (*Stream, error) {
	if !q.taken.CompareAndSwap(false, true) {
		return nil, ErrStreamTaken
	}
	return &Stream{q: q}, nil
}

func (q *Queue) reportDrop(b byte) {
	if q.limiter != nil && !q.limiter.Allow() {
		q.suppressed.Add(1)
		return
	}
	q.log.Warn().
		Str("queue", q.name).
		Uint8("byte", b).
		Uint64("suppressed", q.suppressed.Swap(0)).
		Msg("queue full; dropping byte")
}
