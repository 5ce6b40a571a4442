// Package ring implements a fixed-capacity lock-free queue safe for any number of
// producers and consumers.
//
// Push and Pop never block and never allocate, so both may be called from interrupt
// context. Each slot carries a sequence number: a producer owns slot i of lap n when
// seq == n*size+i, a consumer owns it when seq == n*size+i+1. At least two slots back
// the ring so those two states never coincide; the logical capacity is enforced
// separately from the slot count.
package ring

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

type slot[T any] struct {
	seq atomic.Uint64
	val T
}

// Ring is a bounded FIFO queue. The zero value is not usable; use New.
type Ring[T any] struct {
	_ [0]func() // prevent accidental copying.

	_    cpu.CacheLinePad
	head atomic.Uint64 // next position to pop
	_    cpu.CacheLinePad
	tail atomic.Uint64 // next position to push
	_    cpu.CacheLinePad

	cap   uint64
	size  uint64
	slots []slot[T]
}

// New returns a ring holding at most capacity items. It panics if capacity < 1.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		panic("ring: capacity must be positive")
	}
	size := max(capacity, 2)
	r := &Ring[T]{
		cap:   uint64(capacity),
		size:  uint64(size),
		slots: make([]slot[T], size),
	}
	for i := range r.slots {
		r.slots[i].seq.Store(uint64(i))
	}
	return r
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return int(r.cap) }

// Push appends v. It returns false without modifying the ring when the ring is full.
func (r *Ring[T]) Push(v T) bool {
	pos := r.tail.Load()
	for {
		s := &r.slots[pos%r.size]
		seq := s.seq.Load()
		switch diff := int64(seq - pos); {
		case diff == 0:
			if int64(pos-r.head.Load()) >= int64(r.cap) {
				return false
			}
			if r.tail.CompareAndSwap(pos, pos+1) {
				s.val = v
				s.seq.Store(pos + 1)
				return true
			}
			pos = r.tail.Load()
		case diff < 0:
			return false
		default:
			pos = r.tail.Load()
		}
	}
}

// Pop removes the oldest item. It returns false when no published item is available.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	pos := r.head.Load()
	for {
		s := &r.slots[pos%r.size]
		seq := s.seq.Load()
		switch diff := int64(seq - (pos + 1)); {
		case diff == 0:
			if r.head.CompareAndSwap(pos, pos+1) {
				v := s.val
				s.val = zero
				s.seq.Store(pos + r.size)
				return v, true
			}
			pos = r.head.Load()
		case diff < 0:
			return zero, false
		default:
			pos = r.head.Load()
		}
	}
}

// Len returns a snapshot of the number of queued items. Concurrent pushes and pops
// make the value advisory only.
func (r *Ring[T]) Len() int {
	for {
		tail := r.tail.Load()
		head := r.head.Load()
		if r.tail.Load() != tail {
			continue
		}
		if head >= tail {
			return 0
		}
		n := tail - head
		if n > r.cap {
			n = r.cap
		}
		return int(n)
	}
}

// Empty reports whether Len is zero.
func (r *Ring[T]) Empty() bool { return r.Len() == 0 }
