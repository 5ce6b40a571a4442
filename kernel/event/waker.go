package event

import (
	"sync/atomic"

	"ember/kernel"
)

// AtomicWaker is a single waker slot shared between one consumer task and any
// number of producers. A registration replaces the previous one.
type AtomicWaker struct {
	w atomic.Pointer[kernel.Waker]
}

// Register stores w, replacing any earlier registration.
func (a *AtomicWaker) Register(w *kernel.Waker) {
	a.w.Store(w)
}

// Take clears the slot and returns what was registered.
func (a *AtomicWaker) Take() *kernel.Waker {
	return a.w.Swap(nil)
}

// Wake clears the slot and wakes whatever was registered. A waker fires at most
// once per registration.
func (a *AtomicWaker) Wake() {
	if w := a.Take(); w != nil {
		w.Wake()
	}
}
