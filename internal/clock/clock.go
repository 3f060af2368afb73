// Package clock provides the scheduling primitive RicCore and its owned
// components use to express deferred, cancellable work (spec §5 and §9:
// "Coroutine / deferred-callback control flow ⇒ an explicit task+channel
// model in a multi-threaded target ... Cancellation is expressed as a
// cancel token associated with each scheduled handle").
//
// The source's single-threaded discrete-event simulator schedule(delay, fn)
// calls are retargeted here to real wall-clock timers, since this is a
// multi-threaded Go implementation (spec §5's explicitly sanctioned
// retarget). Every scheduled handle is individually cancellable.
package clock

import (
	"sync"
	"time"
)

// Clock is the minimal time source RicCore depends on, so that tests can
// substitute a fake implementation without waiting on real wall time.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Handle
}

// Handle is a cancel token for one scheduled callback.
type Handle interface {
	// Cancel prevents the callback from firing if it has not already
	// started. Safe to call multiple times and after the callback has
	// already fired.
	Cancel()
	// Pending reports whether the callback has neither fired nor been
	// cancelled yet.
	Pending() bool
}

// Real is a Clock backed by time.AfterFunc.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Handle {
	h := &realHandle{}
	h.timer = time.AfterFunc(d, func() {
		h.mu.Lock()
		if h.cancelled {
			h.mu.Unlock()
			return
		}
		h.fired = true
		h.mu.Unlock()
		f()
	})
	return h
}

type realHandle struct {
	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
	fired     bool
}

func (h *realHandle) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fired || h.cancelled {
		return
	}
	h.cancelled = true
	h.timer.Stop()
}

func (h *realHandle) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.fired && !h.cancelled
}
