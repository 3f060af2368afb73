package clock

import (
	"container/heap"
	"sync"
	"time"
)

// Manual is a Clock whose notion of "now" only moves when Advance is
// called. Tests use it in place of Real so that cycle timing, deadlines,
// and inactivity sweeps can be driven deterministically instead of racing
// real wall-clock timers.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	timed timerHeap
	seq   uint64
}

// NewManual constructs a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Handle {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{at: m.now.Add(d), fn: f, seq: m.seq}
	heap.Push(&m.timed, t)
	return t
}

// Advance moves now forward by d, firing (in deadline order, synchronously
// on the calling goroutine) every timer whose deadline falls at or before
// the new now. A callback that itself schedules further work via AfterFunc
// may have that work fire within the same Advance call if its deadline is
// still within the advanced window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	deadline := m.now
	m.mu.Unlock()

	for {
		m.mu.Lock()
		if len(m.timed) == 0 {
			m.mu.Unlock()
			return
		}
		next := m.timed[0]
		if next.cancelled {
			heap.Pop(&m.timed)
			m.mu.Unlock()
			continue
		}
		if next.at.After(deadline) {
			m.mu.Unlock()
			return
		}
		heap.Pop(&m.timed)
		next.fired = true
		m.mu.Unlock()
		next.fn()
	}
}

type manualTimer struct {
	at        time.Time
	seq       uint64
	fn        func()
	cancelled bool
	fired     bool
	index     int
}

func (t *manualTimer) Cancel() {
	t.cancelled = true
}

func (t *manualTimer) Pending() bool {
	return !t.fired && !t.cancelled
}

type timerHeap []*manualTimer

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h timerHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *timerHeap) Push(x any)         { t := x.(*manualTimer); t.index = len(*h); *h = append(*h, t) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
