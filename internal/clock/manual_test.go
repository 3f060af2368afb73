package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oran-ric/near-rt-ric/internal/clock"
)

func TestManualAdvanceFiresInDeadlineOrder(t *testing.T) {
	m := clock.NewManual(time.Unix(0, 0))
	var order []string

	m.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	m.AfterFunc(1*time.Second, func() { order = append(order, "a") })

	m.Advance(2 * time.Second)
	require.Equal(t, []string{"a", "b"}, order)
}

// Same-deadline timers must fire in FIFO order of scheduling (spec.md:188),
// not in whatever order container/heap's sift happens to pop them.
func TestManualAdvanceSameDeadlineFiresInScheduleOrder(t *testing.T) {
	m := clock.NewManual(time.Unix(0, 0))
	var order []string

	m.AfterFunc(time.Second, func() { order = append(order, "A") })
	m.AfterFunc(time.Second, func() { order = append(order, "B") })
	m.AfterFunc(time.Second, func() { order = append(order, "C") })

	m.Advance(time.Second)
	require.Equal(t, []string{"A", "B", "C"}, order)
}

func TestManualAfterFuncCancel(t *testing.T) {
	m := clock.NewManual(time.Unix(0, 0))
	fired := false
	h := m.AfterFunc(time.Second, func() { fired = true })
	require.True(t, h.Pending())

	h.Cancel()
	require.False(t, h.Pending())

	m.Advance(time.Second)
	require.False(t, fired)
}

func TestManualNowReflectsAdvance(t *testing.T) {
	start := time.Unix(100, 0)
	m := clock.NewManual(start)
	require.Equal(t, start, m.Now())

	m.Advance(5 * time.Second)
	require.Equal(t, start.Add(5*time.Second), m.Now())
}

// A callback scheduled from within another callback's firing, at a deadline
// still inside the current Advance window, fires within the same Advance
// call (documented behavior of Advance).
func TestManualAdvanceRunsNestedScheduling(t *testing.T) {
	m := clock.NewManual(time.Unix(0, 0))
	var order []string

	m.AfterFunc(time.Second, func() {
		order = append(order, "first")
		m.AfterFunc(0, func() { order = append(order, "nested") })
	})

	m.Advance(3 * time.Second)
	require.Equal(t, []string{"first", "nested"}, order)
}
