package trigger

import (
	"testing"
	"time"

	"github.com/oran-ric/near-rt-ric/ric"
)

func TestCustomDelegatesToClosure(t *testing.T) {
	report := ric.NewLocationReport(1, time.Unix(0, 0), 0, 0, 0)
	calledWith := ric.Report(nil)
	c := NewCustom(func(r ric.Report) bool {
		calledWith = r
		return true
	})

	if !c.ShouldQueryLms(report) {
		t.Fatal("expected Custom to return the closure's result")
	}
	if calledWith != report {
		t.Fatal("expected the closure to receive the report passed to ShouldQueryLms")
	}
}

func TestCustomWithNilFuncBehavesLikeNoop(t *testing.T) {
	c := NewCustom(nil)
	report := ric.NewLocationReport(1, time.Unix(0, 0), 0, 0, 0)
	if c.ShouldQueryLms(report) {
		t.Fatal("expected a nil callback to never fire")
	}
}

func TestNoopNeverFires(t *testing.T) {
	var n Noop
	report := ric.NewLocationReport(1, time.Unix(0, 0), 0, 0, 0)
	if n.ShouldQueryLms(report) {
		t.Fatal("expected Noop to never fire")
	}
}
