package lm

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/oran-ric/near-rt-ric/cmm"
	"github.com/oran-ric/near-rt-ric/internal/clock"
	"github.com/oran-ric/near-rt-ric/ric"
	"github.com/oran-ric/near-rt-ric/store/memstore"
)

// wireTestLm builds a BaseLM bound to a real Core so finishRun's
// NotifyLmFinished callback has somewhere to land, mirroring how a real
// deployment wires lm.BaseLM.SetCore after ric.NewCore. The Core accepts a
// delivery only for its current cycle, which is 0 until its first query, so
// a run whose delivery must land uses cycle 0.
func wireTestLm(compute Compute, processingDelay ric.RandomVariable) (*BaseLM, *memstore.Store, *clock.Manual, *ric.Core) {
	data := memstore.New()
	clk := clock.NewManual(time.Unix(0, 0))
	l := NewBaseLM("CdefaultLm", nil, data, clk, processingDelay, nil, compute, true, nil)
	e2term := ric.NewE2Terminator(data, clk, ric.Constant(0), nil, nil)
	core := ric.NewCore(ric.DefaultConfig(), data, l, cmm.NewNoOp(data), e2term, clk, nil, nil)
	l.SetCore(core)
	return l, data, clk, core
}

func hasAuditTextContaining(entries []ric.AuditEntry, substr string) bool {
	for _, e := range entries {
		if strings.Contains(e.Text, substr) {
			return true
		}
	}
	return false
}

func TestBaseLMRunIsNoOpUntilActivated(t *testing.T) {
	called := false
	compute := func(ctx context.Context, cycle ric.CycleID) []ric.Command {
		called = true
		return nil
	}
	l, _, _, _ := wireTestLm(compute, ric.Constant(0))

	l.Run(1)
	if called {
		t.Fatal("Run should be a no-op before Activate")
	}
}

func TestBaseLMRunDeliversAfterProcessingDelay(t *testing.T) {
	compute := func(ctx context.Context, cycle ric.CycleID) []ric.Command {
		return []ric.Command{ric.NewBaseCommand(1)}
	}
	l, data, clk, core := wireTestLm(compute, ric.Constant(100*time.Millisecond))
	core.Activate(context.Background())

	l.Run(0)
	if !l.IsRunning() {
		t.Fatal("expected IsRunning true immediately after Run, before the delay elapses")
	}

	clk.Advance(100 * time.Millisecond)
	if l.IsRunning() {
		t.Fatal("expected IsRunning false once the delay has elapsed and finishRun has fired")
	}

	entries := data.AuditEntries(context.Background())
	if !hasAuditTextContaining(entries, "BaseCommand") {
		t.Fatalf("expected the delivered command to be logged, got %+v", entries)
	}
}

func TestBaseLMCancelRunLogsLostCommands(t *testing.T) {
	compute := func(ctx context.Context, cycle ric.CycleID) []ric.Command {
		return []ric.Command{ric.NewBaseCommand(1), ric.NewBaseCommand(2)}
	}
	l, data, _, core := wireTestLm(compute, ric.Constant(time.Second))
	core.Activate(context.Background())

	l.Run(1)
	if !l.IsRunning() {
		t.Fatal("expected a run to be pending")
	}
	l.CancelRun()
	if l.IsRunning() {
		t.Fatal("expected CancelRun to clear the pending run")
	}

	entries := data.AuditEntries(context.Background())
	if !hasAuditTextContaining(entries, "2 command(s) lost") {
		t.Fatalf("expected a lost-commands audit entry, got %+v", entries)
	}
}

func TestBaseLMRunReplacesAnInFlightRun(t *testing.T) {
	runs := 0
	compute := func(ctx context.Context, cycle ric.CycleID) []ric.Command {
		runs++
		return []ric.Command{ric.NewBaseCommand(ric.E2NodeID(cycle))}
	}
	l, data, clk, core := wireTestLm(compute, ric.Constant(100*time.Millisecond))
	core.Activate(context.Background())

	l.Run(1)
	l.Run(0) // supersedes cycle 1's pending delivery before it fires

	entries := data.AuditEntries(context.Background())
	if !hasAuditTextContaining(entries, "run cancelled for cycle 1") {
		t.Fatalf("expected cycle 1's run to have been cancelled, got %+v", entries)
	}

	clk.Advance(100 * time.Millisecond)
	if runs != 2 {
		t.Fatalf("expected compute to have run twice, ran %d times", runs)
	}
}

func TestBaseLMDeactivateCancelsPendingRun(t *testing.T) {
	compute := func(ctx context.Context, cycle ric.CycleID) []ric.Command {
		return []ric.Command{ric.NewBaseCommand(1)}
	}
	l, _, _, core := wireTestLm(compute, ric.Constant(time.Second))
	core.Activate(context.Background())

	l.Run(1)
	l.Deactivate()
	if l.IsRunning() {
		t.Fatal("expected Deactivate to cancel the pending run")
	}
}
