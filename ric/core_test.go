package ric_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/oran-ric/near-rt-ric/cmm"
	"github.com/oran-ric/near-rt-ric/internal/clock"
	"github.com/oran-ric/near-rt-ric/lm"
	"github.com/oran-ric/near-rt-ric/ric"
	"github.com/oran-ric/near-rt-ric/store/memstore"
)

func hasAuditTextContaining(entries []ric.AuditEntry, substr string) bool {
	for _, e := range entries {
		if strings.Contains(e.Text, substr) {
			return true
		}
	}
	return false
}

func hasAuditComponent(entries []ric.AuditEntry, component string) bool {
	for _, e := range entries {
		if e.Component == component {
			return true
		}
	}
	return false
}

func newTestCore(t *testing.T, cfg ric.Config) (*ric.Core, *memstore.Store, *clock.Manual) {
	t.Helper()
	data := memstore.New()
	clk := clock.NewManual(time.Unix(0, 0))
	e2term := ric.NewE2Terminator(data, clk, ric.Constant(0), nil, nil)
	defaultLm := lm.NewNoOp("CdefaultLm", nil, data, clk, nil)
	core := ric.NewCore(cfg, data, defaultLm, cmm.NewNoOp(data), e2term, clk, nil, nil)
	defaultLm.SetCore(core)
	return core, data, clk
}

// TestCoreDispatchesOnTimeCommand exercises a full cycle where the default
// LM responds before any deadline: queryLms fires, the LM computes and
// delivers synchronously (zero processing delay, zero max-wait), and the
// resulting command reaches the E2Terminator, which logs it even though no
// terminator is registered for its target.
func TestCoreDispatchesOnTimeCommand(t *testing.T) {
	ctx := context.Background()
	cfg := ric.DefaultConfig()
	cfg.LmQueryInterval = 200 * time.Millisecond
	cfg.LmQueryMaxWaitTime = 0

	data := memstore.New()
	clk := clock.NewManual(time.Unix(0, 0))
	e2term := ric.NewE2Terminator(data, clk, ric.Constant(0), nil, nil)
	compute := func(ctx context.Context, cycle ric.CycleID) []ric.Command {
		return []ric.Command{ric.NewBaseCommand(99)}
	}
	defaultLm := lm.NewBaseLM("CdefaultLm", nil, data, clk, ric.Constant(0), nil, compute, false, nil)
	core := ric.NewCore(cfg, data, defaultLm, cmm.NewNoOp(data), e2term, clk, nil, nil)
	defaultLm.SetCore(core)

	core.Start(ctx)
	defer core.Stop()

	clk.Advance(cfg.LmQueryInterval)

	entries := data.AuditEntries(ctx)
	if !hasAuditComponent(entries, "E2Terminator") {
		t.Fatalf("expected an E2Terminator audit entry after on-time dispatch, got %+v", entries)
	}
}

// TestCoreLateCommandDropPolicy verifies that a LogicModule delivery that
// arrives after the cycle's deadline is dropped and recorded, under the
// default DROP policy.
func TestCoreLateCommandDropPolicy(t *testing.T) {
	ctx := context.Background()
	cfg := ric.DefaultConfig()
	cfg.LmQueryInterval = 200 * time.Millisecond
	cfg.LmQueryMaxWaitTime = 50 * time.Millisecond
	cfg.LmQueryLateCommandPolicy = ric.LateCommandDrop

	data := memstore.New()
	clk := clock.NewManual(time.Unix(0, 0))
	e2term := ric.NewE2Terminator(data, clk, ric.Constant(0), nil, nil)
	compute := func(ctx context.Context, cycle ric.CycleID) []ric.Command {
		return []ric.Command{ric.NewBaseCommand(7)}
	}
	defaultLm := lm.NewBaseLM("CdefaultLm", nil, data, clk, ric.Constant(150*time.Millisecond), nil, compute, false, nil)
	core := ric.NewCore(cfg, data, defaultLm, cmm.NewNoOp(data), e2term, clk, nil, nil)
	defaultLm.SetCore(core)

	core.Start(ctx)
	defer core.Stop()

	clk.Advance(cfg.LmQueryInterval)   // queryLms fires, cycle opens
	clk.Advance(cfg.LmQueryMaxWaitTime) // deadline fires first, dispatch is empty
	clk.Advance(100 * time.Millisecond) // LM's late delivery now arrives

	entries := data.AuditEntries(ctx)
	if !hasAuditTextContaining(entries, "dropped") {
		t.Fatalf("expected a 'dropped' audit entry for the late command, got %+v", entries)
	}
}

// TestCoreLateCommandSavePolicyCarriesIntoNextCycle verifies that under the
// SAVE policy a late command is stashed and merged into the very next
// cycle's dispatch, instead of being lost.
func TestCoreLateCommandSavePolicyCarriesIntoNextCycle(t *testing.T) {
	ctx := context.Background()
	cfg := ric.DefaultConfig()
	cfg.LmQueryInterval = 200 * time.Millisecond
	cfg.LmQueryMaxWaitTime = 50 * time.Millisecond
	cfg.LmQueryLateCommandPolicy = ric.LateCommandSave

	data := memstore.New()
	clk := clock.NewManual(time.Unix(0, 0))
	e2term := ric.NewE2Terminator(data, clk, ric.Constant(0), nil, nil)
	compute := func(ctx context.Context, cycle ric.CycleID) []ric.Command {
		return []ric.Command{ric.NewLte2LteHandoverCommand(7, 11, 22)}
	}
	defaultLm := lm.NewBaseLM("CdefaultLm", nil, data, clk, ric.Constant(150*time.Millisecond), nil, compute, false, nil)
	core := ric.NewCore(cfg, data, defaultLm, cmm.NewNoOp(data), e2term, clk, nil, nil)
	defaultLm.SetCore(core)

	core.Start(ctx)
	defer core.Stop()

	clk.Advance(cfg.LmQueryInterval)    // t=200ms: cycle 1 opens
	clk.Advance(cfg.LmQueryMaxWaitTime) // t=250ms: cycle 1 deadline, nothing to dispatch yet
	clk.Advance(100 * time.Millisecond) // t=350ms: cycle 1's late delivery is stashed (SAVE)

	entries := data.AuditEntries(ctx)
	if !hasAuditTextContaining(entries, "saved for next cycle") {
		t.Fatalf("expected the late command to be saved, got %+v", entries)
	}

	clk.Advance(50 * time.Millisecond) // t=400ms: cycle 2 opens, seeded with the stash
	clk.Advance(cfg.LmQueryMaxWaitTime) // t=450ms: cycle 2 deadline, dispatches the stashed command

	entries = data.AuditEntries(ctx)
	if !hasAuditTextContaining(entries, "Lte2LteHandoverCommand") {
		t.Fatalf("expected the stashed command to reach the E2Terminator in cycle 2, got %+v", entries)
	}
}

// TestCoreQueryTriggerFiresEarlyCycle verifies that a QueryTrigger reporting
// true on an incoming Report starts a new cycle immediately, before the
// periodic tick is due (P7).
func TestCoreQueryTriggerFiresEarlyCycle(t *testing.T) {
	ctx := context.Background()
	cfg := ric.DefaultConfig()
	cfg.LmQueryInterval = 10 * time.Second // long enough that only the trigger could fire a cycle

	core, data, clk := newTestCore(t, cfg)
	fired := false
	core.AddQueryTrigger("always", triggerFunc(func(ric.Report) bool { fired = true; return true }))

	core.Start(ctx)
	defer core.Stop()

	report := ric.NewLocationReport(1, clk.Now(), 0, 0, 0)
	core.NotifyReportReceived(ctx, report)

	if !fired {
		t.Fatal("expected the registered QueryTrigger to have been evaluated")
	}
	if !hasAuditTextContaining(data.AuditEntries(ctx), "No action taken") {
		t.Fatal("expected the trigger to start a cycle that runs the default LM without any clock advance")
	}
}

type triggerFunc func(ric.Report) bool

func (f triggerFunc) ShouldQueryLms(r ric.Report) bool { return f(r) }

// TestCoreAddRemoveLogicModule exercises the additional-LM registry.
func TestCoreAddRemoveLogicModule(t *testing.T) {
	cfg := ric.DefaultConfig()
	core, data, clk := newTestCore(t, cfg)
	extra := lm.NewNoOp("extra", nil, data, clk, nil)

	if res := core.AddLogicModule(extra); res != ric.AddLogicModuleOK {
		t.Fatalf("AddLogicModule = %v, want OK", res)
	}
	if res := core.AddLogicModule(extra); res != ric.AddLogicModuleErrNameExists {
		t.Fatalf("AddLogicModule (duplicate) = %v, want ErrNameExists", res)
	}
	if _, ok := core.AdditionalLogicModule("extra"); !ok {
		t.Fatal("expected to find the registered additional LM")
	}
	if res := core.RemoveLogicModule("extra"); res != ric.RemoveLogicModuleOK {
		t.Fatalf("RemoveLogicModule = %v, want OK", res)
	}
	if res := core.RemoveLogicModule("extra"); res != ric.RemoveLogicModuleErrNameInvalid {
		t.Fatalf("RemoveLogicModule (missing) = %v, want ErrNameInvalid", res)
	}
}

// TestCoreStartTwiceAborts verifies that starting an already-started Core
// is a fatal configuration error (spec §7), not a silent no-op.
func TestCoreStartTwiceAborts(t *testing.T) {
	cfg := ric.DefaultConfig()
	core, _, _ := newTestCore(t, cfg)
	core.Start(context.Background())
	defer core.Stop()

	defer func() {
		if recover() == nil {
			t.Fatal("expected Core.Start called twice to panic")
		}
	}()
	core.Start(context.Background())
}
