package ric

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/oran-ric/near-rt-ric/internal/clock"
	"github.com/oran-ric/near-rt-ric/internal/fatal"
	"github.com/oran-ric/near-rt-ric/internal/logging"
	"github.com/oran-ric/near-rt-ric/internal/telemetry"
)

// Core is the orchestrator (C8, "RicCore"): it owns the default LM, the
// additional LMs, the CMM, the DataRepository, the E2Terminator, and the
// QueryTriggers, and drives the cycle state machine described in spec
// §4.7.
//
// The source's single-threaded discrete-event model is retargeted per
// spec §5: Core is the single actor that owns every cycle-state
// transition, guarded by mu; LMs may do their own work concurrently (each
// on its own clock.Handle timer, optionally backed by a worker pool, see
// lm.BaseLM) but their deliveries funnel back through NotifyLmFinished,
// which always executes under mu.
type Core struct {
	mu sync.Mutex

	cfg    Config
	data   DataRepository
	cmm    ConflictMitigationModule
	e2term *E2Terminator
	clk    clock.Clock
	inst   *telemetry.Instruments
	log    *slog.Logger

	defaultLm     LogicModule
	additionalLms map[string]LogicModule
	triggers      map[string]QueryTrigger

	active  bool
	started bool

	lmQueryEvent     clock.Handle
	inactivityEvent  clock.Handle
	processEvent     clock.Handle
	cycle            CycleID
	commands         CommandsByLm
	reported         map[LmKey]bool
	lateStash        CommandsByLm
}

// NewCore constructs a Core. defaultLm, cmm, data, and e2term must be
// non-nil; activation aborts otherwise (spec §7, "Configuration error").
func NewCore(cfg Config, data DataRepository, defaultLm LogicModule, cmm ConflictMitigationModule, e2term *E2Terminator, clk clock.Clock, inst *telemetry.Instruments, log *slog.Logger) *Core {
	if clk == nil {
		clk = clock.Real{}
	}
	if inst == nil {
		inst = telemetry.NewNoop()
	}
	if log == nil {
		log = logging.New(logging.DefaultConfig())
	}
	c := &Core{
		cfg:           cfg.Normalize(),
		data:          data,
		cmm:           cmm,
		e2term:        e2term,
		clk:           clk,
		inst:          inst,
		log:           log,
		defaultLm:     defaultLm,
		additionalLms: make(map[string]LogicModule),
		triggers:      make(map[string]QueryTrigger),
		commands:      make(CommandsByLm),
		reported:      make(map[LmKey]bool),
		lateStash:     make(CommandsByLm),
	}
	if e2term != nil {
		e2term.bind(c)
	}
	return c
}

// Activate propagates activation to every owned component, in the order
// the source does: E2Terminator, DataRepository, default LM, every
// additional LM. The CMM has no activation step. Aborts if any required
// component (including the CMM) is nil.
func (c *Core) Activate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fatal.AbortIf(c.data == nil, "Core.Activate: DataRepository is nil")
	fatal.AbortIf(c.defaultLm == nil, "Core.Activate: default LogicModule is nil")
	fatal.AbortIf(c.cmm == nil, "Core.Activate: ConflictMitigationModule is nil")
	fatal.AbortIf(c.e2term == nil, "Core.Activate: E2Terminator is nil")

	if c.active {
		return
	}
	c.e2term.activate()
	c.data.Activate()
	c.defaultLm.Activate()
	for _, lm := range c.additionalLms {
		lm.Activate()
	}
	c.active = true
}

// Deactivate reverses Activate.
func (c *Core) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	c.e2term.deactivate()
	c.data.Deactivate()
	c.defaultLm.Deactivate()
	for _, lm := range c.additionalLms {
		lm.Deactivate()
	}
	c.active = false
}

// Start activates the Core (if not already) and schedules the first
// queryLms tick and the first inactivity sweep. Aborts if already started.
func (c *Core) Start(ctx context.Context) {
	c.mu.Lock()
	alreadyStarted := c.started
	c.started = true
	c.mu.Unlock()
	fatal.AbortIf(alreadyStarted, "Core.Start: already started")

	c.Activate(ctx)

	c.mu.Lock()
	c.lmQueryEvent = c.clk.AfterFunc(c.cfg.LmQueryInterval, func() { c.queryLms(ctx) })
	c.inactivityEvent = c.clk.AfterFunc(c.cfg.E2NodeInactivityInterval.Draw(), func() { c.runInactivitySweep(ctx) })
	c.mu.Unlock()
}

// Stop deactivates the Core and cancels every outstanding event, including
// any pending late-command processing deadline.
func (c *Core) Stop() {
	c.mu.Lock()
	if c.lmQueryEvent != nil {
		c.lmQueryEvent.Cancel()
	}
	if c.inactivityEvent != nil {
		c.inactivityEvent.Cancel()
	}
	if c.processEvent != nil {
		c.processEvent.Cancel()
	}
	c.started = false
	c.mu.Unlock()

	c.Deactivate()
}

// AddLogicModule adds an additional LM. Fails with AddLogicModuleErrNameExists
// if an additional LM with the same name is already present.
func (c *Core) AddLogicModule(lm LogicModule) AddLogicModuleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.additionalLms[lm.Name()]; exists {
		return AddLogicModuleErrNameExists
	}
	c.additionalLms[lm.Name()] = lm
	if c.active {
		lm.Activate()
	}
	return AddLogicModuleOK
}

// RemoveLogicModule removes an additional LM by name. Fails with
// RemoveLogicModuleErrNameInvalid if no such LM is registered. The default
// LM can never be removed this way; see SetDefaultLogicModule.
func (c *Core) RemoveLogicModule(name string) RemoveLogicModuleResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	lm, exists := c.additionalLms[name]
	if !exists {
		return RemoveLogicModuleErrNameInvalid
	}
	lm.Deactivate()
	delete(c.additionalLms, name)
	return RemoveLogicModuleOK
}

// AdditionalLogicModule looks up an additional LM by name.
func (c *Core) AdditionalLogicModule(name string) (LogicModule, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lm, ok := c.additionalLms[name]
	return lm, ok
}

// DefaultLogicModule returns the current default LM.
func (c *Core) DefaultLogicModule() LogicModule {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.defaultLm
}

// SetDefaultLogicModule replaces the default LM. The default LM is never
// removed outright, only replaced (spec §4.3).
func (c *Core) SetDefaultLogicModule(lm LogicModule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fatal.AbortIf(lm == nil, "Core.SetDefaultLogicModule: nil LogicModule")
	if c.defaultLm != nil {
		c.defaultLm.Deactivate()
	}
	c.defaultLm = lm
	if c.active {
		lm.Activate()
	}
}

// AddQueryTrigger registers a QueryTrigger by name. Returns false if the
// name is already registered.
func (c *Core) AddQueryTrigger(name string, t QueryTrigger) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.triggers[name]; exists {
		return false
	}
	c.triggers[name] = t
	return true
}

// RemoveQueryTrigger unregisters a QueryTrigger by name. Returns false if
// no such trigger is registered.
func (c *Core) RemoveQueryTrigger(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.triggers[name]; !exists {
		return false
	}
	delete(c.triggers, name)
	return true
}

// Data returns the owned DataRepository.
func (c *Core) Data() DataRepository { return c.data }

// Cmm returns the active ConflictMitigationModule.
func (c *Core) Cmm() ConflictMitigationModule {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cmm
}

// SetCmm replaces the active ConflictMitigationModule.
func (c *Core) SetCmm(cmm ConflictMitigationModule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fatal.AbortIf(cmm == nil, "Core.SetCmm: nil ConflictMitigationModule")
	c.cmm = cmm
}

// E2Terminator returns the owned RicE2Terminator.
func (c *Core) E2Terminator() *E2Terminator { return c.e2term }

// NotifyReportReceived evaluates every registered QueryTrigger against
// report; on the first true result it cancels the pending periodic tick
// and starts a new cycle immediately (spec §4.7, P7).
func (c *Core) NotifyReportReceived(ctx context.Context, report Report) {
	c.mu.Lock()
	triggers := make([]QueryTrigger, 0, len(c.triggers))
	for _, t := range c.triggers {
		triggers = append(triggers, t)
	}
	c.mu.Unlock()

	for _, t := range triggers {
		if t.ShouldQueryLms(report) {
			c.inst.TriggerFiredTotal.Add(ctx, 1)
			c.mu.Lock()
			if c.lmQueryEvent != nil {
				c.lmQueryEvent.Cancel()
			}
			c.mu.Unlock()
			c.queryLms(ctx)
			return
		}
	}
}

// queryLms opens a new cycle: it sweeps inactivity, seeds the command
// accumulator with any SAVE-policy late commands carried from the
// previous cycle, schedules the collection deadline (if configured), and
// signals every LM to run. It then reschedules the next periodic tick.
func (c *Core) queryLms(ctx context.Context) {
	c.mu.Lock()

	c.sweepInactivityLocked(ctx)

	c.cycle++
	cycle := c.cycle
	c.commands = c.lateStash
	c.lateStash = make(CommandsByLm)
	c.reported = make(map[LmKey]bool)

	if c.processEvent != nil {
		c.processEvent.Cancel()
	}
	if c.cfg.LmQueryMaxWaitTime > 0 {
		c.processEvent = c.clk.AfterFunc(c.cfg.LmQueryMaxWaitTime, func() { c.processLmQueryCommands(ctx, cycle) })
	} else {
		c.processEvent = nil
	}

	lms := make([]LogicModule, 0, len(c.additionalLms)+1)
	lms = append(lms, c.defaultLm)
	for _, lm := range c.additionalLms {
		lms = append(lms, lm)
	}
	c.mu.Unlock()

	c.inst.CyclesStartedTotal.Add(ctx, 1)

	for _, lm := range lms {
		if lm.IsRunning() {
			c.data.LogActionLm(ctx, lm.Name(), "run cancelled: new cycle began before prior delivery")
			c.inst.CancelledRunsTotal.Add(ctx, 1)
			lm.CancelRun()
		}
		lm.Run(cycle)
	}

	c.mu.Lock()
	c.lmQueryEvent = c.clk.AfterFunc(c.cfg.LmQueryInterval, func() { c.queryLms(ctx) })
	c.mu.Unlock()
}

// NotifyLmFinished is the single funnel every LM delivery passes through
// (spec §5). cycle must equal Core's current cycle or this is a protocol
// error (spec §7) and Core aborts.
func (c *Core) NotifyLmFinished(ctx context.Context, cycle CycleID, cmds []Command, lm LogicModule) {
	c.mu.Lock()

	fatal.AbortIf(cycle != c.cycle,
		"Core.NotifyLmFinished: received commands for unexpected cycle %d (current %d)", cycle, c.cycle)

	key := LmKey{Name: lm.Name(), IsDefault: lm == c.defaultLm}

	onTime := c.processEvent == nil || c.processEvent.Pending() || c.cfg.LmQueryMaxWaitTime == 0

	if !onTime {
		c.applyLateLocked(ctx, key, cmds)
		c.mu.Unlock()
		return
	}

	c.commands[key] = append(c.commands[key], cmds...)
	c.reported[key] = true

	total := 1 + len(c.additionalLms)
	allReported := len(c.reported) >= total
	shouldDispatchNow := allReported && (c.processEvent == nil || c.processEvent.Pending() || c.cfg.LmQueryMaxWaitTime == 0)
	c.mu.Unlock()

	if shouldDispatchNow {
		c.processLmQueryCommands(ctx, cycle)
	}
}

// applyLateLocked applies the configured late-command policy to cmds.
// Must be called with mu held.
func (c *Core) applyLateLocked(ctx context.Context, key LmKey, cmds []Command) {
	c.inst.LateCommandsTotal.Add(ctx, int64(1))
	switch c.cfg.LmQueryLateCommandPolicy {
	case LateCommandSave:
		c.lateStash[key] = append(c.lateStash[key], cmds...)
		c.data.LogActionLm(ctx, key.Name, fmt.Sprintf("late delivery of %d command(s) saved for next cycle", len(cmds)))
	default:
		c.inst.CommandsDroppedTotal.Add(ctx, int64(len(cmds)))
		c.data.LogActionLm(ctx, key.Name, fmt.Sprintf("late delivery of %d command(s) dropped", len(cmds)))
	}
}

// processLmQueryCommands cancels its own deadline event, filters the
// cycle's accumulated commands through the CMM, and dispatches the
// survivors. It is only ever called for the cycle that is still current
// at the time it runs (its deadline closure captures the cycle id, and
// NotifyLmFinished rejects mismatched cycles).
func (c *Core) processLmQueryCommands(ctx context.Context, cycle CycleID) {
	c.mu.Lock()
	if cycle != c.cycle {
		c.mu.Unlock()
		return
	}
	if c.processEvent != nil {
		c.processEvent.Cancel()
	}
	input := c.commands
	c.commands = make(CommandsByLm)
	cmm := c.cmm
	c.mu.Unlock()

	dispatch := cmm.Filter(input)

	c.inst.CyclesDispatchedTotal.Add(ctx, 1)
	c.inst.CommandsDispatchedTotal.Add(ctx, int64(len(dispatch)))

	c.e2term.ProcessCommands(ctx, dispatch)
}

// runInactivitySweep is the periodic, self-rescheduling inactivity loop
// (independent of, and concurrent with, the cycle state machine).
func (c *Core) runInactivitySweep(ctx context.Context) {
	c.mu.Lock()
	c.sweepInactivityLocked(ctx)
	c.inactivityEvent = c.clk.AfterFunc(c.cfg.E2NodeInactivityInterval.Draw(), func() { c.runInactivitySweep(ctx) })
	c.mu.Unlock()
}

// sweepInactivityLocked deregisters every node whose last registration
// request is older than E2NodeInactivityThreshold. Must be called with mu
// held; it releases mu temporarily around the E2Terminator call since that
// call acquires no Core lock itself but may call back into DataRepository.
func (c *Core) sweepInactivityLocked(ctx context.Context) {
	now := c.clk.Now()
	threshold := c.cfg.E2NodeInactivityThreshold
	last := c.data.GetLastRegistrationRequests(ctx)
	var stale []E2NodeID
	for id, t := range last {
		if now.Sub(t) > threshold {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return
	}
	c.mu.Unlock()
	for _, id := range stale {
		c.e2term.ReceiveDeregistrationRequest(ctx, id)
		c.inst.NodesDeregisteredTotal.Add(ctx, 1)
	}
	c.mu.Lock()
}
