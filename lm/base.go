// Package lm provides LogicModule implementations: BaseLM, an embeddable
// scheduling/cancellation skeleton grounded on oran-lm.cc, and NoOp, the
// trivial default LM grounded on oran-lm-noop.cc.
package lm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/oran-ric/near-rt-ric/internal/clock"
	"github.com/oran-ric/near-rt-ric/internal/logging"
	"github.com/oran-ric/near-rt-ric/ric"
)

// Compute is the decision logic a concrete LM supplies: given the current
// cycle, read the DataRepository and return the commands to emit. It must
// not block on anything but DataRepository readers; BaseLM itself handles
// the processingDelay and delivery scheduling.
type Compute func(ctx context.Context, cycle ric.CycleID) []ric.Command

// BaseLM is the reusable LogicModule skeleton: it draws a processing delay,
// schedules delivery after it elapses (optionally bounded by a worker-pool
// semaphore so a large LM fleet cannot oversubscribe CPU), and funnels the
// result through ric.Core.NotifyLmFinished. A run already pending delivery
// is cancelled (with an audit entry for any lost commands) before a new one
// starts. Grounded on oran-lm.cc's Run/FinishRun/CancelRun state machine.
type BaseLM struct {
	mu sync.Mutex

	name            string
	core            *ric.Core
	data            ric.DataRepository
	clk             clock.Clock
	processingDelay ric.RandomVariable
	sem             *semaphore.Weighted
	compute         Compute
	verbose         bool
	log             *slog.Logger

	active  bool
	cycle   ric.CycleID
	pending []ric.Command
	event   clock.Handle
}

// NewBaseLM constructs a BaseLM. sem may be nil, in which case runs are
// never blocked waiting for a worker slot (the delay timer itself still
// bounds concurrency to one in-flight run per LM instance).
func NewBaseLM(name string, core *ric.Core, data ric.DataRepository, clk clock.Clock, processingDelay ric.RandomVariable, sem *semaphore.Weighted, compute Compute, verbose bool, log *slog.Logger) *BaseLM {
	if clk == nil {
		clk = clock.Real{}
	}
	if processingDelay == nil {
		processingDelay = ric.Constant(0)
	}
	if log == nil {
		log = logging.New(logging.DefaultConfig())
	}
	return &BaseLM{
		name: name, core: core, data: data, clk: clk,
		processingDelay: processingDelay, sem: sem, compute: compute,
		verbose: verbose, log: log,
	}
}

func (l *BaseLM) Name() string { return l.name }

// SetCore binds (or rebinds) the Core that NotifyLmFinished deliveries are
// funneled through. BaseLM and Core are constructed in opposite order from
// what a straight-line constructor chain would want (ric.NewCore takes the
// default LM as an argument, so the LM must already exist), so the embedding
// program wires BaseLM.SetCore(core) once the Core itself has been built.
func (l *BaseLM) SetCore(core *ric.Core) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.core = core
}

func (l *BaseLM) Activate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = true
	l.logLogic("activated")
}

func (l *BaseLM) Deactivate() {
	l.mu.Lock()
	l.active = false
	running := l.isRunningLocked()
	l.mu.Unlock()
	if running {
		l.CancelRun()
	}
	l.logLogic("deactivated")
}

func (l *BaseLM) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isRunningLocked()
}

func (l *BaseLM) isRunningLocked() bool {
	return l.event != nil && l.event.Pending()
}

// Run computes commands synchronously (per spec §4.3, Run must not block
// beyond DataRepository reads) and schedules delivery after a processing
// delay draw. If this LM has a delivery already pending, it is cancelled
// first.
func (l *BaseLM) Run(cycle ric.CycleID) {
	l.mu.Lock()
	if !l.active {
		l.mu.Unlock()
		return
	}
	if l.isRunningLocked() {
		l.mu.Unlock()
		l.CancelRun()
		l.mu.Lock()
	}

	l.cycle = cycle
	l.mu.Unlock()

	var cmds []ric.Command
	if l.compute != nil {
		cmds = l.compute(context.Background(), cycle)
	}

	l.mu.Lock()
	l.pending = cmds
	delay := l.processingDelay.Draw()
	if delay < 0 {
		delay = 0
	}
	l.event = l.clk.AfterFunc(delay, l.finishRun)
	l.mu.Unlock()
}

func (l *BaseLM) finishRun() {
	if l.sem != nil {
		if err := l.sem.Acquire(context.Background(), 1); err != nil {
			return
		}
		defer l.sem.Release(1)
	}

	l.mu.Lock()
	if !l.active {
		l.mu.Unlock()
		return
	}
	cycle := l.cycle
	cmds := l.pending
	l.pending = nil
	core := l.core
	l.mu.Unlock()

	core.NotifyLmFinished(context.Background(), cycle, cmds, l)
}

// CancelRun cancels any pending delivery, writing an audit entry naming the
// lost commands if any were pending.
func (l *BaseLM) CancelRun() {
	l.mu.Lock()
	if !l.isRunningLocked() {
		l.mu.Unlock()
		return
	}
	l.event.Cancel()
	lost := l.pending
	l.pending = nil
	cycle := l.cycle
	l.mu.Unlock()

	if len(lost) > 0 {
		msg := fmt.Sprintf("run cancelled for cycle %d with %d command(s) lost", cycle, len(lost))
		l.data.LogActionLm(context.Background(), l.name, msg)
	}
}

func (l *BaseLM) logLogic(msg string) {
	if l.verbose && l.data != nil {
		l.data.LogActionLm(context.Background(), l.name, msg)
	}
}
