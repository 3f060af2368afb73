package ric

import (
	"context"
	"log/slog"
	"sync"

	"github.com/oran-ric/near-rt-ric/internal/clock"
	"github.com/oran-ric/near-rt-ric/internal/logging"
	"github.com/oran-ric/near-rt-ric/internal/telemetry"
)

// E2Terminator is the RIC-side endpoint that talks to every NodeTerminator
// (spec §4.6, "RicE2Terminator"). It is owned by Core and holds a
// lookup map from E2NodeID to NodeTerminator; the NodeTerminators
// themselves are owned by the hosting nodes, not by the RIC.
type E2Terminator struct {
	mu      sync.Mutex
	data    DataRepository
	clk     clock.Clock
	delay   RandomVariable
	inst    *telemetry.Instruments
	log     *slog.Logger
	active  bool
	core    *Core
	byID    map[E2NodeID]NodeTerminator
}

// NewE2Terminator constructs an E2Terminator. delay draws the transmission
// delay applied to every crossing (registration response, report receipt
// acknowledgement is implicit, and dispatched commands); see spec §6,
// ricTransmissionDelayRv.
func NewE2Terminator(data DataRepository, clk clock.Clock, delay RandomVariable, inst *telemetry.Instruments, log *slog.Logger) *E2Terminator {
	if clk == nil {
		clk = clock.Real{}
	}
	if inst == nil {
		inst = telemetry.NewNoop()
	}
	if log == nil {
		log = logging.New(logging.DefaultConfig())
	}
	if delay == nil {
		delay = Constant(0)
	}
	return &E2Terminator{
		data:  data,
		clk:   clk,
		delay: delay,
		inst:  inst,
		log:   log,
		byID:  make(map[E2NodeID]NodeTerminator),
	}
}

// bind attaches the owning Core, used to forward notifyReportReceived.
// Called once by NewCore.
func (e *E2Terminator) bind(core *Core) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.core = core
}

func (e *E2Terminator) activate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = true
}

func (e *E2Terminator) deactivate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = false
}

// ReceiveRegistrationRequest dispatches to the appropriate
// DataRepository.Register* call, records term in the lookup map under the
// returned E2NodeID, and schedules a ReceiveRegistrationResponse delivery
// to term after a transmission-delay draw.
func (e *E2Terminator) ReceiveRegistrationRequest(ctx context.Context, kind NodeKind, external ExternalID, term NodeTerminator) {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	var id E2NodeID
	now := e.clk.Now()
	switch kind {
	case NodeKindLteUE:
		id = e.data.RegisterLteUe(ctx, external, external.IMSI, now)
	case NodeKindLteENB:
		id = e.data.RegisterLteEnb(ctx, external, external.CellID, now)
	default:
		id = e.data.RegisterNode(ctx, kind, external, now)
	}

	e.mu.Lock()
	e.byID[id] = term
	e.mu.Unlock()

	e.inst.NodesRegisteredTotal.Add(ctx, 1)

	e.clk.AfterFunc(e.delay.Draw(), func() {
		term.ReceiveRegistrationResponse(id)
	})
}

// ReceiveDeregistrationRequest deregisters id in the store and responds to
// its terminator, if one is still known.
func (e *E2Terminator) ReceiveDeregistrationRequest(ctx context.Context, id E2NodeID) {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	term := e.byID[id]
	e.mu.Unlock()

	e.data.DeregisterNode(ctx, id, e.clk.Now())

	if term != nil {
		e.clk.AfterFunc(e.delay.Draw(), func() {
			term.ReceiveDeregistrationResponse(id)
		})
	}
}

// ReceiveReport persists report (variant-dispatched) and notifies Core so
// QueryTriggers can evaluate it.
func (e *E2Terminator) ReceiveReport(ctx context.Context, report Report) {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	core := e.core
	e.mu.Unlock()

	e.persistReport(ctx, report)
	e.inst.ReportsReceivedTotal.Add(ctx, 1)

	if core != nil {
		core.NotifyReportReceived(ctx, report)
	}
}

func (e *E2Terminator) persistReport(ctx context.Context, report Report) {
	switch r := report.(type) {
	case LocationReport:
		e.data.SavePosition(ctx, r.Reporter, r.X, r.Y, r.Z, r.At)
	case LteUeCellInfoReport:
		e.data.SaveLteUeCellInfo(ctx, r.Reporter, r.CellID, r.RNTI, r.At)
	case LteUeRsrpRsrqReport:
		e.data.SaveLteUeRsrpRsrq(ctx, RsrpRsrqSample{
			E2NodeID: r.Reporter, Timestamp: r.At, RNTI: r.RNTI, CellID: r.CellID,
			RSRP: r.RSRP, RSRQ: r.RSRQ, IsServing: r.IsServing, CarrierID: r.CarrierID,
		})
	case AppLossReport:
		e.data.SaveAppLoss(ctx, r.Reporter, r.Loss, r.At)
	}
}

// ProcessCommands logs and dispatches each command in cmds to its
// addressed terminator after an independent transmission delay. A command
// whose target is not currently registered is dropped (I6).
func (e *E2Terminator) ProcessCommands(ctx context.Context, cmds []Command) {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	for _, cmd := range cmds {
		e.data.LogCommandFromE2Terminator(ctx, cmd)

		if !e.data.IsRegistered(ctx, cmd.Target()) {
			e.log.Warn("dropping command for unregistered node", slog.String("command", cmd.String()))
			e.inst.CommandsDroppedTotal.Add(ctx, 1)
			continue
		}

		e.mu.Lock()
		term, ok := e.byID[cmd.Target()]
		e.mu.Unlock()
		if !ok {
			continue
		}

		c := cmd
		t := term
		e.clk.AfterFunc(e.delay.Draw(), func() {
			t.ReceiveCommand(c)
		})
	}
}

// SendRegistrationRequest implements E2TerminatorLink for NodeTerminator
// implementations; it is the same operation as ReceiveRegistrationRequest,
// named from the caller's perspective.
func (e *E2Terminator) SendRegistrationRequest(ctx context.Context, kind NodeKind, external ExternalID, term NodeTerminator) {
	e.ReceiveRegistrationRequest(ctx, kind, external, term)
}

// SendDeregistrationRequest implements E2TerminatorLink.
func (e *E2Terminator) SendDeregistrationRequest(ctx context.Context, id E2NodeID) {
	e.ReceiveDeregistrationRequest(ctx, id)
}

// SendReport implements E2TerminatorLink.
func (e *E2Terminator) SendReport(ctx context.Context, r Report) {
	e.ReceiveReport(ctx, r)
}
