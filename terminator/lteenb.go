package terminator

import (
	"context"
	"log/slog"

	"github.com/oran-ric/near-rt-ric/internal/clock"
	"github.com/oran-ric/near-rt-ric/ric"
)

// Radio is the narrow view of an eNB's RRC a LteEnb terminator needs to
// carry out a dispatched handover command. Grounded on
// oran-e2-node-terminator-lte-enb.cc's GetNetDevice()->GetRrc()->
// SendHandoverRequest call; the concrete RRC/radio layer is an external
// collaborator, so it is injected as this interface.
type Radio interface {
	SendHandoverRequest(targetRNTI, targetCellID uint32)
}

// LteEnb is a NodeTerminator for an LTE eNodeB, identified by cell id. It
// recognizes Lte2LteHandoverCommand and forwards it to its Radio.
// Grounded on oran-e2-node-terminator-lte-enb.cc.
type LteEnb struct {
	base
	radio Radio
}

// NewLteEnb constructs an LteEnb terminator identified by cellID, backed by
// radio for handover execution.
func NewLteEnb(cellID uint32, radio Radio, link ric.E2TerminatorLink, cfg ric.TerminatorConfig, clk clock.Clock, log *slog.Logger) *LteEnb {
	return &LteEnb{base: newBase(ric.NodeKindLteENB, ric.LteEnbID(cellID), link, cfg, clk, log), radio: radio}
}

func (e *LteEnb) Activate(ctx context.Context) { e.activate(ctx, e) }
func (e *LteEnb) Deactivate()                  { e.deactivate() }

func (e *LteEnb) ReceiveRegistrationResponse(id ric.E2NodeID) {
	e.receiveRegistrationResponse(context.Background(), id)
}

func (e *LteEnb) ReceiveDeregistrationResponse(id ric.E2NodeID) {
	e.receiveDeregistrationResponse(id)
}

// ReceiveCommand executes an Lte2LteHandoverCommand via the attached Radio;
// every other variant is silently ignored.
func (e *LteEnb) ReceiveCommand(cmd ric.Command) {
	handover, ok := cmd.(ric.Lte2LteHandoverCommand)
	if !ok || e.radio == nil {
		return
	}
	e.radio.SendHandoverRequest(handover.TargetRNTI, handover.TargetCellID)
}
