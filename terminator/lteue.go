package terminator

import (
	"context"
	"log/slog"

	"github.com/oran-ric/near-rt-ric/internal/clock"
	"github.com/oran-ric/near-rt-ric/ric"
)

// LteUe is a NodeTerminator for an LTE user equipment, identified by IMSI.
// It is report-only: every handover in this system targets the serving
// eNB, so the UE side has no command variant to receive (there is no
// "oran-e2-node-terminator-lte-ue" analogue in the source; UEs only
// report and register).
type LteUe struct {
	base
}

// NewLteUe constructs an LteUe terminator identified by imsi.
func NewLteUe(imsi uint64, link ric.E2TerminatorLink, cfg ric.TerminatorConfig, clk clock.Clock, log *slog.Logger) *LteUe {
	return &LteUe{base: newBase(ric.NodeKindLteUE, ric.LteUeID(imsi), link, cfg, clk, log)}
}

func (u *LteUe) Activate(ctx context.Context) { u.activate(ctx, u) }
func (u *LteUe) Deactivate()                  { u.deactivate() }

func (u *LteUe) ReceiveRegistrationResponse(id ric.E2NodeID) {
	u.receiveRegistrationResponse(context.Background(), id)
}

func (u *LteUe) ReceiveDeregistrationResponse(id ric.E2NodeID) {
	u.receiveDeregistrationResponse(id)
}

func (u *LteUe) ReceiveCommand(ric.Command) {}
