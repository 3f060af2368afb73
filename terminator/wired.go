package terminator

import (
	"context"
	"log/slog"

	"github.com/oran-ric/near-rt-ric/internal/clock"
	"github.com/oran-ric/near-rt-ric/ric"
)

// Wired is a NodeTerminator for a generic endpoint with no radio-specific
// commands. Grounded on oran-e2-node-terminator-wired.cc: it recognizes no
// command variant yet, so ReceiveCommand is a no-op.
type Wired struct {
	base
}

// NewWired constructs a Wired terminator identified by handle.
func NewWired(handle uint32, link ric.E2TerminatorLink, cfg ric.TerminatorConfig, clk clock.Clock, log *slog.Logger) *Wired {
	return &Wired{base: newBase(ric.NodeKindWired, ric.WiredID(handle), link, cfg, clk, log)}
}

func (w *Wired) Activate(ctx context.Context) { w.activate(ctx, w) }
func (w *Wired) Deactivate()                  { w.deactivate() }

func (w *Wired) ReceiveRegistrationResponse(id ric.E2NodeID) {
	w.receiveRegistrationResponse(context.Background(), id)
}

func (w *Wired) ReceiveDeregistrationResponse(id ric.E2NodeID) {
	w.receiveDeregistrationResponse(id)
}

// ReceiveCommand ignores every command variant; no wired command is
// defined yet (spec §7, "Unknown command variant at terminator").
func (w *Wired) ReceiveCommand(ric.Command) {}
