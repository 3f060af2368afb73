package lm

import (
	"context"
	"log/slog"

	"github.com/oran-ric/near-rt-ric/internal/clock"
	"github.com/oran-ric/near-rt-ric/ric"
)

// NewNoOp constructs a BaseLM that emits no commands and logs "No action
// taken" every cycle. Grounded on oran-lm-noop.cc; suitable
// as the always-present default LM in a deployment with no real decision
// logic wired in yet.
func NewNoOp(name string, core *ric.Core, data ric.DataRepository, clk clock.Clock, log *slog.Logger) *BaseLM {
	compute := func(ctx context.Context, cycle ric.CycleID) []ric.Command {
		data.LogActionLm(ctx, name, "No action taken")
		return nil
	}
	return NewBaseLM(name, core, data, clk, ric.Constant(0), nil, compute, true, log)
}
