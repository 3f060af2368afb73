package cmm

import (
	"context"

	"github.com/oran-ric/near-rt-ric/ric"
)

// Handover suppresses a repeated Lte2LteHandoverCommand whose
// (target, cell, rnti) triple has already been emitted, earlier in the same
// Filter call or in a prior cycle.
// Non-handover commands pass through unchanged. Grounded on
// oran-cmm-handover.cc.
type Handover struct {
	data    ric.DataRepository
	pending pendingStore
}

// NewHandover constructs a Handover CMM backed by an in-process pending
// set.
func NewHandover(data ric.DataRepository) *Handover {
	return &Handover{data: data, pending: newMemoryPendingStore()}
}

// NewHandoverWithStore constructs a Handover CMM backed by a caller-supplied
// pendingStore, e.g. RedisPendingSet for sharing dedup state across RIC
// instances.
func NewHandoverWithStore(data ric.DataRepository, store pendingStore) *Handover {
	return &Handover{data: data, pending: store}
}

func (*Handover) Name() string { return "CmmHandover" }

func (c *Handover) Filter(input ric.CommandsByLm) []ric.Command {
	var out []ric.Command
	for _, key := range sortedKeys(input) {
		for _, cmd := range input[key] {
			handover, ok := cmd.(ric.Lte2LteHandoverCommand)
			if !ok {
				out = append(out, cmd)
				continue
			}
			if c.pending.addIfAbsent(keyOf(handover)) {
				out = append(out, cmd)
			} else if c.data != nil {
				c.data.LogActionCmm(context.Background(), c.Name(), "Excluding a pending command: "+cmd.String())
			}
		}
	}
	return out
}
