package cmm

import (
	"context"

	"github.com/oran-ric/near-rt-ric/ric"
)

// SingleCommandPerNode retains at most one command per affected node per
// cycle. On collision, a default-LM command always displaces a
// non-default-LM command already selected for that node; among
// non-default LMs, the first one processed (in sortedKeys order) wins.
// The "affected node" of a handover command is the UE, resolved via
// DataRepository.GetLteUeE2NodeIDFromCellInfo against the handover's
// target cell and RNTI, not the addressed eNB. Grounded on
// oran-cmm-single-command-per-node.cc.
type SingleCommandPerNode struct {
	data   ric.DataRepository
	active bool
}

func NewSingleCommandPerNode(data ric.DataRepository) *SingleCommandPerNode {
	return &SingleCommandPerNode{data: data, active: true}
}

func (*SingleCommandPerNode) Name() string { return "CmmSingleCommandPerNode" }

func (c *SingleCommandPerNode) Filter(input ric.CommandsByLm) []ric.Command {
	if !c.active {
		var out []ric.Command
		for _, key := range sortedKeys(input) {
			out = append(out, input[key]...)
		}
		return out
	}

	ctx := context.Background()
	type selection struct {
		cmd       ric.Command
		isDefault bool
	}
	selected := make(map[ric.E2NodeID]selection)
	var order []ric.E2NodeID

	for _, key := range sortedKeys(input) {
		for _, cmd := range input[key] {
			affected := c.affectedNode(ctx, cmd)

			prev, exists := selected[affected]
			switch {
			case !exists:
				selected[affected] = selection{cmd: cmd, isDefault: key.IsDefault}
				order = append(order, affected)
			case key.IsDefault && !prev.isDefault:
				selected[affected] = selection{cmd: cmd, isDefault: true}
			default:
				if c.data != nil {
					c.data.LogActionCmm(ctx, c.Name(), "Ignoring lower-precedence command: "+cmd.String())
				}
			}
		}
	}

	out := make([]ric.Command, 0, len(order))
	for _, node := range order {
		out = append(out, selected[node].cmd)
	}
	return out
}

// affectedNode resolves the node a command's precedence conflict is keyed
// on: the UE for a handover command, the addressee for everything else.
func (c *SingleCommandPerNode) affectedNode(ctx context.Context, cmd ric.Command) ric.E2NodeID {
	handover, ok := cmd.(ric.Lte2LteHandoverCommand)
	if !ok {
		return cmd.Target()
	}
	if ue, found := c.data.GetLteUeE2NodeIDFromCellInfo(ctx, handover.TargetCellID, handover.TargetRNTI); found {
		return ue
	}
	return cmd.Target()
}
