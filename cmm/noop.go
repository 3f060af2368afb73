// Package cmm provides the conflict-mitigation module implementations:
// NoOp (flatten), Handover (pending-set dedup), and SingleCommandPerNode
// (default-LM precedence). See spec §4.4.
package cmm

import (
	"context"
	"sort"

	"github.com/oran-ric/near-rt-ric/ric"
)

// sortedKeys returns input's LmKeys in a deterministic order (by Name, then
// additional-before-default) so that Filter's behavior does not depend on Go's
// randomized map iteration order. This resolves the source's reliance on an
// undefined map-iteration order (spec §9, Open Question (b)): ordering among
// distinct LM names is now fixed. It determines the output order of NoOp and
// Handover and which command wins under SingleCommandPerNode's
// first-seen-among-non-default-LMs rule.
func sortedKeys(input ric.CommandsByLm) []ric.LmKey {
	keys := make([]ric.LmKey, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return !keys[i].IsDefault && keys[j].IsDefault
	})
	return keys
}

// NoOp flattens every LM's commands into a single list, in deterministic
// LM-name order, performing no conflict resolution. Grounded on
// oran-cmm-noop.cc.
type NoOp struct {
	data ric.DataRepository
}

func NewNoOp(data ric.DataRepository) *NoOp {
	return &NoOp{data: data}
}

func (*NoOp) Name() string { return "CmmNoOp" }

func (c *NoOp) Filter(input ric.CommandsByLm) []ric.Command {
	var out []ric.Command
	for _, key := range sortedKeys(input) {
		out = append(out, input[key]...)
	}
	if c.data != nil {
		c.data.LogActionCmm(context.Background(), c.Name(), "No action taken")
	}
	return out
}
