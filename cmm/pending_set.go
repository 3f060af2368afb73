package cmm

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"github.com/oran-ric/near-rt-ric/ric"
)

// handoverKey uniquely identifies a handover command's (target, cell, rnti)
// triple for pending-set membership, per spec §4.4's Handover CMM rule.
type handoverKey struct {
	target E2NodeID
	cellID uint32
	rnti   uint32
}

// E2NodeID is a local alias avoiding a stutter of ric.E2NodeID in this
// file's exported-looking but unexported type.
type E2NodeID = ric.E2NodeID

func keyOf(cmd ric.Lte2LteHandoverCommand) handoverKey {
	return handoverKey{target: cmd.Target(), cellID: cmd.TargetCellID, rnti: cmd.TargetRNTI}
}

func (k handoverKey) String() string {
	return fmt.Sprintf("{target=%d,cell=%d,rnti=%d}", k.target, k.cellID, k.rnti)
}

// pendingSet is the Handover CMM's cross-cycle dedup set. Per spec §9 Open
// Question (a), the source never evicts entries; this codebase keeps that
// behavior, since nothing in the spec defines an eviction trigger (no TTL,
// no "handover completed" callback reaches the CMM) — see DESIGN.md.
type pendingSet struct {
	s *set.Set[handoverKey]
}

func newPendingSet() *pendingSet {
	return &pendingSet{s: set.New[handoverKey](64)}
}

// addIfAbsent inserts key if not already present, returning whether it was
// newly inserted.
func (p *pendingSet) addIfAbsent(key handoverKey) bool {
	return p.s.Insert(key)
}
