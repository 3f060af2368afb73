// Package ric implements the Near-RT RIC coordination core: the
// registration/inactivity state machine for E2 nodes, the periodic and
// triggered logic-module query cycle, the conflict-mitigation pipeline, and
// the command dispatch path that ties them together.
package ric

import "fmt"

// NodeKind identifies the family a managed E2 node belongs to.
type NodeKind int

const (
	// NodeKindWired is a generic endpoint identified only by an opaque
	// external handle (no radio-specific identity).
	NodeKindWired NodeKind = iota
	// NodeKindLteUE is an LTE user equipment, identified by IMSI.
	NodeKindLteUE
	// NodeKindLteENB is an LTE eNodeB, identified by cell id.
	NodeKindLteENB
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindWired:
		return "WIRED"
	case NodeKindLteUE:
		return "LTE_UE"
	case NodeKindLteENB:
		return "LTE_ENB"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// E2NodeID is the RIC-assigned opaque identifier for a managed node. It is
// monotonically assigned and stable across re-registration of the same
// external identity. The zero value means "invalid / registration failed".
type E2NodeID uint64

// InvalidE2NodeID is reserved and is never assigned to a real node.
const InvalidE2NodeID E2NodeID = 0

// ExternalID is the closed sum type of kind-specific external identities
// used to look up the stable E2NodeID of a node across re-registration.
// Exactly one field is meaningful, selected by Kind.
type ExternalID struct {
	Kind NodeKind

	// Handle identifies a NodeKindWired endpoint. Opaque to the RIC.
	Handle uint32
	// IMSI identifies a NodeKindLteUE endpoint. Globally unique (I3).
	IMSI uint64
	// CellID identifies a NodeKindLteENB endpoint. Globally unique (I3).
	CellID uint32
}

func WiredID(handle uint32) ExternalID   { return ExternalID{Kind: NodeKindWired, Handle: handle} }
func LteUeID(imsi uint64) ExternalID     { return ExternalID{Kind: NodeKindLteUE, IMSI: imsi} }
func LteEnbID(cellID uint32) ExternalID  { return ExternalID{Kind: NodeKindLteENB, CellID: cellID} }

// key returns a value suitable for use as a map key, uniquely identifying
// this external identity within its kind.
func (e ExternalID) key() any {
	switch e.Kind {
	case NodeKindLteUE:
		return e.IMSI
	case NodeKindLteENB:
		return e.CellID
	default:
		return e.Handle
	}
}

// Node is a managed endpoint's identity record. Registration and samples
// reference a Node by its E2NodeID; the external identity exists only to
// resolve re-registration to the same E2NodeID (I1-I4).
type Node struct {
	E2NodeID E2NodeID
	Kind     NodeKind
	External ExternalID
}
