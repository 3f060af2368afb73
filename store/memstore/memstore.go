// Package memstore is an in-memory ric.DataRepository, suitable for tests
// and for embedding programs that do not need durability across restarts.
// It is constructed directly with New; no ":memory:" path sentinel is
// recognized here or in pgstore.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oran-ric/near-rt-ric/ric"
)

type registrationEvent struct {
	registered bool
	at         time.Time
}

type node struct {
	id         ric.E2NodeID
	kind       ric.NodeKind
	external   ric.ExternalID
	events     []registrationEvent
	positions  []ric.PositionSample
	cellInfo   []ric.LteUeCellInfoReport
	rsrpRsrq   []ric.RsrpRsrqSample
	appLoss    []float64
	appLossAt  []time.Time
}

// Store is a mutex-guarded, map/slice-backed ric.DataRepository. Chosen
// over a generic embedded-database package (go-memdb et al.) because the
// repository's access patterns here are simple keyed lookups and
// append-only scans with no need for the secondary-index/schema machinery
// that a generic in-memory DB provides; see DESIGN.md.
type Store struct {
	mu       sync.Mutex
	active   bool
	nextID   ric.E2NodeID
	byID     map[ric.E2NodeID]*node
	byExtKey map[ric.NodeKind]map[any]ric.E2NodeID
	audit    []ric.AuditEntry
	trace    ric.StorageTrace
}

// New constructs an active, empty Store.
func New() *Store {
	return &Store{
		active:   true,
		nextID:   1,
		byID:     make(map[ric.E2NodeID]*node),
		byExtKey: make(map[ric.NodeKind]map[any]ric.E2NodeID),
	}
}

// WithTrace sets the optional per-operation storage trace callback (spec
// §4.1). It fires for IsRegistered, the Register* calls, DeregisterNode on
// an active store, and the Save* calls; the Get* readers, the Log* audit
// writes and AuditEntries do not fire it.
func (s *Store) WithTrace(t ric.StorageTrace) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trace = t
	return s
}

func (s *Store) traceOp(op string, args []any, ok bool) {
	if s.trace != nil {
		s.trace(op, args, ok)
	}
}

func (s *Store) Activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
}

func (s *Store) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

func (s *Store) IsRegistered(_ context.Context, id ric.E2NodeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.traceOp("IsRegistered", []any{id}, true) }()
	return s.isRegisteredLocked(id)
}

func (s *Store) isRegisteredLocked(id ric.E2NodeID) bool {
	if !s.active {
		return false
	}
	n, ok := s.byID[id]
	if !ok || len(n.events) == 0 {
		return false
	}
	return n.events[len(n.events)-1].registered
}

func (s *Store) registerLocked(kind ric.NodeKind, external ric.ExternalID, at time.Time) ric.E2NodeID {
	if !s.active {
		return ric.InvalidE2NodeID
	}
	byKind, ok := s.byExtKey[kind]
	if !ok {
		byKind = make(map[any]ric.E2NodeID)
		s.byExtKey[kind] = byKind
	}
	extKey := externalKey(external)
	if id, exists := byKind[extKey]; exists {
		n := s.byID[id]
		n.external = external
		n.events = append(n.events, registrationEvent{registered: true, at: at})
		return id
	}

	id := s.nextID
	s.nextID++
	n := &node{id: id, kind: kind, external: external}
	n.events = append(n.events, registrationEvent{registered: true, at: at})
	s.byID[id] = n
	byKind[extKey] = id
	return id
}

func externalKey(e ric.ExternalID) any {
	switch e.Kind {
	case ric.NodeKindLteUE:
		return e.IMSI
	case ric.NodeKindLteENB:
		return e.CellID
	default:
		return e.Handle
	}
}

func (s *Store) RegisterNode(_ context.Context, kind ric.NodeKind, external ric.ExternalID, at time.Time) ric.E2NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.registerLocked(kind, external, at)
	s.traceOp("RegisterNode", []any{kind, external, at}, true)
	return id
}

func (s *Store) RegisterLteUe(_ context.Context, external ric.ExternalID, imsi uint64, at time.Time) ric.E2NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.registerLocked(ric.NodeKindLteUE, external, at)
	s.traceOp("RegisterLteUe", []any{external, imsi, at}, true)
	return id
}

func (s *Store) RegisterLteEnb(_ context.Context, external ric.ExternalID, cellID uint32, at time.Time) ric.E2NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.registerLocked(ric.NodeKindLteENB, external, at)
	s.traceOp("RegisterLteEnb", []any{external, cellID, at}, true)
	return id
}

func (s *Store) DeregisterNode(_ context.Context, id ric.E2NodeID, at time.Time) ric.E2NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return id
	}
	if n, ok := s.byID[id]; ok {
		n.events = append(n.events, registrationEvent{registered: false, at: at})
	}
	s.traceOp("DeregisterNode", []any{id, at}, true)
	return id
}

func (s *Store) SavePosition(_ context.Context, id ric.E2NodeID, x, y, z float64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || !s.isRegisteredLocked(id) {
		s.traceOp("SavePosition", []any{id, x, y, z, at}, false)
		return
	}
	n := s.byID[id]
	n.positions = append(n.positions, ric.PositionSample{E2NodeID: id, X: x, Y: y, Z: z, Timestamp: at})
	s.traceOp("SavePosition", []any{id, x, y, z, at}, true)
}

func (s *Store) SaveLteUeCellInfo(_ context.Context, id ric.E2NodeID, cellID, rnti uint32, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || !s.isRegisteredLocked(id) {
		s.traceOp("SaveLteUeCellInfo", []any{id, cellID, rnti, at}, false)
		return
	}
	n := s.byID[id]
	n.cellInfo = append(n.cellInfo, ric.NewLteUeCellInfoReport(id, at, cellID, rnti))
	s.traceOp("SaveLteUeCellInfo", []any{id, cellID, rnti, at}, true)
}

func (s *Store) SaveAppLoss(_ context.Context, id ric.E2NodeID, loss float64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || !s.isRegisteredLocked(id) {
		s.traceOp("SaveAppLoss", []any{id, loss, at}, false)
		return
	}
	n := s.byID[id]
	n.appLoss = append(n.appLoss, loss)
	n.appLossAt = append(n.appLossAt, at)
	s.traceOp("SaveAppLoss", []any{id, loss, at}, true)
}

func (s *Store) SaveLteUeRsrpRsrq(_ context.Context, sample ric.RsrpRsrqSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || !s.isRegisteredLocked(sample.E2NodeID) {
		s.traceOp("SaveLteUeRsrpRsrq", []any{sample}, false)
		return
	}
	n := s.byID[sample.E2NodeID]
	n.rsrpRsrq = append(n.rsrpRsrq, sample)
	s.traceOp("SaveLteUeRsrpRsrq", []any{sample}, true)
}

func (s *Store) GetNodePositions(_ context.Context, id ric.E2NodeID, from, to time.Time, limit int) []ric.PositionSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return nil
	}
	n, ok := s.byID[id]
	if !ok {
		return nil
	}
	var out []ric.PositionSample
	for _, p := range n.positions {
		if !p.Timestamp.Before(from) && !p.Timestamp.After(to) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) GetLteUeCellInfo(_ context.Context, id ric.E2NodeID) ric.CellInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return ric.CellInfo{}
	}
	n, ok := s.byID[id]
	if !ok || len(n.cellInfo) == 0 {
		return ric.CellInfo{}
	}
	latest := n.cellInfo[len(n.cellInfo)-1]
	return ric.CellInfo{Found: true, CellID: latest.CellID, RNTI: latest.RNTI}
}

func (s *Store) GetAppLoss(_ context.Context, id ric.E2NodeID) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return 0
	}
	n, ok := s.byID[id]
	if !ok || len(n.appLoss) == 0 {
		return 0
	}
	return n.appLoss[len(n.appLoss)-1]
}

func (s *Store) GetLteUeRsrpRsrq(_ context.Context, id ric.E2NodeID) []ric.RsrpRsrqSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return nil
	}
	n, ok := s.byID[id]
	if !ok || len(n.rsrpRsrq) == 0 {
		return nil
	}
	latestTs := n.rsrpRsrq[len(n.rsrpRsrq)-1].Timestamp
	var out []ric.RsrpRsrqSample
	for _, sample := range n.rsrpRsrq {
		if sample.Timestamp.Equal(latestTs) {
			out = append(out, sample)
		}
	}
	return out
}

func (s *Store) GetLteUeE2NodeIDs(_ context.Context) []ric.E2NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registeredIDsOfKindLocked(ric.NodeKindLteUE)
}

func (s *Store) GetLteEnbE2NodeIDs(_ context.Context) []ric.E2NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registeredIDsOfKindLocked(ric.NodeKindLteENB)
}

func (s *Store) registeredIDsOfKindLocked(kind ric.NodeKind) []ric.E2NodeID {
	if !s.active {
		return nil
	}
	var out []ric.E2NodeID
	for id, n := range s.byID {
		if n.kind == kind && s.isRegisteredLocked(id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Store) GetLastRegistrationRequests(_ context.Context) map[ric.E2NodeID]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[ric.E2NodeID]time.Time)
	if !s.active {
		return out
	}
	for id, n := range s.byID {
		if !s.isRegisteredLocked(id) {
			continue
		}
		for i := len(n.events) - 1; i >= 0; i-- {
			if n.events[i].registered {
				out[id] = n.events[i].at
				break
			}
		}
	}
	return out
}

func (s *Store) GetLteUeE2NodeIDFromCellInfo(_ context.Context, cellID, rnti uint32) (ric.E2NodeID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return ric.InvalidE2NodeID, false
	}
	var bestID ric.E2NodeID
	var bestAt time.Time
	found := false
	for id, n := range s.byID {
		if n.kind != ric.NodeKindLteUE {
			continue
		}
		for _, ci := range n.cellInfo {
			if ci.CellID == cellID && ci.RNTI == rnti {
				if !found || ci.At.After(bestAt) {
					bestID, bestAt, found = id, ci.At, true
				}
			}
		}
	}
	return bestID, found
}

func (s *Store) logLocked(component, name, text string) {
	s.audit = append(s.audit, ric.NewAuditEntry(component, name, text, time.Now()))
}

func (s *Store) LogCommandFromE2Terminator(_ context.Context, cmd ric.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.logLocked("E2Terminator", "", cmd.String())
}

func (s *Store) LogCommandFromLm(_ context.Context, lmName string, cmd ric.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.logLocked("LogicModule", lmName, cmd.String())
}

func (s *Store) LogActionLm(_ context.Context, lmName, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.logLocked("LogicModule", lmName, text)
}

func (s *Store) LogActionCmm(_ context.Context, cmmName, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.logLocked("ConflictMitigationModule", cmmName, text)
}

func (s *Store) AuditEntries(_ context.Context) []ric.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ric.AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}
