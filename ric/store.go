package ric

import (
	"context"
	"time"
)

// PositionSample is one persisted position record, ordered descending by
// Timestamp when returned from GetNodePositions.
type PositionSample struct {
	E2NodeID  E2NodeID
	X, Y, Z   float64
	Timestamp time.Time
}

// CellInfo is the latest persisted cell attachment for an LTE UE.
type CellInfo struct {
	Found  bool
	CellID uint32
	RNTI   uint32
}

// RsrpRsrqSample is one signal-quality sample.
type RsrpRsrqSample struct {
	E2NodeID  E2NodeID
	Timestamp time.Time
	RNTI      uint32
	CellID    uint32
	RSRP      float64
	RSRQ      float64
	IsServing bool
	CarrierID uint32
}

// DataRepository is the persistent store of nodes, registrations, samples,
// and the audit log (C3). Implementations may be backed by a relational
// engine, an in-memory store, or a mock; the contract is identical. See
// spec §4.1.
//
// Per I4, all sample/event tables are append-only; only the Node identity
// record itself may be overwritten (on re-registration).
//
// Failure semantics: any storage-level failure is fatal. Implementations
// must call internal/fatal.Abortf naming the operation and its bound
// arguments rather than returning an error the caller could route around.
type DataRepository interface {
	// Activate/Deactivate toggle whether mutators are no-ops and readers
	// return empty results. Activate is idempotent.
	Activate()
	Deactivate()

	IsRegistered(ctx context.Context, id E2NodeID) bool

	// at stamps the registration/deregistration event with the caller's
	// clock (not the store's own wall-clock reading), so that
	// Core.sweepInactivityLocked's comparison against c.clk.Now() remains
	// meaningful under clock.Manual as well as clock.Real.
	RegisterNode(ctx context.Context, kind NodeKind, external ExternalID, at time.Time) E2NodeID
	RegisterLteUe(ctx context.Context, external ExternalID, imsi uint64, at time.Time) E2NodeID
	RegisterLteEnb(ctx context.Context, external ExternalID, cellID uint32, at time.Time) E2NodeID
	DeregisterNode(ctx context.Context, id E2NodeID, at time.Time) E2NodeID

	SavePosition(ctx context.Context, id E2NodeID, x, y, z float64, at time.Time)
	SaveLteUeCellInfo(ctx context.Context, id E2NodeID, cellID, rnti uint32, at time.Time)
	SaveAppLoss(ctx context.Context, id E2NodeID, loss float64, at time.Time)
	SaveLteUeRsrpRsrq(ctx context.Context, sample RsrpRsrqSample)

	GetNodePositions(ctx context.Context, id E2NodeID, from, to time.Time, limit int) []PositionSample
	GetLteUeCellInfo(ctx context.Context, id E2NodeID) CellInfo
	GetAppLoss(ctx context.Context, id E2NodeID) float64
	GetLteUeRsrpRsrq(ctx context.Context, id E2NodeID) []RsrpRsrqSample
	GetLteUeE2NodeIDs(ctx context.Context) []E2NodeID
	GetLteEnbE2NodeIDs(ctx context.Context) []E2NodeID
	GetLastRegistrationRequests(ctx context.Context) map[E2NodeID]time.Time
	GetLteUeE2NodeIDFromCellInfo(ctx context.Context, cellID, rnti uint32) (E2NodeID, bool)

	LogCommandFromE2Terminator(ctx context.Context, cmd Command)
	LogCommandFromLm(ctx context.Context, lmName string, cmd Command)
	LogActionLm(ctx context.Context, lmName, text string)
	LogActionCmm(ctx context.Context, cmmName, text string)

	// AuditEntries returns the audit log accumulated so far, in insertion
	// order. Exposed for tests and operational introspection; not part of
	// the original contract's mutator/reader split.
	AuditEntries(ctx context.Context) []AuditEntry
}

// StorageTrace is an optional callback that fires for every DataRepository
// operation regardless of success, taking the operation name, its bound
// arguments, and whether it succeeded. See spec §4.1.
type StorageTrace func(operation string, args []any, ok bool)
