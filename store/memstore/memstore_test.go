package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oran-ric/near-rt-ric/ric"
	"github.com/oran-ric/near-rt-ric/store/memstore"
)

func TestRegisterNodeAssignsStableID(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	ext := ric.LteUeID(12345)
	id1 := s.RegisterLteUe(ctx, ext, 12345, time.Unix(0, 0))
	require.NotEqual(t, ric.InvalidE2NodeID, id1)
	require.True(t, s.IsRegistered(ctx, id1))

	// Re-registering the same external identity resolves to the same
	// E2NodeID (I1), and does not mint a second one.
	id2 := s.RegisterLteUe(ctx, ext, 12345, time.Unix(0, 0))
	require.Equal(t, id1, id2)
}

func TestDeregisterNodeMakesIsRegisteredFalse(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	id := s.RegisterNode(ctx, ric.NodeKindWired, ric.WiredID(1), time.Unix(0, 0))
	require.True(t, s.IsRegistered(ctx, id))

	s.DeregisterNode(ctx, id, time.Unix(1, 0))
	require.False(t, s.IsRegistered(ctx, id))

	// Re-registration after deregistration resolves to the same id and
	// makes the node registered again.
	id2 := s.RegisterNode(ctx, ric.NodeKindWired, ric.WiredID(1), time.Unix(2, 0))
	require.Equal(t, id, id2)
	require.True(t, s.IsRegistered(ctx, id))
}

func TestPositionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	id := s.RegisterNode(ctx, ric.NodeKindWired, ric.WiredID(1), time.Unix(0, 0))

	t0 := time.Unix(1000, 0)
	s.SavePosition(ctx, id, 1, 2, 3, t0)
	s.SavePosition(ctx, id, 4, 5, 6, t0.Add(time.Second))

	got := s.GetNodePositions(ctx, id, t0.Add(-time.Hour), t0.Add(time.Hour), 0)
	require.Len(t, got, 2)
	// Returned newest-first.
	require.Equal(t, 4.0, got[0].X)
	require.Equal(t, 1.0, got[1].X)
}

func TestSaveRejectedForUnregisteredNode(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	s.SavePosition(ctx, ric.E2NodeID(999), 1, 2, 3, time.Now())
	got := s.GetNodePositions(ctx, ric.E2NodeID(999), time.Time{}, time.Now().Add(time.Hour), 0)
	require.Empty(t, got)
}

func TestLteUeCellInfoAndE2NodeIDLookup(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	id := s.RegisterLteUe(ctx, ric.LteUeID(1), 1, time.Unix(0, 0))

	s.SaveLteUeCellInfo(ctx, id, 10, 20, time.Unix(100, 0))
	info := s.GetLteUeCellInfo(ctx, id)
	require.True(t, info.Found)
	require.Equal(t, uint32(10), info.CellID)
	require.Equal(t, uint32(20), info.RNTI)

	found, ok := s.GetLteUeE2NodeIDFromCellInfo(ctx, 10, 20)
	require.True(t, ok)
	require.Equal(t, id, found)
}

func TestAppLossLatestWins(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	id := s.RegisterNode(ctx, ric.NodeKindWired, ric.WiredID(1), time.Unix(0, 0))

	s.SaveAppLoss(ctx, id, 0.1, time.Unix(1, 0))
	s.SaveAppLoss(ctx, id, 0.2, time.Unix(2, 0))
	require.Equal(t, 0.2, s.GetAppLoss(ctx, id))
}

func TestDeactivateSuspendsMutatorsAndReaders(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	id := s.RegisterNode(ctx, ric.NodeKindWired, ric.WiredID(1), time.Unix(0, 0))

	s.Deactivate()
	require.False(t, s.IsRegistered(ctx, id))
	require.Equal(t, ric.InvalidE2NodeID, s.RegisterNode(ctx, ric.NodeKindWired, ric.WiredID(2), time.Unix(0, 0)))

	s.Activate()
	require.True(t, s.IsRegistered(ctx, id))
}

func TestAuditEntriesRecordsCommandsAndActions(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	s.LogActionLm(ctx, "CdefaultLm", "No action taken")
	s.LogCommandFromE2Terminator(ctx, ric.NewBaseCommand(1))
	s.LogActionCmm(ctx, "CmmNoOp", "No action taken")

	entries := s.AuditEntries(ctx)
	require.Len(t, entries, 3)
	for _, e := range entries {
		require.NotEqual(t, [16]byte{}, [16]byte(e.ID), "audit entry should carry a non-zero correlation id")
	}
	require.Equal(t, "LogicModule", entries[0].Component)
	require.Equal(t, "E2Terminator", entries[1].Component)
	require.Equal(t, "ConflictMitigationModule", entries[2].Component)
}

func TestStorageTraceFiresOnEveryOperation(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	var ops []string
	s.WithTrace(func(op string, args []any, ok bool) { ops = append(ops, op) })

	s.RegisterNode(ctx, ric.NodeKindWired, ric.WiredID(1), time.Unix(0, 0))
	s.IsRegistered(ctx, 1)

	require.Contains(t, ops, "RegisterNode")
	require.Contains(t, ops, "IsRegistered")
}
