package terminator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/oran-ric/near-rt-ric/internal/clock"
	"github.com/oran-ric/near-rt-ric/ric"
)

// fakeLink is a minimal ric.E2TerminatorLink recording every call so tests
// can assert on registration retry cadence and report forwarding without a
// real RicE2Terminator.
type fakeLink struct {
	mu            sync.Mutex
	registrations int
	deregistered  []ric.E2NodeID
	reports       []ric.Report
}

func (f *fakeLink) SendRegistrationRequest(ctx context.Context, kind ric.NodeKind, external ric.ExternalID, term ric.NodeTerminator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registrations++
}

func (f *fakeLink) SendDeregistrationRequest(ctx context.Context, id ric.E2NodeID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deregistered = append(f.deregistered, id)
}

func (f *fakeLink) SendReport(ctx context.Context, r ric.Report) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, r)
}

func (f *fakeLink) registrationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registrations
}

func (f *fakeLink) reportCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reports)
}

func testConfig() ric.TerminatorConfig {
	return ric.TerminatorConfig{
		RegistrationInterval: ric.Constant(time.Second),
		SendInterval:         ric.Constant(time.Second),
		TransmissionDelay:    ric.Constant(0),
	}
}

func TestLteEnbRegistersAndRetriesUntilDeactivated(t *testing.T) {
	link := &fakeLink{}
	clk := clock.NewManual(time.Unix(0, 0))
	term := NewLteEnb(7, nil, link, testConfig(), clk, nil)

	term.Activate(context.Background())
	if link.registrationCount() != 1 {
		t.Fatalf("expected 1 registration request on Activate, got %d", link.registrationCount())
	}

	clk.Advance(time.Second)
	if link.registrationCount() != 2 {
		t.Fatalf("expected a retried registration after the interval, got %d", link.registrationCount())
	}

	term.ReceiveRegistrationResponse(99)
	if term.CurrentE2NodeID() != 99 {
		t.Fatalf("CurrentE2NodeID = %d, want 99", term.CurrentE2NodeID())
	}

	clk.Advance(time.Second)
	if link.registrationCount() != 3 {
		t.Fatalf("expected registration retries to continue even after success, got %d", link.registrationCount())
	}

	term.Deactivate()
	clk.Advance(10 * time.Second)
	if link.registrationCount() != 3 {
		t.Fatalf("expected no further registration retries after Deactivate, got %d", link.registrationCount())
	}
	if len(link.deregistered) != 1 || link.deregistered[0] != 99 {
		t.Fatalf("expected a deregistration for node 99, got %+v", link.deregistered)
	}
}

func TestLteEnbBuffersAndFlushesReportsOnSendCadence(t *testing.T) {
	link := &fakeLink{}
	clk := clock.NewManual(time.Unix(0, 0))
	term := NewLteEnb(7, nil, link, testConfig(), clk, nil)

	term.Activate(context.Background())
	term.ReceiveRegistrationResponse(1)

	term.StoreReport(ric.NewLocationReport(1, clk.Now(), 0, 0, 0))
	term.StoreReport(ric.NewLocationReport(1, clk.Now(), 1, 1, 1))
	if link.reportCount() != 0 {
		t.Fatalf("expected reports to stay buffered before the send cadence fires, got %d", link.reportCount())
	}

	clk.Advance(time.Second)
	if link.reportCount() != 2 {
		t.Fatalf("expected both buffered reports flushed, got %d", link.reportCount())
	}
}

func TestLteEnbStoreReportDroppedWhileInactive(t *testing.T) {
	link := &fakeLink{}
	clk := clock.NewManual(time.Unix(0, 0))
	term := NewLteEnb(7, nil, link, testConfig(), clk, nil)

	term.StoreReport(ric.NewLocationReport(1, clk.Now(), 0, 0, 0))
	term.Activate(context.Background())
	clk.Advance(time.Second)

	if link.reportCount() != 0 {
		t.Fatalf("a report stored before Activate must be dropped, not buffered, got %d", link.reportCount())
	}
}

type fakeRadio struct {
	rnti, cell uint32
	called     bool
}

func (f *fakeRadio) SendHandoverRequest(targetRNTI, targetCellID uint32) {
	f.called = true
	f.rnti, f.cell = targetRNTI, targetCellID
}

func TestLteEnbForwardsHandoverCommandToRadio(t *testing.T) {
	radio := &fakeRadio{}
	link := &fakeLink{}
	clk := clock.NewManual(time.Unix(0, 0))
	term := NewLteEnb(7, radio, link, testConfig(), clk, nil)

	term.ReceiveCommand(ric.NewLte2LteHandoverCommand(7, 42, 100))
	if !radio.called || radio.cell != 42 || radio.rnti != 100 {
		t.Fatalf("expected the handover forwarded to the radio, got called=%v cell=%d rnti=%d", radio.called, radio.cell, radio.rnti)
	}
}

func TestLteEnbIgnoresNonHandoverCommand(t *testing.T) {
	radio := &fakeRadio{}
	link := &fakeLink{}
	clk := clock.NewManual(time.Unix(0, 0))
	term := NewLteEnb(7, radio, link, testConfig(), clk, nil)

	term.ReceiveCommand(ric.NewBaseCommand(7))
	if radio.called {
		t.Fatal("expected a non-handover command to be silently ignored")
	}
}

func TestLteUeIgnoresEveryCommand(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	term := NewLteUe(12345, &fakeLink{}, testConfig(), clk, nil)
	term.ReceiveCommand(ric.NewLte2LteHandoverCommand(1, 42, 100))
}

func TestWiredIgnoresEveryCommand(t *testing.T) {
	clk := clock.NewManual(time.Unix(0, 0))
	term := NewWired(1, &fakeLink{}, testConfig(), clk, nil)
	term.ReceiveCommand(ric.NewBaseCommand(1))
}

func TestWiredRegistersOnActivate(t *testing.T) {
	link := &fakeLink{}
	clk := clock.NewManual(time.Unix(0, 0))
	term := NewWired(1, link, testConfig(), clk, nil)

	term.Activate(context.Background())
	if link.registrationCount() != 1 {
		t.Fatalf("expected a registration request on Activate, got %d", link.registrationCount())
	}
	term.ReceiveRegistrationResponse(5)
	if term.CurrentE2NodeID() != 5 {
		t.Fatalf("CurrentE2NodeID = %d, want 5", term.CurrentE2NodeID())
	}
	term.Deactivate()
}
