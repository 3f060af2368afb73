// Package terminator provides NodeTerminator implementations (C4), one per
// NodeKind, built on a shared registration/send-loop skeleton grounded on
// oran-e2-node-terminator.cc.
package terminator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/oran-ric/near-rt-ric/internal/clock"
	"github.com/oran-ric/near-rt-ric/internal/logging"
	"github.com/oran-ric/near-rt-ric/ric"
)

// base is the shared NodeTerminator skeleton: periodic registration repeated
// until deactivation, periodic buffered-report flush, and reporter
// lifecycle management. Kind-specific terminators embed base and supply
// ReceiveCommand.
type base struct {
	mu sync.Mutex

	kind     ric.NodeKind
	external ric.ExternalID
	link     ric.E2TerminatorLink
	cfg      ric.TerminatorConfig
	clk      clock.Clock
	log      *slog.Logger

	active     bool
	e2NodeID   ric.E2NodeID
	reporters  []ric.Reporter
	buffer     []ric.Report
	regEvent   clock.Handle
	sendEvent  clock.Handle
}

func newBase(kind ric.NodeKind, external ric.ExternalID, link ric.E2TerminatorLink, cfg ric.TerminatorConfig, clk clock.Clock, log *slog.Logger) base {
	if clk == nil {
		clk = clock.Real{}
	}
	if log == nil {
		log = logging.New(logging.DefaultConfig())
	}
	return base{kind: kind, external: external, link: link, cfg: cfg, clk: clk, log: log, e2NodeID: ric.InvalidE2NodeID}
}

func (b *base) Kind() ric.NodeKind      { return b.kind }
func (b *base) External() ric.ExternalID { return b.external }

func (b *base) CurrentE2NodeID() ric.E2NodeID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.e2NodeID
}

func (b *base) AddReporter(r ric.Reporter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reporters = append(b.reporters, r)
}

func (b *base) StoreReport(r ric.Report) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active {
		b.buffer = append(b.buffer, r)
	}
}

// activate starts the registration and send loops and every attached
// Reporter. self is the owning NodeTerminator, passed to
// SendRegistrationRequest so the RIC's lookup map resolves back to it.
func (b *base) activate(ctx context.Context, self ric.NodeTerminator) {
	b.mu.Lock()
	if b.active {
		b.mu.Unlock()
		return
	}
	b.active = true
	b.buffer = nil
	b.mu.Unlock()

	b.warnIfRegistrationOutpacesInactivity()
	b.register(ctx, self)

	b.mu.Lock()
	reporters := append([]ric.Reporter(nil), b.reporters...)
	b.mu.Unlock()
	for _, r := range reporters {
		r.Activate(ctx)
	}
}

// warnIfRegistrationOutpacesInactivity logs once, at Activate, if this
// terminator's registration cadence cannot keep its node's last-registration
// timestamp fresh enough to survive the RIC's inactivity sweep — a
// misconfiguration that would otherwise surface only as the node being
// silently swept as inactive. Best-effort: it samples one Draw() rather than
// reasoning about a RandomVariable's distribution.
func (b *base) warnIfRegistrationOutpacesInactivity() {
	if b.cfg.InactivityThreshold <= 0 {
		return
	}
	interval := b.cfg.RegistrationInterval.Draw()
	if interval > b.cfg.InactivityThreshold {
		b.log.Warn("registration interval exceeds inactivity threshold, node may be swept as inactive",
			"kind", b.kind, "external", b.external,
			"registrationInterval", interval, "inactivityThreshold", b.cfg.InactivityThreshold)
	}
}

func (b *base) deactivate() {
	b.mu.Lock()
	if !b.active {
		b.mu.Unlock()
		return
	}
	reporters := append([]ric.Reporter(nil), b.reporters...)
	if b.sendEvent != nil {
		b.sendEvent.Cancel()
	}
	if b.regEvent != nil {
		b.regEvent.Cancel()
	}
	id := b.e2NodeID
	b.active = false
	b.mu.Unlock()

	for _, r := range reporters {
		r.Deactivate()
	}
	b.link.SendDeregistrationRequest(context.Background(), id)
}

// register sends a registration request and reschedules itself at
// cfg.RegistrationInterval until the terminator is deactivated; a
// successful response does not stop the resend cadence. Every request
// carries the same kind and external identity, which the store resolves to
// the same E2NodeID, matching the source's unconditional periodic
// re-register.
func (b *base) register(ctx context.Context, self ric.NodeTerminator) {
	b.mu.Lock()
	if !b.active {
		b.mu.Unlock()
		return
	}
	if b.regEvent != nil {
		b.regEvent.Cancel()
	}
	b.mu.Unlock()

	b.link.SendRegistrationRequest(ctx, b.kind, b.external, self)

	b.mu.Lock()
	interval := b.cfg.RegistrationInterval.Draw()
	b.regEvent = b.clk.AfterFunc(interval, func() { b.register(ctx, self) })
	b.mu.Unlock()
}

func (b *base) receiveRegistrationResponse(ctx context.Context, id ric.E2NodeID) {
	b.mu.Lock()
	if !b.active {
		b.mu.Unlock()
		return
	}
	changed := b.e2NodeID != id
	b.e2NodeID = id
	reporters := append([]ric.Reporter(nil), b.reporters...)
	b.mu.Unlock()

	if changed && id != ric.InvalidE2NodeID {
		for _, r := range reporters {
			r.NotifyRegistered()
		}
	}
	b.scheduleNextSend(ctx)
}

func (b *base) receiveDeregistrationResponse(ric.E2NodeID) {
	b.mu.Lock()
	b.e2NodeID = ric.InvalidE2NodeID
	b.mu.Unlock()
}

func (b *base) scheduleNextSend(ctx context.Context) {
	b.mu.Lock()
	if !b.active {
		b.mu.Unlock()
		return
	}
	if b.sendEvent != nil {
		b.sendEvent.Cancel()
	}
	interval := b.cfg.SendInterval.Draw()
	b.sendEvent = b.clk.AfterFunc(interval, func() { b.doSendReports(ctx) })
	b.mu.Unlock()
}

func (b *base) doSendReports(ctx context.Context) {
	b.mu.Lock()
	if !b.active {
		b.mu.Unlock()
		return
	}
	pending := b.buffer
	b.buffer = nil
	link := b.link
	b.mu.Unlock()

	for _, r := range pending {
		link.SendReport(ctx, r)
	}
	b.scheduleNextSend(ctx)
}
