package ric

import "context"

// NodeTerminator is a per-endpoint agent: it registers with the RIC,
// forwards buffered Reports, and receives dispatched Commands (C4). One
// implementation exists per NodeKind; a terminator silently ignores any
// Command variant it does not recognize.
type NodeTerminator interface {
	// Kind reports which NodeKind this terminator represents.
	Kind() NodeKind
	// External is the terminator's external identity, used to resolve the
	// stable E2NodeID across re-registration.
	External() ExternalID

	// Activate starts the periodic registration and send loops, and
	// activates every attached Reporter in turn.
	Activate(ctx context.Context)
	// Deactivate cancels both periodic loops and deactivates Reporters.
	Deactivate()

	// AddReporter attaches a Reporter, activated and deactivated with this
	// terminator. The send cadence flushes the reports already buffered via
	// StoreReport; it does not call GenerateReports.
	AddReporter(r Reporter)
	// StoreReport appends a report to the terminator's pending buffer.
	// Called by a Reporter when it has something to send.
	StoreReport(r Report)

	// ReceiveCommand dispatches cmd by variant; unrecognized variants are
	// silently ignored (spec §7, "Unknown command variant at terminator").
	ReceiveCommand(cmd Command)

	// ReceiveRegistrationResponse updates local state with the assigned
	// E2NodeID and, whenever that E2NodeID changes to a valid one, notifies
	// every attached Reporter that registration is complete. This happens on
	// the first successful registration and again on a registration that
	// follows a deregistration response.
	ReceiveRegistrationResponse(id E2NodeID)
	// ReceiveDeregistrationResponse updates local state to reflect
	// deregistration.
	ReceiveDeregistrationResponse(id E2NodeID)

	// CurrentE2NodeID returns the terminator's last-known assigned
	// E2NodeID, or InvalidE2NodeID before the first registration
	// response.
	CurrentE2NodeID() E2NodeID
}

// E2TerminatorLink is the narrow view of RicE2Terminator a NodeTerminator
// depends on: sending registration/deregistration/report messages toward
// the RIC. It exists so NodeTerminator implementations hold only a back
// reference, per spec §9's cyclic-ownership redesign.
type E2TerminatorLink interface {
	SendRegistrationRequest(ctx context.Context, kind NodeKind, external ExternalID, term NodeTerminator)
	SendDeregistrationRequest(ctx context.Context, id E2NodeID)
	SendReport(ctx context.Context, r Report)
}

// Reporter owns a ReportTrigger and, on trigger fire, generates zero or
// more Reports and forwards them to its NodeTerminator via StoreReport.
type Reporter interface {
	Activate(ctx context.Context)
	Deactivate()
	// GenerateReports is invoked when the owning ReportTrigger fires; the
	// terminator's send loop does not call it. It returns the reports to
	// forward to StoreReport.
	GenerateReports() []Report
	// NotifyRegistered is called each time the owning terminator's
	// E2NodeID changes to a valid one (first registration, and
	// re-registration after a deregistration response), so an initial
	// report may fire.
	NotifyRegistered()
}

// ReportTrigger decides when a Reporter should emit. The periodic variant
// fires on a timer; the location-change variant fires each time its owner
// signals a position change, without comparing positions; a no-op variant
// never fires on its own.
type ReportTrigger interface {
	Activate(ctx context.Context, fire func())
	Deactivate()
}
