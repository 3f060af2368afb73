package ric

// LogicModule is a pluggable decision unit (C5): it reads the
// DataRepository and emits Commands on each cycle. Exactly one instance
// is the distinguished "default LM"; any number of additional LMs may be
// added and removed by unique name while the RIC is running.
//
// Run must not block: it computes commands synchronously (by calling only
// DataRepository readers), then schedules a delivery after ProcessingDelay
// has elapsed, at which point it calls back into Core.NotifyLmFinished.
type LogicModule interface {
	// Name is the LM's display name. The default LM's name is still
	// meaningful (for audit text) even though it cannot be looked up via
	// Core.AdditionalLogicModule.
	Name() string

	Activate()
	Deactivate()

	// Run starts computing commands for cycleID. If this LM is already
	// pending delivery from a prior Run, that prior run is cancelled
	// first (an audit entry records the dropped commands) before the new
	// run begins. When inactive, Run is a no-op and any pending delivery
	// is cancelled.
	Run(cycleID CycleID)

	// IsRunning reports whether a delivery event is currently pending.
	IsRunning() bool

	// CancelRun cancels any pending delivery without starting a new run.
	// An audit entry records the dropped commands, if any were pending.
	CancelRun()
}

// CycleID identifies one queryLms invocation. RicCore compares the
// cycleID a LogicModule reports back against its own current cycle to
// classify the callback as on-time, late, or a protocol error (spec §4.7,
// §7).
type CycleID uint64
