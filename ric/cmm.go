package ric

// LmKey identifies one LM's contribution to a cycle's command map: its
// name and whether it is the default LM. Both the default LM and an
// additional LM named identically are distinguishable by IsDefault.
type LmKey struct {
	Name      string
	IsDefault bool
}

// CommandsByLm is the merged per-cycle input to a ConflictMitigationModule:
// every LM's command list, keyed by LmKey.
type CommandsByLm map[LmKey][]Command

// ConflictMitigationModule filters a cycle's merged command map down to an
// ordered list of commands to dispatch (C6). Exactly one CMM is active on
// a RicCore at a time.
type ConflictMitigationModule interface {
	Name() string
	// Filter returns the ordered list of commands to dispatch. Must not
	// mutate its own private state except through deterministic,
	// self-contained bookkeeping (e.g. a pending-set of previously
	// emitted handovers).
	Filter(input CommandsByLm) []Command
}
