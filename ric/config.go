package ric

import "time"

// LateCommandPolicy governs what happens to a notifyLmFinished callback
// that arrives for the current cycle after its deadline has fired.
type LateCommandPolicy int

const (
	// LateCommandDrop discards late commands; an audit entry is written.
	LateCommandDrop LateCommandPolicy = iota
	// LateCommandSave carries late commands into the next cycle's
	// accumulator under the same (lmName, isDefault) key.
	LateCommandSave
)

func (p LateCommandPolicy) String() string {
	if p == LateCommandSave {
		return "SAVE"
	}
	return "DROP"
}

// AddLogicModuleResult is returned by Core.AddLogicModule. Modeled as an
// explicit result enum, not a bare bool, matching the source's
// AddLmResult: ADDLM_OK / ADDLM_ERR_NAME_EXISTS.
type AddLogicModuleResult int

const (
	AddLogicModuleOK AddLogicModuleResult = iota
	AddLogicModuleErrNameExists
)

// RemoveLogicModuleResult is returned by Core.RemoveLogicModule, mirroring
// the source's RemoveLmResult: DELLM_OK / DELLM_ERR_NAME_INVALID.
type RemoveLogicModuleResult int

const (
	RemoveLogicModuleOK RemoveLogicModuleResult = iota
	RemoveLogicModuleErrNameInvalid
)

// minLmQueryInterval is the floor spec §4.7 mandates for lmQueryInterval.
const minLmQueryInterval = 10 * time.Millisecond

// Config holds RicCore's construction-time configuration. There is no CLI,
// environment-variable, or flag-parsed path to this struct (spec §6): the
// embedding program builds it explicitly.
type Config struct {
	// LmQueryInterval is the periodic cadence of queryLms. Clamped to a
	// floor of 10ms (spec §4.7).
	LmQueryInterval time.Duration
	// LmQueryMaxWaitTime bounds how long a cycle waits for LM responses.
	// Zero means wait indefinitely.
	LmQueryMaxWaitTime time.Duration
	// LmQueryLateCommandPolicy governs late notifyLmFinished arrivals.
	LmQueryLateCommandPolicy LateCommandPolicy
	// E2NodeInactivityThreshold is the age past which an unrenewed
	// registration is swept as inactive.
	E2NodeInactivityThreshold time.Duration
	// E2NodeInactivityInterval draws how often the inactivity sweep runs.
	E2NodeInactivityInterval RandomVariable
	// RicTransmissionDelay is filled in by Normalize but not read by Core;
	// the delay the E2Terminator applies to registration and deregistration
	// responses and dispatched commands is the one passed to
	// NewE2Terminator. Incoming reports are not delayed.
	RicTransmissionDelay RandomVariable
	// Verbose is not read by Core: audit-log writes, informational ones
	// included, are made whatever its value. Per-LM verbosity is the
	// verbose argument of lm.NewBaseLM.
	Verbose bool
}

// DefaultConfig returns the configuration defaults enumerated in spec §6.
func DefaultConfig() Config {
	return Config{
		LmQueryInterval:           5 * time.Second,
		LmQueryMaxWaitTime:        0,
		LmQueryLateCommandPolicy:  LateCommandDrop,
		E2NodeInactivityThreshold: 2 * time.Second,
		E2NodeInactivityInterval:  Constant(2 * time.Second),
		RicTransmissionDelay:      Constant(0),
		Verbose:                  false,
	}
}

// Normalize clamps LmQueryInterval to its configured floor and fills in any
// nil RandomVariable fields with their spec §6 constant defaults.
func (c Config) Normalize() Config {
	if c.LmQueryInterval < minLmQueryInterval {
		c.LmQueryInterval = minLmQueryInterval
	}
	if c.E2NodeInactivityInterval == nil {
		c.E2NodeInactivityInterval = Constant(2 * time.Second)
	}
	if c.RicTransmissionDelay == nil {
		c.RicTransmissionDelay = Constant(0)
	}
	return c
}

// TerminatorConfig holds per-NodeTerminator configuration (spec §4.2, §6).
type TerminatorConfig struct {
	RegistrationInterval RandomVariable // default 1s
	SendInterval         RandomVariable // default 1s
	TransmissionDelay    RandomVariable // default 0s
	// InactivityThreshold mirrors Config.E2NodeInactivityThreshold so a
	// terminator can warn, at Activate, if its own registration cadence
	// cannot keep a node's registration fresh against the RIC's sweep
	// (see warnIfRegistrationOutpacesInactivity in terminator/base.go).
	// Zero disables the check.
	InactivityThreshold time.Duration
}

// DefaultTerminatorConfig returns the spec §6 per-terminator defaults.
func DefaultTerminatorConfig() TerminatorConfig {
	return TerminatorConfig{
		RegistrationInterval: Constant(time.Second),
		SendInterval:         Constant(time.Second),
		TransmissionDelay:    Constant(0),
		InactivityThreshold:  2 * time.Second,
	}
}

// LogicModuleConfig holds per-LM configuration (spec §4.3, §6).
type LogicModuleConfig struct {
	Name            string
	ProcessingDelay RandomVariable // default 0s
}
