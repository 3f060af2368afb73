// Package fatal provides the idiomatic Go analogue of ns-3's NS_ABORT_MSG:
// a way to signal that a condition indicates a programming or configuration
// defect rather than a runtime contingency a caller could react to.
//
// Configuration errors, storage errors, and protocol errors (spec §7) are
// all "Fatal — abort" classified; they panic through Abortf rather than
// returning an error, since there is no recovery path the spec defines for
// them.
package fatal

import (
	"fmt"
	"log/slog"
)

// Error is the panic value raised by Abortf.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Abortf logs the formatted message at Error level and panics with *Error.
// Callers name the failing operation and its bound arguments in the
// message, matching the source's convention of including bound arguments
// in NS_ABORT_MSG calls.
func Abortf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Error(msg, slog.String("class", "fatal"))
	panic(&Error{Message: msg})
}

// AbortIf calls Abortf(format, args...) when cond is true, mirroring
// NS_ABORT_MSG_IF's guard-at-call-site idiom.
func AbortIf(cond bool, format string, args ...any) {
	if cond {
		Abortf(format, args...)
	}
}
