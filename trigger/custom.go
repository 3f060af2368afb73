// Package trigger provides QueryTrigger implementations (C7): Custom, a
// caller-supplied predicate, and Noop, which never fires. Grounded on
// oran-query-trigger-custom.cc / oran-query-trigger-noop.h.
package trigger

import "github.com/oran-ric/near-rt-ric/ric"

// Custom adapts a plain function to ric.QueryTrigger, the "custom variant"
// of spec §4.5. A nil callback behaves like Noop.
type Custom struct {
	fn func(r ric.Report) bool
}

// NewCustom constructs a Custom trigger from fn.
func NewCustom(fn func(r ric.Report) bool) Custom {
	return Custom{fn: fn}
}

func (c Custom) ShouldQueryLms(r ric.Report) bool {
	return c.fn != nil && c.fn(r)
}
